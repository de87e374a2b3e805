package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/umputun/kingcrab/app/store"
)

// DateCount is a number of postings published on the day
type DateCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// ParseDate parses date-like text and truncates it to the calendar day, in UTC.
// Returns false for empty or malformed text.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// DateHistogram counts postings per publish day, sorted by day.
// Postings without a parsable date are skipped.
func DateHistogram(postings []store.Posting) []DateCount {
	days := map[time.Time]int{}
	for _, p := range postings {
		day, ok := ParseDate(p.PublishedRaw)
		if !ok {
			continue
		}
		days[day]++
	}

	res := make([]DateCount, 0, len(days))
	for d, c := range days {
		res = append(res, DateCount{Date: d, Count: c})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res
}
