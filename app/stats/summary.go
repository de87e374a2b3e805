package stats

import (
	"sort"

	"github.com/umputun/kingcrab/app/store"
)

// CloudWord is a word cloud entry with font size derived from the count
type CloudWord struct {
	Word  string  `json:"word"`
	Count int     `json:"count"`
	Size  float64 `json:"size"`
}

// Options for Compute
type Options struct {
	TopN        int       // number of words in the ranking
	CloudWords  int       // max number of words in the cloud
	MinFontSize float64   // cloud font size for the rarest word
	MaxFontSize float64   // cloud font size for the most frequent word
	StopWords   StopWords // nil means DefaultStopWords
}

// Summary holds all statistics shown on the dashboard
type Summary struct {
	Total    int         `json:"total"`
	Dated    int         `json:"dated"` // postings with a parsable date
	TopWords []WordCount `json:"top_words"`
	Cloud    []CloudWord `json:"cloud"`
	Dates    []DateCount `json:"dates"`
}

// Compute makes Summary for postings
func Compute(postings []store.Posting, opts Options) Summary {
	if opts.StopWords == nil {
		opts.StopWords = DefaultStopWords()
	}
	if opts.TopN <= 0 {
		opts.TopN = 5
	}

	titles := make([]string, 0, len(postings))
	for _, p := range postings {
		titles = append(titles, p.Title)
	}
	freq := WordFrequency(Tokenize(titles), opts.StopWords)

	res := Summary{
		Total: len(postings),
		Cloud: Cloud(freq, opts.CloudWords, opts.MinFontSize, opts.MaxFontSize),
		Dates: DateHistogram(postings),
	}
	res.TopWords = freq
	if len(freq) > opts.TopN {
		res.TopWords = freq[:opts.TopN]
	}
	for _, d := range res.Dates {
		res.Dated += d.Count
	}
	return res
}

// Cloud picks up to maxWords most frequent words and scales font size linearly by count,
// from minSize to maxSize. The result is ordered alphabetically.
func Cloud(freq []WordCount, maxWords int, minSize, maxSize float64) []CloudWord {
	if maxWords <= 0 {
		maxWords = 100
	}
	if minSize <= 0 {
		minSize = 12
	}
	if maxSize < minSize {
		maxSize = minSize * 4
	}
	if len(freq) > maxWords {
		freq = freq[:maxWords]
	}

	maxCount := 0
	for _, wc := range freq {
		maxCount = max(maxCount, wc.Count)
	}

	res := make([]CloudWord, 0, len(freq))
	for _, wc := range freq {
		size := minSize + (maxSize-minSize)*float64(wc.Count)/float64(maxCount)
		res = append(res, CloudWord{Word: wc.Word, Count: wc.Count, Size: size})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Word < res[j].Word })
	return res
}
