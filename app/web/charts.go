package web

import (
	"fmt"
	"strings"

	"github.com/umputun/kingcrab/app/stats"
)

const (
	lineChartWidth  = 400
	lineChartHeight = 220
	chartPadding    = 30
)

// barItem is a single bar of the top words chart, Percent is relative to the most frequent word
type barItem struct {
	Word    string
	Count   int
	Percent float64
}

// lineChart is a svg polyline of postings per date
type lineChart struct {
	Width, Height int
	Points        string // svg polyline points, "x1,y1 x2,y2 ..."
	Markers       []lineMarker
	MaxCount      int
	First, Last   string // dates on the x-axis
}

type lineMarker struct {
	X, Y  float64
	Label string
}

// newBarChart makes bars for word counts, words are expected sorted by count
func newBarChart(words []stats.WordCount) []barItem {
	maxCount := 0
	for _, w := range words {
		maxCount = max(maxCount, w.Count)
	}
	res := make([]barItem, 0, len(words))
	for _, w := range words {
		res = append(res, barItem{Word: w.Word, Count: w.Count, Percent: 100 * float64(w.Count) / float64(maxCount)})
	}
	return res
}

// newLineChart places date counts evenly on x-axis and scales counts to the chart height.
// Empty dates give a chart without points.
func newLineChart(dates []stats.DateCount, width, height int) lineChart {
	res := lineChart{Width: width, Height: height}
	if len(dates) == 0 {
		return res
	}

	for _, d := range dates {
		res.MaxCount = max(res.MaxCount, d.Count)
	}
	res.First = humanDate(dates[0].Date)
	res.Last = humanDate(dates[len(dates)-1].Date)

	plotW := float64(width - 2*chartPadding)
	plotH := float64(height - 2*chartPadding)
	step := 0.0
	if len(dates) > 1 {
		step = plotW / float64(len(dates)-1)
	}

	points := make([]string, 0, len(dates))
	for i, d := range dates {
		x := float64(chartPadding) + step*float64(i)
		if len(dates) == 1 {
			x = float64(chartPadding) + plotW/2
		}
		y := float64(chartPadding) + plotH - plotH*float64(d.Count)/float64(res.MaxCount)
		points = append(points, fmt.Sprintf("%.1f,%.1f", x, y))
		res.Markers = append(res.Markers, lineMarker{X: x, Y: y, Label: fmt.Sprintf("%s: %d", humanDate(d.Date), d.Count)})
	}
	res.Points = strings.Join(points, " ")
	return res
}
