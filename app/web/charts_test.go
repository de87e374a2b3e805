package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/kingcrab/app/stats"
)

func TestNewBarChart(t *testing.T) {
	res := newBarChart([]stats.WordCount{{Word: "developer", Count: 4}, {Word: "backend", Count: 2}, {Word: "go", Count: 1}})
	require.Len(t, res, 3)
	assert.Equal(t, barItem{Word: "developer", Count: 4, Percent: 100}, res[0])
	assert.InDelta(t, 50.0, res[1].Percent, 0.001)
	assert.InDelta(t, 25.0, res[2].Percent, 0.001)

	assert.Empty(t, newBarChart(nil))
}

func TestNewLineChart(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	t.Run("empty", func(t *testing.T) {
		res := newLineChart(nil, 400, 220)
		assert.Empty(t, res.Points)
		assert.Empty(t, res.Markers)
		assert.Equal(t, 400, res.Width)
	})

	t.Run("single date centered", func(t *testing.T) {
		res := newLineChart([]stats.DateCount{{Date: day(15), Count: 3}}, 400, 220)
		assert.Equal(t, "200.0,30.0", res.Points)
		require.Len(t, res.Markers, 1)
		assert.Equal(t, "2024-01-15: 3", res.Markers[0].Label)
		assert.Equal(t, "2024-01-15", res.First)
		assert.Equal(t, "2024-01-15", res.Last)
	})

	t.Run("scaled to max count", func(t *testing.T) {
		res := newLineChart([]stats.DateCount{{Date: day(1), Count: 1}, {Date: day(2), Count: 2}}, 400, 220)
		assert.Equal(t, "30.0,110.0 370.0,30.0", res.Points)
		assert.Equal(t, 2, res.MaxCount)
		assert.Equal(t, "2024-01-01", res.First)
		assert.Equal(t, "2024-01-02", res.Last)
	})
}
