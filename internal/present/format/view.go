package format

import (
	"fmt"
	"strings"

	"github.com/mithrel/dossier/internal/render"
	"github.com/mithrel/dossier/pkg/api"
)

// NoData is shown for missing or empty sections.
const NoData = "No data available"

// Font scale for the word cloud.
const (
	minFontPx = 10.0
	maxFontPx = 40.0
)

// WordCloudFontSize maps a normalized size (0..100) onto the font scale.
func WordCloudFontSize(size int) float64 {
	px := minFontPx + float64(size)/100*(maxFontPx-minFontPx)
	switch {
	case px < minFontPx:
		return minFontPx
	case px > maxFontPx:
		return maxFontPx
	}
	return px
}

// BarPercents scales values against the series maximum (max -> 100).
// Empty or all-zero series yield zeros.
func BarPercents(values []int) []float64 {
	out := make([]float64, len(values))
	peak := 0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		return out
	}
	for i, v := range values {
		if v > 0 {
			out[i] = float64(v) / float64(peak) * 100
		}
	}
	return out
}

// TopicPercent clamps a topic share to a drawable bar width.
func TopicPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Series names a trend and how to read its values.
type Series struct {
	Name   string
	Points []api.TrendPoint
	Value  func(api.TrendPoint) int
}

// TrendSeries lists the three dashboard trends in display order.
func TrendSeries(t api.Trends) []Series {
	return []Series{
		{Name: "Reports over time", Points: t.ReportsOverTime, Value: func(p api.TrendPoint) int { return p.Count }},
		{Name: "Word count", Points: t.WordCountTrend, Value: func(p api.TrendPoint) int { return p.Words }},
		{Name: "Sources", Points: t.SourcesTrend, Value: func(p api.TrendPoint) int { return p.Sources }},
	}
}

// Values extracts the series values in order.
func (s Series) Values() []int {
	out := make([]int, len(s.Points))
	for i, p := range s.Points {
		out[i] = s.Value(p)
	}
	return out
}

// MetaLine is the article metadata line.
func MetaLine(r api.Report) string {
	return fmt.Sprintf("Words: %d | Sources: %d", r.WordCount, len(r.Sources))
}

// Star marks favorites in lists.
func Star(fav bool) string {
	if fav {
		return "★"
	}
	return ""
}

// ArticleOptions controls how report text is prepared.
type ArticleOptions struct {
	// Terms, when non-nil, highlights keywords.
	Terms    *api.KeywordSet
	Sanitize bool
	Marker   render.Marker
}

// ArticleHTML formats content into an HTML fragment, then sanitizes and
// highlights it as requested. Summary gets the same highlighting.
func ArticleHTML(r api.Report, o ArticleOptions) (content, summary string) {
	content = render.Format(r.Content)
	summary = r.Summary
	if o.Sanitize {
		content = render.Sanitize(content)
		summary = render.Sanitize(summary)
	}
	if o.Terms != nil {
		mark := o.Marker
		if mark.Wrap == nil {
			mark = render.SpanMarker
		}
		content = render.Highlight(content, *o.Terms, mark)
		summary = render.Highlight(summary, *o.Terms, mark)
	}
	return content, summary
}

// Bar draws a text bar of width cells for pct (0..100).
func Bar(pct float64, width int) string {
	n := int(pct/100*float64(width) + 0.5)
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	return strings.Repeat("█", n) + strings.Repeat("·", width-n)
}
