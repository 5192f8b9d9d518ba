package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/mithrel/dossier/internal/render"
	"github.com/mithrel/dossier/pkg/api"
)

// WriteMarkdownReports writes a report table.
func WriteMarkdownReports(w io.Writer, reports []api.Report) error {
	md := markdown.NewMarkdown(w)
	md.H1("Reports")
	md.PlainText("")
	if len(reports) == 0 {
		md.PlainText(NoData)
		return md.Build()
	}
	rows := make([][]string, len(reports))
	for i, r := range reports {
		rows[i] = []string{strconv.FormatInt(r.ID, 10), cell(r.Title), strconv.Itoa(r.WordCount), r.CreatedAt.String(), Star(r.IsFavorite)}
	}
	md.Table(markdown.TableSet{Header: []string{"ID", "Title", "Words", "Created", "★"}, Rows: rows})
	return md.Build()
}

// WriteMarkdownReport writes the article. Content is already in the
// markdown subset the backend produces, so it is emitted as is.
func WriteMarkdownReport(w io.Writer, r api.Report, terms *api.KeywordSet) error {
	summary, content := r.Summary, r.Content
	if terms != nil {
		summary = render.Highlight(summary, *terms, CodeSpanMarker)
		content = render.Highlight(content, *terms, CodeSpanMarker)
	}
	md := markdown.NewMarkdown(w)
	md.H1(r.Title)
	md.PlainText("")
	if summary != "" {
		md.Blockquote(summary)
		md.PlainText("")
	}
	meta := MetaLine(r)
	if s := r.CreatedAt.String(); s != "" {
		meta += " | " + s
	}
	md.PlainText(markdown.Italic(meta))
	md.PlainText("")
	md.PlainText(strings.TrimSpace(content))
	md.PlainText("")
	md.H2("Sources")
	md.PlainText("")
	if len(r.Sources) == 0 {
		md.PlainText(NoData)
		return md.Build()
	}
	items := make([]string, len(r.Sources))
	for i, s := range r.Sources {
		item := s.Title
		if s.URL != "" {
			item = markdown.Link(s.Title, s.URL)
		}
		if s.Source != "" {
			item += " (" + s.Source + ")"
		}
		items[i] = item
	}
	md.OrderedList(items...)
	return md.Build()
}

// WriteMarkdownComparison writes comparison cards as a table plus stats.
func WriteMarkdownComparison(w io.Writer, c api.Comparison) error {
	md := markdown.NewMarkdown(w)
	md.H1("Comparison")
	md.PlainText("")
	if len(c.Reports) == 0 {
		md.PlainText(NoData)
		return md.Build()
	}
	rows := make([][]string, len(c.Reports))
	for i, r := range c.Reports {
		rows[i] = []string{strconv.FormatInt(r.ID, 10), cell(r.Title), strconv.Itoa(r.WordCount), strconv.Itoa(r.SourceCount), r.CreatedAt.Date()}
	}
	md.Table(markdown.TableSet{Header: []string{"ID", "Title", "Words", "Sources", "Created"}, Rows: rows})
	md.PlainText("")
	st := c.Statistics
	common := NoData
	if len(st.CommonSources) > 0 {
		common = strings.Join(st.CommonSources, ", ")
	}
	md.BulletList(
		fmt.Sprintf("Total words: %d", st.TotalWords),
		fmt.Sprintf("Average words: %d", st.AvgWords),
		fmt.Sprintf("Total sources: %d", st.TotalSources),
		"Common sources: "+common,
	)
	return md.Build()
}

// WriteMarkdownAnalytics writes the dashboard; topics also get a mermaid pie.
func WriteMarkdownAnalytics(w io.Writer, a api.Analytics) error {
	md := markdown.NewMarkdown(w)
	st := a.Statistics
	md.H1("Analytics")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Reports", strconv.Itoa(st.TotalReports)},
			{"Words", strconv.Itoa(st.TotalWords)},
			{"Sources", strconv.Itoa(st.TotalSources)},
			{"Avg words", strconv.Itoa(st.AvgWordCount)},
			{"Avg sources", strconv.Itoa(st.AvgSources)},
		},
	})
	md.PlainText("")

	md.H2("Top words")
	md.PlainText("")
	if len(a.WordCloud) == 0 {
		md.PlainText(NoData)
	} else {
		words := make([]string, len(a.WordCloud))
		for i, wc := range a.WordCloud {
			words[i] = fmt.Sprintf("%s (%d)", wc.Word, wc.Count)
		}
		md.BulletList(words...)
	}
	md.PlainText("")

	md.H2("Topics")
	md.PlainText("")
	if len(a.Topics) == 0 {
		md.PlainText(NoData)
	} else {
		rows := make([][]string, len(a.Topics))
		chart := piechart.NewPieChart(io.Discard, piechart.WithTitle("Topics"), piechart.WithShowData(true))
		for i, t := range a.Topics {
			rows[i] = []string{cell(t.Topic), strconv.Itoa(t.Count), fmt.Sprintf("%.1f%%", t.Percentage)}
			if t.Count > 0 {
				chart.LabelAndIntValue(t.Topic, uint64(t.Count))
			}
		}
		md.Table(markdown.TableSet{Header: []string{"Topic", "Reports", "Share"}, Rows: rows})
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	}
	md.PlainText("")

	md.H2("Top sources")
	md.PlainText("")
	if len(a.TopSources) == 0 {
		md.PlainText(NoData)
	} else {
		items := make([]string, len(a.TopSources))
		for i, s := range a.TopSources {
			items[i] = fmt.Sprintf("%s (%d)", s.Source, s.Count)
		}
		md.OrderedList(items...)
	}

	for _, s := range TrendSeries(a.Trends) {
		md.PlainText("")
		md.H2(s.Name)
		md.PlainText("")
		if len(s.Points) == 0 {
			md.PlainText(NoData)
			continue
		}
		rows := make([][]string, len(s.Points))
		for i, p := range s.Points {
			rows[i] = []string{p.Date, strconv.Itoa(s.Value(p))}
		}
		md.Table(markdown.TableSet{Header: []string{"Date", "Value"}, Rows: rows})
	}
	return md.Build()
}

// WriteMarkdownVersions writes the history timeline.
func WriteMarkdownVersions(w io.Writer, versions []api.Version) error {
	md := markdown.NewMarkdown(w)
	md.H1("Version history")
	md.PlainText("")
	if len(versions) == 0 {
		md.PlainText(NoData)
		return md.Build()
	}
	items := make([]string, len(versions))
	for i, v := range versions {
		item := fmt.Sprintf("%s %s (%d words, %s)", markdown.Bold("v"+strconv.Itoa(v.VersionNumber)), v.Title, v.WordCount, v.CreatedAt.String())
		if v.ChangeNote != "" {
			item += ": " + v.ChangeNote
		}
		items[i] = item
	}
	md.BulletList(items...)
	return md.Build()
}

// cell keeps table cells on one line.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
