package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/dossier/internal/render"
	"github.com/mithrel/dossier/pkg/api"
)

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func newTab(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// WritePlainReports writes TSV-like rows: id, title, words, created, favorite.
func WritePlainReports(w io.Writer, reports []api.Report, headers bool) error {
	tw := newTab(w)
	if headers {
		_, _ = io.WriteString(tw, "id\ttitle\twords\tcreated\tfav\n")
	}
	for _, r := range reports {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			r.ID, esc(r.Title), r.WordCount, esc(r.CreatedAt.String()), Star(r.IsFavorite))
	}
	return tw.Flush()
}

// WritePlainReport writes the article as readable text. mark, when set and
// terms are non-nil, highlights keywords in summary and content.
func WritePlainReport(w io.Writer, r api.Report, terms *api.KeywordSet, mark render.Marker) error {
	summary, content := r.Summary, r.Content
	if terms != nil && mark.Wrap != nil {
		summary = render.Highlight(summary, *terms, mark)
		content = render.Highlight(content, *terms, mark)
	}
	var b strings.Builder
	title := r.Title
	if r.IsFavorite {
		title += " ★"
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(r.Title))) + "\n\n")
	if summary != "" {
		b.WriteString(summary + "\n\n")
	}
	b.WriteString(MetaLine(r))
	if !r.CreatedAt.IsZero() || r.CreatedAt.Raw != "" {
		b.WriteString(" | " + r.CreatedAt.String())
	}
	b.WriteString("\n\n")
	if content != "" {
		b.WriteString(strings.TrimRight(content, "\n") + "\n\n")
	}
	b.WriteString("Sources:\n")
	if len(r.Sources) == 0 {
		b.WriteString("  " + NoData + "\n")
	}
	for i, s := range r.Sources {
		line := fmt.Sprintf("  %d. %s", i+1, s.Title)
		if s.Source != "" {
			line += " (" + s.Source + ")"
		}
		if s.URL != "" {
			line += " <" + s.URL + ">"
		}
		b.WriteString(line + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WritePlainKeywords writes category<TAB>term rows.
func WritePlainKeywords(w io.Writer, k api.KeywordSet) error {
	tw := newTab(w)
	if k.Empty() {
		_, _ = io.WriteString(tw, NoData+"\n")
		return tw.Flush()
	}
	for _, group := range []struct {
		cat   render.Category
		terms []string
	}{
		{render.CategoryEntity, k.Entities},
		{render.CategoryTechnical, k.Technical},
		{render.CategoryKeyword, k.Keywords},
	} {
		for _, t := range group.terms {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", group.cat, esc(t))
		}
	}
	return tw.Flush()
}

// WritePlainVersions writes the history newest first, as returned.
func WritePlainVersions(w io.Writer, versions []api.Version, headers bool) error {
	tw := newTab(w)
	if len(versions) == 0 {
		_, _ = io.WriteString(tw, NoData+"\n")
		return tw.Flush()
	}
	if headers {
		_, _ = io.WriteString(tw, "version\tid\ttitle\twords\tcreated\tnote\n")
	}
	for _, v := range versions {
		_, _ = fmt.Fprintf(tw, "v%d\t%d\t%s\t%d\t%s\t%s\n",
			v.VersionNumber, v.ID, esc(v.Title), v.WordCount, esc(v.CreatedAt.String()), esc(v.ChangeNote))
	}
	return tw.Flush()
}

// WritePlainVersion writes one revision with its content.
func WritePlainVersion(w io.Writer, v api.Version) error {
	_, err := fmt.Fprintf(w, "Version %d of report %d (%s)\n%s\n\n%s\n",
		v.VersionNumber, v.ReportID, v.CreatedAt.String(), v.Title, strings.TrimRight(v.Content, "\n"))
	return err
}

// WritePlainComparison writes the compared reports and the aggregate stats.
func WritePlainComparison(w io.Writer, c api.Comparison) error {
	tw := newTab(w)
	if len(c.Reports) == 0 {
		_, _ = io.WriteString(tw, NoData+"\n")
		return tw.Flush()
	}
	_, _ = io.WriteString(tw, "id\ttitle\twords\tsources\tcreated\n")
	for _, r := range c.Reports {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", r.ID, esc(r.Title), r.WordCount, r.SourceCount, esc(r.CreatedAt.Date()))
	}
	_, _ = io.WriteString(tw, "\n")
	st := c.Statistics
	_, _ = fmt.Fprintf(tw, "Total words:\t%d\n", st.TotalWords)
	_, _ = fmt.Fprintf(tw, "Average words:\t%d\n", st.AvgWords)
	_, _ = fmt.Fprintf(tw, "Total sources:\t%d\n", st.TotalSources)
	common := NoData
	if len(st.CommonSources) > 0 {
		common = strings.Join(st.CommonSources, ", ")
	}
	_, _ = fmt.Fprintf(tw, "Common sources:\t%s\n", common)
	return tw.Flush()
}

const barWidth = 30

// WritePlainAnalytics writes the dashboard with text bars.
func WritePlainAnalytics(w io.Writer, a api.Analytics) error {
	var b strings.Builder
	st := a.Statistics
	b.WriteString("Statistics\n")
	fmt.Fprintf(&b, "  Reports: %d  Words: %d  Sources: %d\n", st.TotalReports, st.TotalWords, st.TotalSources)
	fmt.Fprintf(&b, "  Avg words: %d  Avg sources: %d\n", st.AvgWordCount, st.AvgSources)
	if st.DateRange != nil {
		fmt.Fprintf(&b, "  Range: %s .. %s\n", st.DateRange.First.Date(), st.DateRange.Last.Date())
	}

	b.WriteString("\nTop words\n")
	if len(a.WordCloud) == 0 {
		b.WriteString("  " + NoData + "\n")
	}
	for _, wc := range a.WordCloud {
		fmt.Fprintf(&b, "  %-20s %4d  %s\n", wc.Word, wc.Count, Bar(float64(wc.Size), barWidth))
	}

	b.WriteString("\nTopics\n")
	if len(a.Topics) == 0 {
		b.WriteString("  " + NoData + "\n")
	}
	for _, t := range a.Topics {
		fmt.Fprintf(&b, "  %-20s %5.1f%%  %s\n", t.Topic, t.Percentage, Bar(TopicPercent(t.Percentage), barWidth))
	}

	b.WriteString("\nTop sources\n")
	if len(a.TopSources) == 0 {
		b.WriteString("  " + NoData + "\n")
	}
	for i, s := range a.TopSources {
		fmt.Fprintf(&b, "  %2d. %s (%d)\n", i+1, s.Source, s.Count)
	}

	for _, s := range TrendSeries(a.Trends) {
		b.WriteString("\n" + s.Name + "\n")
		if len(s.Points) == 0 {
			b.WriteString("  " + NoData + "\n")
			continue
		}
		pcts := BarPercents(s.Values())
		for i, p := range s.Points {
			fmt.Fprintf(&b, "  %-10s %6s  %s\n", p.Date, strconv.Itoa(s.Value(p)), Bar(pcts[i], barWidth))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
