package format

import (
	"fmt"
	"html/template"
	"io"

	"github.com/mithrel/dossier/pkg/api"
)

var htmlFuncs = template.FuncMap{
	"fontSize": func(size int) string { return fmt.Sprintf("%.1fpx", WordCloudFontSize(size)) },
	"pct":      func(p float64) string { return fmt.Sprintf("%.1f%%", p) },
	"topicPct": func(p float64) string { return fmt.Sprintf("%.1f%%", TopicPercent(p)) },
	"star":     Star,
	"noData":   func() string { return NoData },
}

var htmlTemplates = template.Must(template.New("views").Funcs(htmlFuncs).Parse(`
{{define "list"}}<ul class="report-list">
{{- range .}}
  <li class="report-item" data-id="{{.ID}}"><span class="title">{{.Title}}</span> <span class="words">{{.WordCount}} words</span> <span class="date">{{.CreatedAt.String}}</span>{{with star .IsFavorite}} <span class="favorite">{{.}}</span>{{end}}</li>
{{- else}}
  <li class="empty">{{noData}}</li>
{{- end}}
</ul>
{{end}}

{{define "article"}}<article class="report" data-id="{{.Report.ID}}">
  <h1>{{.Report.Title}}</h1>
  <p class="summary">{{.Summary}}</p>
  <p class="meta">{{.Meta}}</p>
  <div class="content">{{.Content}}</div>
  <h2>Sources</h2>
  {{- if .Report.Sources}}
  <ol class="sources">
  {{- range .Report.Sources}}
    <li><a href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a>{{with .Source}} <span class="publisher">{{.}}</span>{{end}}</li>
  {{- end}}
  </ol>
  {{- else}}
  <p class="empty">{{noData}}</p>
  {{- end}}
</article>
{{end}}

{{define "comparison"}}<section class="comparison">
{{- if .Reports}}
  <div class="cards">
  {{- range .Reports}}
    <div class="card" data-id="{{.ID}}"><h3>{{.Title}}</h3><p>{{.WordCount}} words | {{.SourceCount}} sources | {{.CreatedAt.Date}}</p></div>
  {{- end}}
  </div>
  <dl class="stats">
    <dt>Total words</dt><dd>{{.Statistics.TotalWords}}</dd>
    <dt>Average words</dt><dd>{{.Statistics.AvgWords}}</dd>
    <dt>Total sources</dt><dd>{{.Statistics.TotalSources}}</dd>
    <dt>Common sources</dt><dd>{{range $i, $s := .Statistics.CommonSources}}{{if $i}}, {{end}}{{$s}}{{else}}{{noData}}{{end}}</dd>
  </dl>
{{- else}}
  <p class="empty">{{noData}}</p>
{{- end}}
</section>
{{end}}

{{define "dashboard"}}<section class="dashboard">
  <div class="stats">
    <div class="stat"><span>{{.A.Statistics.TotalReports}}</span> reports</div>
    <div class="stat"><span>{{.A.Statistics.TotalWords}}</span> words</div>
    <div class="stat"><span>{{.A.Statistics.TotalSources}}</span> sources</div>
    <div class="stat"><span>{{.A.Statistics.AvgWordCount}}</span> avg words</div>
  </div>
  <div class="word-cloud">
  {{- range .A.WordCloud}}
    <span class="word" style="font-size: {{fontSize .Size}}">{{.Word}}</span>
  {{- else}}
    <p class="empty">{{noData}}</p>
  {{- end}}
  </div>
  <div class="topics">
  {{- range .A.Topics}}
    <div class="topic-bar"><span class="label">{{.Topic}}</span><div class="bar" style="width: {{topicPct .Percentage}}"></div><span class="value">{{pct .Percentage}}</span></div>
  {{- else}}
    <p class="empty">{{noData}}</p>
  {{- end}}
  </div>
  <ol class="top-sources">
  {{- range .A.TopSources}}
    <li>{{.Source}} <span class="count">{{.Count}}</span></li>
  {{- else}}
    <li class="empty">{{noData}}</li>
  {{- end}}
  </ol>
  {{- range .Trends}}
  <div class="trend">
    <h3>{{.Name}}</h3>
    {{- range .Bars}}
    <div class="trend-bar" title="{{.Date}}: {{.Value}}" style="height: {{pct .Percent}}"></div>
    {{- else}}
    <p class="empty">{{noData}}</p>
    {{- end}}
  </div>
  {{- end}}
</section>
{{end}}

{{define "history"}}<ol class="timeline">
{{- range .}}
  <li class="version" data-id="{{.ID}}"><span class="number">v{{.VersionNumber}}</span> {{.Title}} <span class="words">{{.WordCount}} words</span> <span class="date">{{.CreatedAt.String}}</span>{{with .ChangeNote}} <span class="note">{{.}}</span>{{end}}</li>
{{- else}}
  <li class="empty">{{noData}}</li>
{{- end}}
</ol>
{{end}}
`))

// TrendBar is one bar of a trend chart.
type TrendBar struct {
	Date    string
	Value   int
	Percent float64
}

// TrendView is a named, scaled series.
type TrendView struct {
	Name string
	Bars []TrendBar
}

// TrendViews scales every dashboard series for drawing.
func TrendViews(t api.Trends) []TrendView {
	series := TrendSeries(t)
	out := make([]TrendView, len(series))
	for i, s := range series {
		pcts := BarPercents(s.Values())
		bars := make([]TrendBar, len(s.Points))
		for j, p := range s.Points {
			bars[j] = TrendBar{Date: p.Date, Value: s.Value(p), Percent: pcts[j]}
		}
		out[i] = TrendView{Name: s.Name, Bars: bars}
	}
	return out
}

// WriteHTMLReports writes the report list fragment.
func WriteHTMLReports(w io.Writer, reports []api.Report) error {
	return htmlTemplates.ExecuteTemplate(w, "list", reports)
}

// WriteHTMLReport writes the article fragment. Content comes from the
// formatter and is trusted markup; enable sanitizing for untrusted backends.
func WriteHTMLReport(w io.Writer, r api.Report, o ArticleOptions) error {
	content, summary := ArticleHTML(r, o)
	return htmlTemplates.ExecuteTemplate(w, "article", struct {
		Report  api.Report
		Summary template.HTML
		Meta    string
		Content template.HTML
	}{r, template.HTML(summary), MetaLine(r), template.HTML(content)})
}

func WriteHTMLComparison(w io.Writer, c api.Comparison) error {
	return htmlTemplates.ExecuteTemplate(w, "comparison", c)
}

func WriteHTMLAnalytics(w io.Writer, a api.Analytics) error {
	return htmlTemplates.ExecuteTemplate(w, "dashboard", struct {
		A      api.Analytics
		Trends []TrendView
	}{a, TrendViews(a.Trends)})
}

func WriteHTMLVersions(w io.Writer, versions []api.Version) error {
	return htmlTemplates.ExecuteTemplate(w, "history", versions)
}
