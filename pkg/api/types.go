package api

// Source is one citation attached to a report.
type Source struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	Snippet     string  `json:"snippet,omitempty"`
	Credibility float64 `json:"credibility,omitempty"`
}

// Report mirrors the backend report record. List endpoints omit Content
// and Sources.
type Report struct {
	ID         int64     `json:"id"`
	Topic      string    `json:"topic,omitempty"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Content    string    `json:"content,omitempty"`
	WordCount  int       `json:"word_count"`
	Sources    []Source  `json:"sources,omitempty"`
	IsFavorite bool      `json:"is_favorite"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  Timestamp `json:"created_at"`
}

// KeywordSet holds the three highlight categories for one report.
type KeywordSet struct {
	Entities  []string `json:"entities"`
	Technical []string `json:"technical"`
	Keywords  []string `json:"keywords"`
}

// Empty reports whether no category has any term.
func (k KeywordSet) Empty() bool {
	return len(k.Entities) == 0 && len(k.Technical) == 0 && len(k.Keywords) == 0
}

// Version is one stored revision of a report.
type Version struct {
	ID            int64     `json:"id"`
	ReportID      int64     `json:"report_id"`
	VersionNumber int       `json:"version_number"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary,omitempty"`
	Content       string    `json:"content,omitempty"`
	WordCount     int       `json:"word_count"`
	ChangeNote    string    `json:"change_note,omitempty"`
	CreatedAt     Timestamp `json:"created_at"`
}

// ComparedReport is the per-report card of a comparison.
type ComparedReport struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Topic       string    `json:"topic,omitempty"`
	WordCount   int       `json:"word_count"`
	SourceCount int       `json:"source_count"`
	CreatedAt   Timestamp `json:"created_at"`
}

// ComparisonStats aggregates across compared reports.
type ComparisonStats struct {
	TotalWords    int      `json:"total_words"`
	AvgWords      int      `json:"avg_words"`
	TotalSources  int      `json:"total_sources"`
	CommonSources []string `json:"common_sources"`
}

type Comparison struct {
	Reports    []ComparedReport `json:"reports"`
	Statistics ComparisonStats  `json:"statistics"`
}

type DateRange struct {
	First Timestamp `json:"first"`
	Last  Timestamp `json:"last"`
}

type Statistics struct {
	TotalReports int        `json:"total_reports"`
	TotalWords   int        `json:"total_words"`
	TotalSources int        `json:"total_sources"`
	AvgWordCount int        `json:"avg_word_count"`
	AvgSources   int        `json:"avg_sources"`
	DateRange    *DateRange `json:"date_range"`
}

// WordCloudItem carries a normalized Size in 0..100.
type WordCloudItem struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
	Size  int    `json:"size"`
}

type TopicShare struct {
	Topic      string  `json:"topic"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// TrendPoint is one day of a trend series. Only the field matching the
// series is set.
type TrendPoint struct {
	Date    string `json:"date"`
	Count   int    `json:"count,omitempty"`
	Words   int    `json:"words,omitempty"`
	Sources int    `json:"sources,omitempty"`
}

type Trends struct {
	ReportsOverTime []TrendPoint `json:"reports_over_time"`
	WordCountTrend  []TrendPoint `json:"word_count_trend"`
	SourcesTrend    []TrendPoint `json:"sources_trend"`
}

// Analytics is the dashboard payload.
type Analytics struct {
	Statistics Statistics      `json:"statistics"`
	WordCloud  []WordCloudItem `json:"word_cloud"`
	Topics     []TopicShare    `json:"topics"`
	TopSources []SourceCount   `json:"top_sources"`
	Trends     Trends          `json:"trends"`
}

// Health is the backend liveness payload.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
