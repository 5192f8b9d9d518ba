package present

import (
	"errors"
	"io"
	"strings"

	"github.com/mithrel/dossier/internal/present/format"
	"github.com/mithrel/dossier/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeMarkdown
	ModeHTML
	ModeTUI
)

// ErrInteractive is returned for ModeTUI; the caller starts the viewer.
var ErrInteractive = errors.New("interactive output is handled by the browse viewer")

var modeNames = map[string]Mode{
	"plain":    ModePlain,
	"pretty":   ModePretty,
	"json":     ModeJSON,
	"ndjson":   ModeNDJSON,
	"markdown": ModeMarkdown,
	"md":       ModeMarkdown,
	"html":     ModeHTML,
	"tui":      ModeTUI,
}

// ModeNames lists the canonical --output values.
func ModeNames() []string {
	return []string{"plain", "pretty", "json", "ndjson", "markdown", "html", "tui"}
}

// ParseMode parses an --output value, case-insensitively.
func ParseMode(s string) (Mode, bool) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return ModePlain, false
	}
	return m, true
}

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Sanitize   bool
	// Theme selects the glamour style for pretty output: "dark" or "light".
	Theme string
	// Terms, when set, highlights keywords in single-report output.
	Terms *api.KeywordSet
}

// RenderReports renders a report list.
func RenderReports(w io.Writer, reports []api.Report, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, reports, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, reports)
	case ModeMarkdown:
		return format.WriteMarkdownReports(w, reports)
	case ModeHTML:
		return format.WriteHTMLReports(w, reports)
	case ModeTUI:
		return ErrInteractive
	default:
		// Pretty lists fall back to the aligned plain table.
		return format.WritePlainReports(w, reports, opts.Headers)
	}
}

// RenderReport renders one full report.
func RenderReport(w io.Writer, r api.Report, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, r, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, []api.Report{r})
	case ModePretty:
		return format.WritePrettyReport(w, r, opts.Terms, opts.Theme)
	case ModeMarkdown:
		return format.WriteMarkdownReport(w, r, opts.Terms)
	case ModeHTML:
		return format.WriteHTMLReport(w, r, format.ArticleOptions{Terms: opts.Terms, Sanitize: opts.Sanitize})
	case ModeTUI:
		return ErrInteractive
	default:
		return format.WritePlainReport(w, r, opts.Terms, format.CodeSpanMarker)
	}
}

func RenderComparison(w io.Writer, c api.Comparison, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, c, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, c.Reports)
	case ModePretty:
		return format.WritePrettyComparison(w, c, opts.Theme)
	case ModeMarkdown:
		return format.WriteMarkdownComparison(w, c)
	case ModeHTML:
		return format.WriteHTMLComparison(w, c)
	case ModeTUI:
		return ErrInteractive
	default:
		return format.WritePlainComparison(w, c)
	}
}

func RenderAnalytics(w io.Writer, a api.Analytics, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, a, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, []api.Analytics{a})
	case ModePretty:
		return format.WritePrettyAnalytics(w, a, opts.Theme)
	case ModeMarkdown:
		return format.WriteMarkdownAnalytics(w, a)
	case ModeHTML:
		return format.WriteHTMLAnalytics(w, a)
	case ModeTUI:
		return ErrInteractive
	default:
		return format.WritePlainAnalytics(w, a)
	}
}

func RenderVersions(w io.Writer, versions []api.Version, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, versions, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, versions)
	case ModeMarkdown:
		return format.WriteMarkdownVersions(w, versions)
	case ModeHTML:
		return format.WriteHTMLVersions(w, versions)
	case ModeTUI:
		return ErrInteractive
	default:
		return format.WritePlainVersions(w, versions, opts.Headers)
	}
}

func RenderVersion(w io.Writer, v api.Version, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, v, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, []api.Version{v})
	case ModeTUI:
		return ErrInteractive
	default:
		return format.WritePlainVersion(w, v)
	}
}

func RenderKeywords(w io.Writer, k api.KeywordSet, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, k, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, []api.KeywordSet{k})
	case ModeTUI:
		return ErrInteractive
	default:
		return format.WritePlainKeywords(w, k)
	}
}
