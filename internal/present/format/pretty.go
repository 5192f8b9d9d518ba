package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/dossier/internal/render"
	"github.com/mithrel/dossier/pkg/api"
)

// CodeSpanMarker highlights matches as inline code, which both markdown
// output and glamour render distinctly. Text is plain, so nothing in it is
// protected.
var CodeSpanMarker = render.Marker{
	Wrap: func(_ render.Category, match string) string {
		return "`" + match + "`"
	},
}

// glamourStyle maps the saved theme to a glamour standard style.
func glamourStyle(theme string) string {
	if theme == "light" {
		return "light"
	}
	return "dark"
}

// WritePrettyReport renders a report as terminal markdown using glamour.
func WritePrettyReport(w io.Writer, r api.Report, terms *api.KeywordSet, theme string) error {
	var buf strings.Builder
	if err := WriteMarkdownReport(&buf, r, terms); err != nil {
		return err
	}
	return writeGlamour(w, buf.String(), theme)
}

// WritePrettyAnalytics renders the dashboard markdown with glamour.
func WritePrettyAnalytics(w io.Writer, a api.Analytics, theme string) error {
	var buf strings.Builder
	if err := WriteMarkdownAnalytics(&buf, a); err != nil {
		return err
	}
	return writeGlamour(w, buf.String(), theme)
}

// WritePrettyComparison renders a comparison with glamour.
func WritePrettyComparison(w io.Writer, c api.Comparison, theme string) error {
	var buf strings.Builder
	if err := WriteMarkdownComparison(&buf, c); err != nil {
		return err
	}
	return writeGlamour(w, buf.String(), theme)
}

func writeGlamour(w io.Writer, md, theme string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle(theme)),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
