package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/dossier/internal/present/format"
	"github.com/mithrel/dossier/internal/render"
	"github.com/mithrel/dossier/pkg/api"
)

// reportModal shows the full report in a scrollable viewport and owns the
// highlight state of that report.
type reportModal struct {
	report  api.Report
	shown   api.Report
	hl      *render.Highlighting
	terms   *api.KeywordSet
	vp      viewport.Model
	width   int
	height  int
	padX    int
	padY    int
	border  string
	box     lipglossv2.Style
	content string
}

func newReportModal(r api.Report, mark render.Marker, border string, termW, termH int) *reportModal {
	m := &reportModal{hl: render.NewHighlighting(mark), padX: 2, padY: 1, border: border}
	m.resizeForTerm(termW, termH)
	m.setReport(r)
	return m
}

func (m *reportModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.7)
	if termW < 80 {
		w = termW - 4
	}
	if w < 40 {
		w = max(32, termW-2)
	}
	h := int(float64(termH) * 0.8)
	if termH < 20 {
		h = termH - 2
	}
	if h < 10 {
		h = max(8, termH-1)
	}
	m.width, m.height = w, h
	m.restyle(m.border)

	innerW := w - 2 - m.padX*2
	innerH := h - 3 - m.padY*2 // borders, padding and the help line
	if innerW < 10 {
		innerW = 10
	}
	if innerH < 4 {
		innerH = 4
	}
	if m.vp.Width == 0 {
		m.vp = viewport.New(innerW, innerH)
	} else {
		m.vp.Width = innerW
		m.vp.Height = innerH
	}
	m.refresh()
}

func (m *reportModal) restyle(border string) {
	m.border = border
	m.box = lipglossv2.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color(border))
}

// setReport replaces the report and drops any highlight state.
func (m *reportModal) setReport(r api.Report) {
	m.report = r
	m.shown = r
	m.hl.Reset()
	m.terms = nil
	m.vp.GotoTop()
	m.refresh()
}

// setFavorite updates the flag without touching highlight state.
func (m *reportModal) setFavorite(fav bool) {
	m.report.IsFavorite = fav
	m.shown.IsFavorite = fav
	m.refresh()
}

func (m *reportModal) highlighted() bool { return m.hl.Active() }

// highlightOn shows the report with terms marked. Repeated calls run the
// same transform over the original text.
func (m *reportModal) highlightOn(terms api.KeywordSet) {
	m.terms = &terms
	m.shown.Content, m.shown.Summary = m.hl.Enable(m.report.Content, m.report.Summary, terms)
	m.refresh()
}

// highlightOff restores the text captured by highlightOn.
func (m *reportModal) highlightOff() {
	content, summary, ok := m.hl.Disable()
	if !ok {
		return
	}
	m.shown.Content, m.shown.Summary = content, summary
	m.refresh()
}

func (m *reportModal) refresh() {
	var b strings.Builder
	_ = format.WritePlainReport(&b, m.shown, nil, render.Marker{})
	text := b.String()
	if m.vp.Width > 0 {
		text = lipgloss.NewStyle().Width(m.vp.Width).Render(text)
	}
	m.content = text
	m.vp.SetContent(text)
}

func (m *reportModal) update(msg tea.Msg) (*reportModal, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg, tea.MouseMsg:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *reportModal) View() string {
	help := "↑/↓ scroll • h=highlight • f=fav • esc=close"
	if m.hl.Active() {
		help = "↑/↓ scroll • h=plain • f=fav • esc=close"
	}
	return m.box.Render(m.vp.View() + "\n" + help)
}
