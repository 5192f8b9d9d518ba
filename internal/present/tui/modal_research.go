package tui

import (
	"strings"

	meter "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/dossier/internal/progress"
)

// researchModal takes a topic and shows simulated stage progress while the
// request is in flight. The form is disabled until the request settles.
type researchModal struct {
	topic   textinput.Model
	bar     meter.Model
	stage   int
	running bool
	gen     int
	errText string
	width   int
	height  int
	padX    int
	padY    int
	border  string
	box     lipglossv2.Style
}

func newResearchModal(border string, termW, termH int) *researchModal {
	m := &researchModal{padX: 2, padY: 1, border: border}
	m.topic = textinput.New()
	m.topic.Prompt = "topic: "
	m.topic.Placeholder = "Quantum Computing"
	m.topic.CharLimit = 200
	m.topic.Focus()
	m.bar = meter.New(meter.WithDefaultGradient())
	m.resizeForTerm(termW, termH)
	return m
}

func (m *researchModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.6)
	if termW < 80 {
		w = termW - 4
	}
	if w < 46 {
		w = max(42, termW-2)
	}
	if w > 90 {
		w = 90
	}
	h := 11
	if termH < 14 {
		h = max(9, termH-1)
	}
	m.width, m.height = w, h
	m.restyle(m.border)

	innerW := max(12, w-2-m.padX*2)
	m.topic.Width = max(12, innerW-lipgloss.Width(m.topic.Prompt)-1)
	m.bar.Width = innerW
}

func (m *researchModal) restyle(border string) {
	m.border = border
	m.box = lipglossv2.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color(border))
}

func (m *researchModal) value() string { return normalizeQuery(m.topic.Value()) }

// start disables the form and resets progress for a new run.
func (m *researchModal) start() int {
	m.running = true
	m.errText = ""
	m.stage = 0
	m.gen++
	m.topic.Blur()
	return m.gen
}

// advance moves to the next stage, holding at the last one.
func (m *researchModal) advance() {
	m.stage = progress.StageAt(m.stage + 1)
}

// finish re-enables the form. A non-empty notice stays visible.
func (m *researchModal) finish(notice string) tea.Cmd {
	m.running = false
	m.errText = notice
	return m.topic.Focus()
}

func (m *researchModal) update(msg tea.Msg) (*researchModal, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg:
		if m.running {
			return m, nil
		}
		if x.String() == "ctrl+x" {
			m.topic.SetValue("")
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.topic, cmd = m.topic.Update(msg)
	return m, cmd
}

func (m *researchModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("New research")
	lines := []string{header, "", m.topic.View(), ""}
	if m.running {
		lines = append(lines,
			progress.Stages[m.stage]+"…",
			m.bar.ViewAs(progress.Percent(m.stage)),
		)
	} else if m.errText != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(m.errText))
	}
	help := "enter=start • esc=cancel • ctrl+x=clear"
	if m.running {
		help = "researching, this can take a few minutes"
	}
	lines = append(lines, "", lipgloss.NewStyle().Faint(true).Render(help))
	return m.box.Render(strings.Join(lines, "\n"))
}
