package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

// overlay places fg centered over a dimmed base view.
func (m model) overlay(base, fg string) string {
	termW, termH := m.width, m.height
	if termW <= 0 {
		termW = 80
	}
	if termH <= 0 {
		termH = 24
	}
	fgW, fgH := lipgloss.Width(fg), lipgloss.Height(fg)
	x := max(0, (termW-fgW)/2)
	y := max(0, (termH-fgH)/2)

	dimmed := lipgloss.NewStyle().Faint(true).Render(base)
	back := lipgloss.NewLayer(dimmed).Width(termW).Height(termH)
	front := lipgloss.NewLayer(fg).Width(fgW).Height(fgH).X(x).Y(y)
	return lipgloss.NewCanvas(back, front).Render()
}
