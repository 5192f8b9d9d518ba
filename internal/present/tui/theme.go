package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/dossier/internal/db"
)

// palette holds the colors that change with the theme.
type palette struct {
	selectedFG string
	selectedBG string
	headerLine string
	accent     string
	faint      string
}

func paletteFor(t db.Theme) palette {
	if t == db.ThemeLight {
		return palette{selectedFG: "16", selectedBG: "153", headerLine: "250", accent: "25", faint: "244"}
	}
	return palette{selectedFG: "229", selectedBG: "57", headerLine: "240", accent: "63", faint: "241"}
}

func (p palette) tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(p.headerLine)).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(p.selectedFG)).
		Background(lipgloss.Color(p.selectedBG)).
		Bold(false)
	return s
}

func (p palette) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.accent))
}

func (p palette) faintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.faint))
}
