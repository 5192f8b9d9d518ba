package render

import "github.com/charmbracelet/lipgloss"

// TerminalStyles maps categories to the styles used by StyleMarker.
type TerminalStyles map[Category]lipgloss.Style

// DefaultTerminalStyles returns foreground colors readable on dark and light
// backgrounds.
func DefaultTerminalStyles() TerminalStyles {
	return TerminalStyles{
		CategoryEntity:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "81"}),
		CategoryTechnical: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"}),
		CategoryKeyword:   lipgloss.NewStyle().Underline(true).Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "120"}),
	}
}

// StyleMarker renders matches with terminal styles. Categories without a
// style are left unmarked. Escape sequences already in the text, including
// those of earlier categories, are never matched into.
func StyleMarker(styles TerminalStyles) Marker {
	return Marker{
		Wrap: func(c Category, match string) string {
			st, ok := styles[c]
			if !ok {
				return match
			}
			return st.Render(match)
		},
		Protect: ANSIEscape,
	}
}
