package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/dossier/internal/present/format"
)

const (
	idWidth      = 6
	wordsWidth   = 7
	createdWidth = 16
	favWidth     = 3
	minTitle     = 20
)

func (m *model) initTable() {
	m.table = table.New(table.WithColumns(columnsFor(80)), table.WithFocused(true))
	m.applyStyles()
	m.updateRows()
}

// columnsFor gives the title whatever width the fixed columns leave.
func columnsFor(width int) []table.Column {
	// Each column carries a cell padding of 2.
	title := width - idWidth - wordsWidth - createdWidth - favWidth - 10
	if title < minTitle {
		title = minTitle
	}
	return []table.Column{
		{Title: "ID", Width: idWidth},
		{Title: "Title", Width: title},
		{Title: "Words", Width: wordsWidth},
		{Title: "Created", Width: createdWidth},
		{Title: "★", Width: favWidth},
	}
}

func (m *model) updateRows() {
	cols := m.table.Columns()
	titleW := minTitle
	if len(cols) > 1 {
		titleW = cols[1].Width
	}
	rows := make([]table.Row, 0, len(m.reports))
	for _, r := range m.reports {
		rows = append(rows, table.Row{
			strconv.FormatInt(r.ID, 10),
			truncate(r.Title, titleW),
			strconv.Itoa(r.WordCount),
			r.CreatedAt.String(),
			format.Star(r.IsFavorite),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *model) applyLayout() {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	m.table.SetColumns(columnsFor(w))
	m.table.SetWidth(w)
	// header line + footer line
	m.table.SetHeight(max(3, h-2))
	m.search.Width = max(10, w-lipgloss.Width(m.renderTitle())-lipgloss.Width(m.search.Prompt)-2)
}

func (m *model) applyStyles() {
	m.table.SetStyles(m.palette.tableStyles())
}

func (m model) renderTitle() string {
	title := "dossier"
	if m.favoritesOnly {
		title += " ★"
	}
	return m.palette.titleStyle().Render(title) + "  "
}

func (m model) renderHeader() string {
	return m.renderTitle() + m.search.View()
}

func (m model) renderFooter() string {
	left := "/=search • enter=open • r=research • f=fav • F=favorites • t=theme • q=exit"

	var right string
	if m.status != "" {
		if m.lastDuration > 0 {
			right = fmt.Sprintf("%s (%s) • ", m.status, m.lastDuration.Round(time.Millisecond))
		} else {
			right = m.status + " • "
		}
	}
	right += fmt.Sprintf("%d reports ", len(m.reports))

	width := m.table.Width()
	if width <= 0 {
		width = 80
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return m.palette.faintStyle().Render(left) + strings.Repeat(" ", space) + right
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
