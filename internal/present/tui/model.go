package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/mithrel/dossier/internal/client"
	"github.com/mithrel/dossier/internal/db"
	"github.com/mithrel/dossier/internal/render"
	"github.com/mithrel/dossier/pkg/api"
)

// Backend is the part of the research client the viewer uses.
type Backend interface {
	ListReports(ctx context.Context) ([]api.Report, error)
	ListFavorites(ctx context.Context) ([]api.Report, error)
	GetReport(ctx context.Context, id int64) (api.Report, error)
	Search(ctx context.Context, query string) ([]api.Report, error)
	ToggleFavorite(ctx context.Context, id int64) (bool, error)
	Research(ctx context.Context, topic string) (api.Report, error)
	Keywords(ctx context.Context, id int64) (api.KeywordSet, error)
}

type Options struct {
	Backend Backend
	// Prefs stores the theme when toggled. Optional.
	Prefs db.Store
	Log   logrus.FieldLogger
	Theme db.Theme
	// Debounce is the quiet period before a search is issued.
	Debounce time.Duration
	// ProgressInterval paces the simulated research stages.
	ProgressInterval time.Duration
	FavoritesOnly    bool
	// Marker overrides how highlighted terms are drawn.
	Marker render.Marker
}

// Run opens the interactive report browser and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

type model struct {
	ctx           context.Context
	opts          Options
	log           logrus.FieldLogger
	keywords      *client.KeywordCache
	table         table.Model
	search        textinput.Model
	reports       []api.Report
	favoritesOnly bool
	searchSeq     int
	report        *reportModal
	research      *researchModal
	loadingTerms  int64 // report id whose keywords are in flight
	theme         db.Theme
	palette       palette
	width         int
	height        int
	status        string
	lastDuration  time.Duration
}

func newModel(ctx context.Context, opts Options) model {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = 2 * time.Second
	}
	if opts.Marker.Wrap == nil {
		opts.Marker = render.StyleMarker(render.DefaultTerminalStyles())
	}
	if opts.Theme == "" {
		opts.Theme = db.ThemeDark
	}
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	m := model{
		ctx:           ctx,
		opts:          opts,
		log:           log,
		keywords:      client.NewKeywordCache(opts.Backend),
		favoritesOnly: opts.FavoritesOnly,
		theme:         opts.Theme,
		palette:       paletteFor(opts.Theme),
		status:        "Loading…",
	}
	m.search = textinput.New()
	m.search.Prompt = "search: "
	m.search.Placeholder = "press / to search"
	m.initTable()
	m.applyLayout()
	return m
}

func (m model) Init() tea.Cmd {
	return queryCmd(m.ctx, m.opts.Backend, m.searchSeq, "", m.favoritesOnly)
}

// reload re-runs the current query under a fresh sequence number so any
// pending debounce tick or in-flight result is superseded.
func (m *model) reload() tea.Cmd {
	m.searchSeq++
	return queryCmd(m.ctx, m.opts.Backend, m.searchSeq, normalizeQuery(m.search.Value()), m.favoritesOnly)
}

func (m *model) fail(what string, err error, dur time.Duration) {
	m.log.WithError(err).Warn(what)
	m.status = client.Notice(err)
	m.lastDuration = dur
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		m.updateRows()
		if m.report != nil {
			m.report.resizeForTerm(msg.Width, msg.Height)
		}
		if m.research != nil {
			m.research.resizeForTerm(msg.Width, msg.Height)
		}
		return m, nil

	case searchTickMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		return m, queryCmd(m.ctx, m.opts.Backend, msg.seq, normalizeQuery(m.search.Value()), m.favoritesOnly)

	case listResultMsg:
		if msg.seq < m.searchSeq {
			// A newer query has been issued since.
			return m, nil
		}
		if msg.err != nil {
			m.fail("list reports", msg.err, msg.dur)
			return m, nil
		}
		m.reports = msg.reports
		m.updateRows()
		m.status = ""
		if len(m.reports) == 0 && normalizeQuery(m.search.Value()) != "" {
			m.status = "No matches"
		}
		m.lastDuration = msg.dur
		return m, nil

	case reportResultMsg:
		if msg.err != nil {
			m.fail("open report", msg.err, msg.dur)
			return m, nil
		}
		m.openReport(msg.report)
		m.status = ""
		m.lastDuration = msg.dur
		return m, nil

	case keywordsResultMsg:
		if m.loadingTerms == msg.id {
			m.loadingTerms = 0
		}
		if msg.err != nil {
			m.fail("load keywords", msg.err, msg.dur)
			return m, nil
		}
		if m.report == nil || m.report.report.ID != msg.id {
			return m, nil
		}
		m.report.highlightOn(msg.terms)
		m.status = "Highlighting on"
		if msg.terms.Empty() {
			m.status = "No keywords for this report"
		}
		m.lastDuration = msg.dur
		return m, nil

	case favoriteResultMsg:
		if msg.err != nil {
			m.fail("toggle favorite", msg.err, msg.dur)
			return m, nil
		}
		m.applyFavorite(msg.id, msg.favorite)
		m.status = "Removed from favorites"
		if msg.favorite {
			m.status = "Added to favorites"
		}
		m.lastDuration = msg.dur
		return m, nil

	case progressTickMsg:
		if m.research == nil || !m.research.running || msg.gen != m.research.gen {
			return m, nil
		}
		m.research.advance()
		return m, progressTickCmd(msg.gen, m.opts.ProgressInterval)

	case researchResultMsg:
		if m.research == nil {
			return m, nil
		}
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("research")
			notice := client.Notice(msg.err)
			m.status = notice
			m.lastDuration = msg.dur
			cmd := m.research.finish(notice)
			return m, cmd
		}
		m.research.finish("")
		m.research = nil
		if !m.favoritesOnly || msg.report.IsFavorite {
			m.reports = append([]api.Report{msg.report}, m.reports...)
			m.updateRows()
			m.table.SetCursor(0)
		}
		m.openReport(msg.report)
		m.status = fmt.Sprintf("Research complete: %d words", msg.report.WordCount)
		m.lastDuration = msg.dur
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("save theme")
			m.status = "Theme applied but could not be saved"
			return m, nil
		}
		m.status = fmt.Sprintf("Theme: %s", msg.theme)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.research != nil:
			return m.updateResearch(msg)
		case m.report != nil:
			return m.updateReport(msg)
		case m.search.Focused():
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	switch {
	case m.research != nil:
		m.research, cmd = m.research.update(msg)
	case m.report != nil:
		m.report, cmd = m.report.update(msg)
	case m.search.Focused():
		m.search, cmd = m.search.Update(msg)
	default:
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "/":
		m.table.Blur()
		cmd := m.search.Focus()
		return m, cmd
	case "enter":
		if r, ok := m.selected(); ok {
			m.status = "Loading…"
			return m, openReportCmd(m.ctx, m.opts.Backend, r.ID)
		}
		return m, nil
	case "f":
		if r, ok := m.selected(); ok {
			return m, favoriteCmd(m.ctx, m.opts.Backend, r.ID)
		}
		return m, nil
	case "F":
		m.favoritesOnly = !m.favoritesOnly
		m.status = "Loading…"
		cmd := m.reload()
		return m, cmd
	case "r":
		m.research = newResearchModal(m.palette.accent, m.width, m.height)
		return m, textinput.Blink
	case "t":
		m.theme = m.theme.Toggle()
		m.palette = paletteFor(m.theme)
		m.applyStyles()
		return m, saveThemeCmd(m.ctx, m.opts.Prefs, m.theme)
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.Blur()
		m.table.Focus()
		return m, nil
	case "enter":
		m.search.Blur()
		m.table.Focus()
		cmd := m.reload()
		return m, cmd
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.searchSeq++
	return m, tea.Batch(cmd, debounceCmd(m.searchSeq, m.opts.Debounce))
}

func (m model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.report = nil
		return m, nil
	case "h":
		switch {
		case m.report.highlighted():
			m.report.highlightOff()
			m.status = "Highlighting off"
		case m.report.terms != nil:
			m.report.highlightOn(*m.report.terms)
			m.status = "Highlighting on"
		case m.loadingTerms != m.report.report.ID:
			m.loadingTerms = m.report.report.ID
			m.status = "Loading keywords…"
			return m, keywordsCmd(m.ctx, m.keywords, m.report.report)
		}
		return m, nil
	case "f":
		return m, favoriteCmd(m.ctx, m.opts.Backend, m.report.report.ID)
	}
	var cmd tea.Cmd
	m.report, cmd = m.report.update(msg)
	return m, cmd
}

func (m model) updateResearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.research.running {
			m.status = "Research in progress"
			return m, nil
		}
		m.research = nil
		return m, nil
	case "enter":
		if m.research.running {
			return m, nil
		}
		topic := m.research.value()
		if topic == "" {
			m.research.errText = "Please enter a research topic"
			return m, nil
		}
		gen := m.research.start()
		m.status = "Researching " + topic + "…"
		return m, tea.Batch(
			researchCmd(m.ctx, m.opts.Backend, topic),
			progressTickCmd(gen, m.opts.ProgressInterval),
		)
	}
	var cmd tea.Cmd
	m.research, cmd = m.research.update(msg)
	return m, cmd
}

func (m *model) openReport(r api.Report) {
	if m.report == nil {
		m.report = newReportModal(r, m.opts.Marker, m.palette.accent, m.width, m.height)
	} else {
		m.report.setReport(r)
	}
}

func (m *model) applyFavorite(id int64, fav bool) {
	for i := range m.reports {
		if m.reports[i].ID != id {
			continue
		}
		if m.favoritesOnly && !fav {
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
		} else {
			m.reports[i].IsFavorite = fav
		}
		break
	}
	m.updateRows()
	if m.report != nil && m.report.report.ID == id {
		m.report.setFavorite(fav)
	}
}

func (m model) selected() (api.Report, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.reports) {
		return api.Report{}, false
	}
	return m.reports[idx], true
}

func (m model) View() string {
	base := m.renderHeader() + "\n"
	if len(m.reports) == 0 {
		base += "(no reports)\n"
	} else {
		base += m.table.View() + "\n"
	}
	base += m.renderFooter()

	switch {
	case m.research != nil:
		return m.overlay(base, m.research.View())
	case m.report != nil:
		return m.overlay(base, m.report.View())
	}
	return base
}
