package tui

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/dossier/internal/client"
	"github.com/mithrel/dossier/internal/client/clienttest"
	"github.com/mithrel/dossier/internal/db"
	"github.com/mithrel/dossier/internal/render"
	"github.com/mithrel/dossier/pkg/api"
)

func newTestModel(t *testing.T, b *clienttest.Backend, opts Options) model {
	t.Helper()
	opts.Backend = client.New(b.URL(), 5*time.Second)
	if opts.Marker.Wrap == nil {
		opts.Marker = render.SpanMarker
	}
	return newModel(context.Background(), opts)
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func step(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

// batchAt runs a tea.Batch command and returns its i-th member.
func batchAt(t *testing.T, cmd tea.Cmd, i int) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Greater(t, len(batch), i)
	return batch[i]
}

func TestInitLoadsReports(t *testing.T) {
	b := clienttest.New(t)
	b.AddReport(clienttest.SampleReport("Fusion", 1))
	b.AddReport(clienttest.SampleReport("Batteries", 2))
	m := newTestModel(t, b, Options{})

	m, _ = step(t, m, m.Init()())
	assert.Len(t, m.reports, 2)
	assert.Len(t, m.table.Rows(), 2)
	assert.Empty(t, m.status)
	assert.Contains(t, m.View(), "2 reports")
}

func TestSearchDebounceIssuesOneQuery(t *testing.T) {
	b := clienttest.New(t)
	b.AddReport(clienttest.SampleReport("abc tooling", 1))
	b.AddReport(clienttest.SampleReport("Rust", 1))
	m := newTestModel(t, b, Options{})

	m, _ = step(t, m, key("/"))
	require.True(t, m.search.Focused())
	for _, r := range []string{"a", "b", "c"} {
		var cmd tea.Cmd
		m, cmd = step(t, m, key(r))
		assert.NotNil(t, cmd)
	}
	assert.Equal(t, "abc", m.search.Value())
	assert.Equal(t, 3, m.searchSeq)

	for seq := 1; seq <= 2; seq++ {
		var cmd tea.Cmd
		m, cmd = step(t, m, searchTickMsg{seq: seq})
		assert.Nil(t, cmd, "stale tick %d must not search", seq)
	}
	m, cmd := step(t, m, searchTickMsg{seq: 3})
	require.NotNil(t, cmd)
	m, _ = step(t, m, cmd())

	assert.Equal(t, []string{"GET /api/search?q=abc"}, b.Calls("/api/search"))
	require.Len(t, m.reports, 1)
	assert.Equal(t, "abc tooling", m.reports[0].Topic)
}

func TestSupersededResultIsDropped(t *testing.T) {
	b := clienttest.New(t)
	m := newTestModel(t, b, Options{})
	m.searchSeq = 4

	m, _ = step(t, m, listResultMsg{seq: 3, reports: []api.Report{{ID: 1, Title: "old"}}})
	assert.Empty(t, m.reports)

	m, _ = step(t, m, listResultMsg{seq: 4, reports: []api.Report{{ID: 2, Title: "new"}}})
	require.Len(t, m.reports, 1)
	assert.Equal(t, "new", m.reports[0].Title)
}

func TestResearchResultOpensReport(t *testing.T) {
	b := clienttest.New(t)
	m := newTestModel(t, b, Options{ProgressInterval: time.Hour})

	m, _ = step(t, m, key("r"))
	require.NotNil(t, m.research)
	m.research.topic.SetValue("  Quantum Computing ")

	m, cmd := step(t, m, key("enter"))
	require.True(t, m.research.running)
	assert.False(t, m.research.topic.Focused(), "form is disabled in flight")

	m, _ = step(t, m, progressTickMsg{gen: m.research.gen})
	assert.Equal(t, 1, m.research.stage)
	assert.Contains(t, m.research.View(), "Searching the web")

	m, _ = step(t, m, batchAt(t, cmd, 0)())
	assert.Nil(t, m.research)
	require.NotNil(t, m.report)
	got := m.report.report
	assert.Equal(t, "Investigating Quantum Computing", got.Title)
	assert.Equal(t, "What experts say about Quantum Computing.", got.Summary)
	assert.Equal(t, 842, got.WordCount)
	assert.Len(t, got.Sources, 3)
	assert.Contains(t, m.report.content, "Words: 842 | Sources: 3")
	assert.Contains(t, m.report.content, "Publisher 1")
	require.NotEmpty(t, m.reports)
	assert.Equal(t, got.ID, m.reports[0].ID, "new report is listed first")
	assert.Equal(t, []string{"POST /api/research"}, b.Calls("/api/research"))
}

func TestResearchErrorReenablesForm(t *testing.T) {
	b := clienttest.New(t)
	b.Fail = http.StatusInternalServerError
	m := newTestModel(t, b, Options{ProgressInterval: time.Hour})

	m, _ = step(t, m, key("r"))
	m.research.topic.SetValue("Fusion")
	m, cmd := step(t, m, key("enter"))
	gen := m.research.gen

	m, _ = step(t, m, batchAt(t, cmd, 0)())
	require.NotNil(t, m.research)
	assert.False(t, m.research.running)
	assert.True(t, m.research.topic.Focused())
	assert.Equal(t, "Fusion", m.research.value())
	assert.Contains(t, m.research.errText, "Server error (500)")
	assert.Nil(t, m.report)

	m, cmd = step(t, m, progressTickMsg{gen: gen})
	assert.Nil(t, cmd, "ticks stop once the request settles")
	assert.Equal(t, 0, m.research.stage)
}

func TestResearchBlankTopic(t *testing.T) {
	b := clienttest.New(t)
	m := newTestModel(t, b, Options{})

	m, _ = step(t, m, key("r"))
	m.research.topic.SetValue("   ")
	m, cmd := step(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.False(t, m.research.running)
	assert.Equal(t, "Please enter a research topic", m.research.errText)
	assert.Empty(t, b.Calls("/api/research"))
}

func TestHighlightRoundTrip(t *testing.T) {
	b := clienttest.New(t)
	r := b.AddReport(clienttest.SampleReport("Quantum", 1))
	b.SetKeywords(r.ID, api.KeywordSet{Keywords: []string{"changing"}, Entities: []string{"Quantum"}})
	m := newTestModel(t, b, Options{})

	m, _ = step(t, m, reportResultMsg{report: r})
	require.NotNil(t, m.report)
	original := m.report.shown

	m, cmd := step(t, m, key("h"))
	require.NotNil(t, cmd)
	m, _ = step(t, m, cmd())
	require.True(t, m.report.highlighted())
	lit := m.report.shown
	assert.Contains(t, lit.Content, `<span class="highlight highlight-keyword">changing</span>`)
	assert.Contains(t, lit.Summary, `<span class="highlight highlight-entity">Quantum</span>`)

	m, cmd = step(t, m, key("h"))
	assert.Nil(t, cmd)
	assert.False(t, m.report.highlighted())
	assert.Equal(t, original.Content, m.report.shown.Content)
	assert.Equal(t, original.Summary, m.report.shown.Summary)

	m, cmd = step(t, m, key("h"))
	assert.Nil(t, cmd, "terms are reused")
	assert.Equal(t, lit.Content, m.report.shown.Content)
	assert.Len(t, b.Calls("/api/reports/1/keywords"), 1)

	m, _ = step(t, m, key("esc"))
	assert.Nil(t, m.report)
}

func TestKeywordFetchAcrossReports(t *testing.T) {
	b := clienttest.New(t)
	a := b.AddReport(clienttest.SampleReport("Alpha", 1))
	c := b.AddReport(clienttest.SampleReport("Beta", 1))
	b.SetKeywords(a.ID, api.KeywordSet{Entities: []string{"Alpha"}})
	b.SetKeywords(c.ID, api.KeywordSet{Entities: []string{"Beta"}})
	m := newTestModel(t, b, Options{})

	m, _ = step(t, m, reportResultMsg{report: a})
	m, cmdA := step(t, m, key("h"))
	require.NotNil(t, cmdA)
	m, _ = step(t, m, key("esc"))
	m, _ = step(t, m, reportResultMsg{report: c})
	m, cmdB := step(t, m, key("h"))
	require.NotNil(t, cmdB, "a fetch for another report does not block this one")

	msgs := make([]tea.Msg, 2)
	var wg sync.WaitGroup
	for i, cmd := range []tea.Cmd{cmdA, cmdB} {
		wg.Add(1)
		go func(i int, cmd tea.Cmd) {
			defer wg.Done()
			msgs[i] = cmd()
		}(i, cmd)
	}
	wg.Wait()

	m, _ = step(t, m, msgs[0])
	assert.False(t, m.report.highlighted(), "stale result is dropped")
	m, cmd := step(t, m, key("h"))
	assert.Nil(t, cmd, "fetch for the open report is still in flight")

	m, _ = step(t, m, msgs[1])
	require.True(t, m.report.highlighted())
	assert.Contains(t, m.report.shown.Summary, `<span class="highlight highlight-entity">Beta</span>`)
	assert.NotContains(t, m.report.shown.Summary, "highlight-entity\">Alpha")
}

func TestFavoriteToggleInFavoritesView(t *testing.T) {
	b := clienttest.New(t)
	r := clienttest.SampleReport("A", 1)
	r.IsFavorite = true
	r = b.AddReport(r)
	m := newTestModel(t, b, Options{FavoritesOnly: true})

	m, _ = step(t, m, m.Init()())
	require.Len(t, m.reports, 1)

	m, cmd := step(t, m, key("f"))
	require.NotNil(t, cmd)
	m, _ = step(t, m, cmd())
	assert.Empty(t, m.reports, "unfavorited report leaves the favorites view")
	assert.Equal(t, "Removed from favorites", m.status)

	stored, ok := b.Report(r.ID)
	require.True(t, ok)
	assert.False(t, stored.IsFavorite)
}

func TestThemeToggleIsSaved(t *testing.T) {
	ctx := context.Background()
	prefs, err := db.Open(ctx, db.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = prefs.Close() })

	b := clienttest.New(t)
	m := newTestModel(t, b, Options{Prefs: prefs, Theme: db.ThemeDark})

	m, cmd := step(t, m, key("t"))
	assert.Equal(t, db.ThemeLight, m.theme)
	require.NotNil(t, cmd)
	m, _ = step(t, m, cmd())
	assert.Equal(t, "Theme: light", m.status)

	saved, err := db.LoadTheme(ctx, prefs, db.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, db.ThemeLight, saved)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "…", truncate("abcdef", 1))
}
