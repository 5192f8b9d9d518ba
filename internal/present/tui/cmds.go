package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/dossier/internal/client"
	"github.com/mithrel/dossier/internal/db"
	"github.com/mithrel/dossier/pkg/api"
)

// searchTickMsg fires when a debounce window closes. Only the tick whose
// seq matches the latest keystroke issues a query.
type searchTickMsg struct {
	seq int
}

// listResultMsg conveys a reloaded list or search result.
type listResultMsg struct {
	seq     int
	reports []api.Report
	err     error
	dur     time.Duration
}

// reportResultMsg conveys a fetched full report.
type reportResultMsg struct {
	report api.Report
	err    error
	dur    time.Duration
}

// keywordsResultMsg conveys the keyword set for the open report.
type keywordsResultMsg struct {
	id    int64
	terms api.KeywordSet
	err   error
	dur   time.Duration
}

// favoriteResultMsg conveys a toggled favorite flag.
type favoriteResultMsg struct {
	id       int64
	favorite bool
	err      error
	dur      time.Duration
}

// researchResultMsg conveys the outcome of a research request.
type researchResultMsg struct {
	report api.Report
	err    error
	dur    time.Duration
}

// progressTickMsg advances the simulated research stage of run gen.
type progressTickMsg struct {
	gen int
}

// themeSavedMsg reports whether the theme preference was stored.
type themeSavedMsg struct {
	theme db.Theme
	err   error
}

func debounceCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return searchTickMsg{seq: seq} })
}

func progressTickCmd(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return progressTickMsg{gen: gen} })
}

// queryCmd loads the list, or searches when query is non-empty. With
// favoritesOnly, search results are narrowed to favorites locally.
func queryCmd(ctx context.Context, b Backend, seq int, query string, favoritesOnly bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		var (
			reports []api.Report
			err     error
		)
		switch {
		case query != "":
			reports, err = b.Search(ctx, query)
			if err == nil && favoritesOnly {
				reports = onlyFavorites(reports)
			}
		case favoritesOnly:
			reports, err = b.ListFavorites(ctx)
		default:
			reports, err = b.ListReports(ctx)
		}
		return listResultMsg{seq: seq, reports: reports, err: err, dur: time.Since(start)}
	}
}

func openReportCmd(ctx context.Context, b Backend, id int64) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		r, err := b.GetReport(ctx, id)
		return reportResultMsg{report: r, err: err, dur: time.Since(start)}
	}
}

func keywordsCmd(ctx context.Context, cache *client.KeywordCache, r api.Report) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		k, err := cache.Get(ctx, r)
		return keywordsResultMsg{id: r.ID, terms: k, err: err, dur: time.Since(start)}
	}
}

func favoriteCmd(ctx context.Context, b Backend, id int64) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		fav, err := b.ToggleFavorite(ctx, id)
		return favoriteResultMsg{id: id, favorite: fav, err: err, dur: time.Since(start)}
	}
}

func researchCmd(ctx context.Context, b Backend, topic string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		r, err := b.Research(ctx, topic)
		return researchResultMsg{report: r, err: err, dur: time.Since(start)}
	}
}

func saveThemeCmd(ctx context.Context, s db.Store, t db.Theme) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return themeSavedMsg{theme: t}
		}
		return themeSavedMsg{theme: t, err: db.SaveTheme(ctx, s, t)}
	}
}

func onlyFavorites(reports []api.Report) []api.Report {
	out := reports[:0:0]
	for _, r := range reports {
		if r.IsFavorite {
			out = append(out, r)
		}
	}
	return out
}

func normalizeQuery(s string) string {
	return strings.TrimSpace(s)
}
