// Package clienttest provides an in-memory research backend for tests.
package clienttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mithrel/dossier/pkg/api"
)

// Backend serves the research API from memory.
type Backend struct {
	mu        sync.Mutex
	nextID    int64
	nextVerID int64
	reports   map[int64]*api.Report
	versions  map[int64][]api.Version
	keywords  map[int64]api.KeywordSet
	calls     []string

	// Analytics is returned verbatim under {"analytics": ...}.
	Analytics any
	// Fail, when set, makes every /api call answer with that status.
	Fail int

	Server *httptest.Server
}

// New starts a backend that is closed with the test.
func New(t testing.TB) *Backend {
	t.Helper()
	b := NewBackend()
	b.Server = httptest.NewServer(b.Handler())
	t.Cleanup(b.Server.Close)
	return b
}

// NewBackend returns an empty backend that is not listening; serve it with
// Handler.
func NewBackend() *Backend {
	return &Backend{
		reports:  map[int64]*api.Report{},
		versions: map[int64][]api.Version{},
		keywords: map[int64]api.KeywordSet{},
	}
}

// Handler serves the research API routes.
func (b *Backend) Handler() http.Handler { return b.routes() }

// URL is the base URL to configure clients with.
func (b *Backend) URL() string { return b.Server.URL }

// SampleReport builds a report for topic with n sources.
func SampleReport(topic string, n int) api.Report {
	sources := make([]api.Source, 0, n)
	for i := 1; i <= n; i++ {
		sources = append(sources, api.Source{
			Title:  fmt.Sprintf("%s source %d", topic, i),
			URL:    fmt.Sprintf("https://example.com/%d", i),
			Source: fmt.Sprintf("Publisher %d", i),
		})
	}
	return api.Report{
		Topic:     topic,
		Title:     "Investigating " + topic,
		Summary:   "What experts say about " + topic + ".",
		Content:   "## Background\n\n" + topic + " is **changing** fast.\n\n### Outlook\n\nMore to come.",
		WordCount: 842,
		Sources:   sources,
		Status:    "completed",
		CreatedAt: api.ParseTimestamp(time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC).Format("2006-01-02 15:04:05")),
	}
}

// AddReport stores r, assigns an id and returns the stored copy.
func (b *Backend) AddReport(r api.Report) api.Report {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	r.ID = b.nextID
	cp := r
	b.reports[r.ID] = &cp
	return cp
}

// SetKeywords sets the keyword reply for a report.
func (b *Backend) SetKeywords(id int64, k api.KeywordSet) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keywords[id] = k
}

// AddVersion records a revision for a report.
func (b *Backend) AddVersion(id int64, v api.Version) api.Version {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextVerID++
	v.ID = b.nextVerID
	v.ReportID = id
	v.VersionNumber = len(b.versions[id]) + 1
	b.versions[id] = append(b.versions[id], v)
	return v
}

// Report returns the stored report.
func (b *Backend) Report(id int64) (api.Report, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.reports[id]
	if !ok {
		return api.Report{}, false
	}
	return *r, true
}

// Calls returns "METHOD path?query" for every request received whose path
// starts with prefix.
func (b *Backend) Calls(prefix string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []string{}
	for _, c := range b.calls {
		parts := strings.SplitN(c, " ", 2)
		if len(parts) == 2 && strings.HasPrefix(parts[1], prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "service": "Research Agent"})
	})
	mux.HandleFunc("POST /api/research", b.handleResearch)
	mux.HandleFunc("GET /api/reports", b.handleList(false))
	mux.HandleFunc("GET /api/reports/favorites", b.handleList(true))
	mux.HandleFunc("GET /api/reports/{id}", b.withReport(func(w http.ResponseWriter, r *http.Request, rep *api.Report) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "report": rep})
	}))
	mux.HandleFunc("DELETE /api/reports/{id}", b.withReport(func(w http.ResponseWriter, r *http.Request, rep *api.Report) {
		delete(b.reports, rep.ID)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Report deleted"})
	}))
	mux.HandleFunc("GET /api/reports/{id}/keywords", b.withReport(func(w http.ResponseWriter, r *http.Request, rep *api.Report) {
		k := b.keywords[rep.ID]
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"entities":  nonNil(k.Entities),
			"technical": nonNil(k.Technical),
			"keywords":  nonNil(k.Keywords),
		})
	}))
	mux.HandleFunc("POST /api/reports/{id}/favorite", b.withReport(func(w http.ResponseWriter, r *http.Request, rep *api.Report) {
		rep.IsFavorite = !rep.IsFavorite
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "is_favorite": rep.IsFavorite})
	}))
	mux.HandleFunc("GET /api/reports/{id}/versions", b.withReport(func(w http.ResponseWriter, r *http.Request, rep *api.Report) {
		vs := append([]api.Version(nil), b.versions[rep.ID]...)
		sort.Slice(vs, func(i, j int) bool { return vs[i].VersionNumber > vs[j].VersionNumber })
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "versions": nonNilVersions(vs)})
	}))
	mux.HandleFunc("POST /api/reports/{id}/restore/{vid}", b.withReport(func(w http.ResponseWriter, r *http.Request, rep *api.Report) {
		vid, _ := strconv.ParseInt(r.PathValue("vid"), 10, 64)
		for _, v := range b.versions[rep.ID] {
			if v.ID == vid {
				rep.Title, rep.Summary, rep.Content, rep.WordCount = v.Title, v.Summary, v.Content, v.WordCount
				writeJSON(w, http.StatusOK, map[string]any{"success": true})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Version not found"})
	}))
	mux.HandleFunc("GET /api/versions/{vid}", b.guard(func(w http.ResponseWriter, r *http.Request) {
		vid, _ := strconv.ParseInt(r.PathValue("vid"), 10, 64)
		for _, vs := range b.versions {
			for _, v := range vs {
				if v.ID == vid {
					writeJSON(w, http.StatusOK, map[string]any{"success": true, "version": v})
					return
				}
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Version not found"})
	}))
	mux.HandleFunc("GET /api/search", b.guard(func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
		if q == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Query parameter required"})
			return
		}
		out := []api.Report{}
		for _, rep := range b.sorted() {
			if strings.Contains(strings.ToLower(rep.Title), q) || strings.Contains(strings.ToLower(rep.Topic), q) {
				out = append(out, listItem(rep))
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "reports": out})
	}))
	mux.HandleFunc("GET /api/export/{id}/{format}", b.withReport(func(w http.ResponseWriter, r *http.Request, rep *api.Report) {
		format := r.PathValue("format")
		switch format {
		case "markdown":
			w.Header().Set("Content-Type", "text/markdown")
			w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%d.md"`, rep.ID))
			_, _ = fmt.Fprintf(w, "# %s\n\n%s\n", rep.Title, rep.Content)
		case "html":
			w.Header().Set("Content-Type", "text/html")
			w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%d.html"`, rep.ID))
			_, _ = fmt.Fprintf(w, "<h1>%s</h1>", rep.Title)
		default:
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Unsupported format. Use: html, markdown"})
		}
	}))
	mux.HandleFunc("POST /api/compare", b.guard(b.handleCompare))
	mux.HandleFunc("GET /api/analytics", b.guard(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "analytics": b.Analytics})
	}))
	return b.record(mux)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		call := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			call += "?" + r.URL.RawQuery
		}
		b.calls = append(b.calls, call)
		fail := b.Fail
		b.mu.Unlock()
		if fail != 0 && strings.HasPrefix(r.URL.Path, "/api/") {
			writeJSON(w, fail, map[string]any{"error": http.StatusText(fail)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// guard serializes handlers over the backend state.
func (b *Backend) guard(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		h(w, r)
	}
}

func (b *Backend) withReport(h func(http.ResponseWriter, *http.Request, *api.Report)) http.HandlerFunc {
	return b.guard(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "Report not found"})
			return
		}
		rep, ok := b.reports[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "Report not found"})
			return
		}
		h(w, r, rep)
	})
}

func (b *Backend) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Topic) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Topic is required"})
		return
	}
	rep := b.AddReport(SampleReport(strings.TrimSpace(req.Topic), 3))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "report_id": rep.ID, "report": rep})
}

func (b *Backend) handleList(favorites bool) http.HandlerFunc {
	return b.guard(func(w http.ResponseWriter, r *http.Request) {
		out := []api.Report{}
		for _, rep := range b.sorted() {
			if favorites && !rep.IsFavorite {
				continue
			}
			out = append(out, listItem(rep))
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "reports": out})
	})
}

func (b *Backend) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"report_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) < 2 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "At least two reports required"})
		return
	}
	cmp := api.Comparison{}
	counts := map[string]int{}
	for _, id := range req.IDs {
		rep, ok := b.reports[id]
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": fmt.Sprintf("Report %d not found", id)})
			return
		}
		cmp.Reports = append(cmp.Reports, api.ComparedReport{
			ID: rep.ID, Title: rep.Title, Topic: rep.Topic,
			WordCount: rep.WordCount, SourceCount: len(rep.Sources), CreatedAt: rep.CreatedAt,
		})
		cmp.Statistics.TotalWords += rep.WordCount
		cmp.Statistics.TotalSources += len(rep.Sources)
		seen := map[string]bool{}
		for _, s := range rep.Sources {
			if !seen[s.Source] {
				seen[s.Source] = true
				counts[s.Source]++
			}
		}
	}
	cmp.Statistics.AvgWords = cmp.Statistics.TotalWords / len(cmp.Reports)
	cmp.Statistics.CommonSources = []string{}
	for s, n := range counts {
		if n == len(req.IDs) {
			cmp.Statistics.CommonSources = append(cmp.Statistics.CommonSources, s)
		}
	}
	sort.Strings(cmp.Statistics.CommonSources)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "comparison": cmp})
}

// sorted returns reports newest id first; callers hold b.mu.
func (b *Backend) sorted() []*api.Report {
	out := make([]*api.Report, 0, len(b.reports))
	for _, r := range b.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// listItem drops the fields list endpoints do not return.
func listItem(r *api.Report) api.Report {
	cp := *r
	cp.Content = ""
	cp.Sources = nil
	return cp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilVersions(v []api.Version) []api.Version {
	if v == nil {
		return []api.Version{}
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
