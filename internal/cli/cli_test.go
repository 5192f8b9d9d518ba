package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/dossier/internal/client"
	"github.com/mithrel/dossier/internal/client/clienttest"
	"github.com/mithrel/dossier/internal/wire"
	"github.com/mithrel/dossier/pkg/api"
)

type harness struct {
	b   *clienttest.Backend
	dsn string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := clienttest.New(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("DOSSIER_API_BASE_URL", b.URL())
	t.Setenv("DOSSIER_RESEARCH_PROGRESS_INTERVAL", "1h")
	return &harness{b: b, dsn: filepath.Join(dir, "prefs.db")}
}

// run executes args and returns stdout, stderr and the command error.
func (h *harness) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd, st := newRootCmd(wire.Options{PrefsDSN: h.dsn, LogOutput: io.Discard})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	require.NoError(t, st.close())
	return out.String(), errOut.String(), err
}

func TestResearchPrintsReport(t *testing.T) {
	h := newHarness(t)

	out, errOut, err := h.run(t, "", "research", "Quantum", "Computing")
	require.NoError(t, err)

	assert.Contains(t, errOut, "[1/5] Generating search queries...")
	assert.Contains(t, out, "Investigating Quantum Computing\n")
	assert.Contains(t, out, "What experts say about Quantum Computing.")
	assert.Contains(t, out, "Words: 842 | Sources: 3")
	assert.Contains(t, out, "  3. Quantum Computing source 3 (Publisher 3) <https://example.com/3>")
	assert.Equal(t, []string{"POST /api/research"}, h.b.Calls("/api/research"))
}

func TestResearchJSONSkipsPager(t *testing.T) {
	h := newHarness(t)

	out, errOut, err := h.run(t, "", "research", "--output", "json", "Go")
	require.NoError(t, err)
	assert.NotContains(t, errOut, "Generating search queries", "no progress for machine-readable output")

	var got api.Report
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Go", got.Topic)
	assert.Len(t, got.Sources, 3)
}

func TestReportListAndShow(t *testing.T) {
	h := newHarness(t)
	first := h.b.AddReport(clienttest.SampleReport("Rust", 1))
	h.b.AddReport(clienttest.SampleReport("Zig", 2))

	out, _, err := h.run(t, "", "report", "list", "-o", "ndjson")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)

	out, _, err = h.run(t, "", "report", "list", "--noheaders")
	require.NoError(t, err)
	assert.NotContains(t, out, "title")
	assert.Contains(t, out, "Investigating Rust")

	out, _, err = h.run(t, "", "report", "show", "-o", "plain", "1")
	require.NoError(t, err)
	assert.Contains(t, out, first.Title+"\n")
	assert.Contains(t, out, "Words: 842 | Sources: 1")
}

func TestReportShowHighlight(t *testing.T) {
	h := newHarness(t)
	r := h.b.AddReport(clienttest.SampleReport("Rust", 1))
	h.b.SetKeywords(r.ID, api.KeywordSet{Entities: []string{"Rust"}})

	out, _, err := h.run(t, "", "report", "show", "-o", "plain", "--highlight", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "`Rust` is **changing** fast.")
}

func TestReportFavoriteAndDelete(t *testing.T) {
	h := newHarness(t)
	h.b.AddReport(clienttest.SampleReport("Rust", 1))

	out, _, err := h.run(t, "", "report", "fav", "1")
	require.NoError(t, err)
	assert.Equal(t, "Report 1 added to favorites\n", out)

	out, _, err = h.run(t, "", "report", "list", "--favorites", "-o", "json")
	require.NoError(t, err)
	var favs []api.Report
	require.NoError(t, json.Unmarshal([]byte(out), &favs))
	require.Len(t, favs, 1)
	assert.True(t, favs[0].IsFavorite)

	out, _, err = h.run(t, "", "report", "delete", "-y", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted report 1\n", out)
	_, ok := h.b.Report(1)
	assert.False(t, ok)
}

func TestReportNotFound(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "", "report", "show", "42")
	require.Error(t, err)
	assert.Equal(t, "Server error (404): Report not found", client.Notice(err))
}

func TestInvalidArguments(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "", "report", "show", "abc")
	require.EqualError(t, err, `invalid report id "abc"`)

	_, _, err = h.run(t, "", "report", "show", "-o", "ndjson", "1")
	require.ErrorContains(t, err, `invalid --output "ndjson"`)
	assert.Empty(t, h.b.Calls("/api/reports"))
}

func TestExportWritesIntoDir(t *testing.T) {
	h := newHarness(t)
	h.b.AddReport(clienttest.SampleReport("Rust", 1))
	dir := t.TempDir()

	out, _, err := h.run(t, "", "report", "export", "--dir", dir, "1")
	require.NoError(t, err)
	path := filepath.Join(dir, "report_1.md")
	assert.Equal(t, "Wrote "+path+"\n", out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Investigating Rust\n"))

	out, _, err = h.run(t, "", "report", "export", "-f", "html", "--stdout", "1")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Investigating Rust</h1>", out)
}

func TestVersionsAndRestore(t *testing.T) {
	h := newHarness(t)
	r := h.b.AddReport(clienttest.SampleReport("Rust", 1))
	v := h.b.AddVersion(r.ID, api.Version{Title: "Old Rust", Content: "old", WordCount: 3, ChangeNote: "first draft"})

	out, _, err := h.run(t, "", "report", "versions", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "first draft")

	out, _, err = h.run(t, "", "report", "restore", "1", "1")
	require.NoError(t, err)
	assert.Equal(t, "Restored report 1 to version 1\n", out)
	got, ok := h.b.Report(r.ID)
	require.True(t, ok)
	assert.Equal(t, v.Title, got.Title)
}

func TestSearchFavoritesFilter(t *testing.T) {
	h := newHarness(t)
	h.b.AddReport(clienttest.SampleReport("Rust", 1))
	fav := clienttest.SampleReport("Rust async", 1)
	fav.IsFavorite = true
	h.b.AddReport(fav)

	out, _, err := h.run(t, "", "search", "-o", "json", "--favorites", "rust")
	require.NoError(t, err)
	var got []api.Report
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Rust async", got[0].Topic)
	assert.Equal(t, []string{"GET /api/search?q=rust"}, h.b.Calls("/api/search"))
}

func TestThemePersists(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run(t, "", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, _, err = h.run(t, "", "theme", "toggle")
	require.NoError(t, err)
	assert.Equal(t, "Theme set to light\n", out)

	out, _, err = h.run(t, "", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	_, _, err = h.run(t, "", "theme", "sepia")
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run(t, "", "health")
	require.NoError(t, err)
	assert.Equal(t, h.b.URL()+": healthy (Research Agent)\n", out)
}

func TestServerFailureNotice(t *testing.T) {
	h := newHarness(t)
	h.b.Fail = http.StatusInternalServerError

	_, _, err := h.run(t, "", "analytics")
	require.Error(t, err)
	assert.Equal(t, "Server error (500): Internal Server Error", client.Notice(err))
}

func TestBaseURLFlagOverridesEnv(t *testing.T) {
	h := newHarness(t)
	other := clienttest.New(t)

	_, _, err := h.run(t, "", "--base-url", other.URL()+"/", "health")
	require.NoError(t, err)
	assert.Empty(t, h.b.Calls("/health"))
	assert.Equal(t, []string{"GET /health"}, other.Calls("/health"))
}

func TestConfigGenerateAndValidate(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := h.run(t, "", "config", "generate", "-o", path)
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+path+"\n", out)

	_, _, err = h.run(t, "", "config", "generate", "-o", path)
	require.ErrorContains(t, err, "config already exists")

	out, _, err = h.run(t, "", "config", "generate", "-o", path, "--overwrite")
	require.NoError(t, err)
	assert.Contains(t, out, "Backup: "+path+".bak")

	out, _, err = h.run(t, "", "--config", path, "config", "validate")
	require.NoError(t, err)
	assert.Equal(t, "Configuration OK ("+path+")\n", out)
}

func TestConfigValidateRejectsBrokenFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api\nbase_url = "), 0o600))

	_, _, err := h.run(t, "", "--config", path, "config", "validate")
	require.Error(t, err)
}

func TestConfigTokenRoundTrip(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	_, _, err := h.run(t, "", "config", "generate", "-o", path)
	require.NoError(t, err)

	out, _, err := h.run(t, "s3cret\n", "--config", path, "config", "token", "set")
	require.NoError(t, err)
	assert.Equal(t, "Token stored (config)\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `token = "s3cret"`)

	out, _, err = h.run(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `token = "***"`)
	assert.NotContains(t, out, "s3cret")
}

func TestCompletionSkipsApp(t *testing.T) {
	h := newHarness(t)
	t.Setenv("DOSSIER_API_BASE_URL", "http://127.0.0.1:1")

	out, _, err := h.run(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "dossier-cli")
}

func TestCompleteReportIDs(t *testing.T) {
	h := newHarness(t)
	h.b.AddReport(clienttest.SampleReport("Rust", 1))
	h.b.AddReport(clienttest.SampleReport("Zig", 1))

	out, _, err := h.run(t, "", "__complete", "report", "show", "zig")
	require.NoError(t, err)
	assert.Contains(t, out, "2\tInvestigating Zig")
	assert.NotContains(t, out, "Investigating Rust")
}

func TestConfigEditValidates(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	ed := filepath.Join(t.TempDir(), "ed.sh")
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", ed)

	require.NoError(t, os.WriteFile(ed, []byte("#!/bin/sh\nprintf '[search]\\ndebounce = \"soon\"\\n' > \"$1\"\n"), 0o755))
	out, _, err := h.run(t, "", "--config", path, "config", "edit")
	require.ErrorContains(t, err, "search.debounce is not a duration")
	assert.Contains(t, out, "Wrote "+path)

	require.NoError(t, os.WriteFile(ed, []byte("#!/bin/sh\nprintf '[ui]\\ndefault_theme = \"light\"\\n' > \"$1\"\n"), 0o755))
	out, _, err = h.run(t, "", "--config", path, "config", "edit")
	require.NoError(t, err)
	assert.Equal(t, "Configuration OK ("+path+")\n", out)
}

func TestRootCloseReleasesStore(t *testing.T) {
	h := newHarness(t)
	cmd, st := newRootCmd(wire.Options{PrefsDSN: h.dsn, LogOutput: io.Discard})
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"theme"})
	require.NoError(t, cmd.Execute())
	require.NotNil(t, st.app)
	prefs := st.app.Prefs

	require.NoError(t, st.close())
	assert.Nil(t, st.app)
	_, err := prefs.ListPrefs(context.Background())
	assert.Error(t, err, "store is closed")
	assert.NoError(t, st.close(), "second close is a no-op")
}

func TestNewRootCmdCleanup(t *testing.T) {
	newHarness(t)
	cmd, cleanup := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"theme"})
	require.NoError(t, cmd.Execute())
	assert.NoError(t, cleanup())
	assert.NoError(t, cleanup())
}
