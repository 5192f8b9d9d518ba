package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, toml string) *viper.Viper {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	v := viper.New()
	if toml != "" {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(toml), 0o600))
		v.SetConfigFile(path)
	}
	require.NoError(t, Load(context.Background(), v))
	return v
}

func TestLoadDefaults(t *testing.T) {
	v := loadFrom(t, "")

	assert.Equal(t, "http://localhost:5000", v.GetString("api.base_url"))
	assert.Equal(t, 300*time.Millisecond, v.GetDuration("search.debounce"))
	assert.Equal(t, "dark", v.GetString("ui.default_theme"))
	assert.False(t, v.GetBool("render.sanitize"))
	assert.True(t, strings.HasSuffix(ResolveDBPath(v), filepath.Join("dossier", "dossier.db")))
	assert.NoError(t, CheckConfigValidity(v))
}

func TestLoadPrecedence(t *testing.T) {
	toml := "[api]\nbase_url = \"http://research.internal:8080/\"\ntimeout = \"10s\"\n\n[ui]\ndefault_theme = \"Light\"\n"
	t.Setenv("DOSSIER_API_TIMEOUT", "45s")
	v := loadFrom(t, toml)

	assert.Equal(t, "http://research.internal:8080", v.GetString("api.base_url"), "file overrides default, trailing slash trimmed")
	assert.Equal(t, 45*time.Second, v.GetDuration("api.timeout"), "env overrides file")
	assert.Equal(t, "light", v.GetString("ui.default_theme"))
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api\nbase_url = "), 0o600))
	v := viper.New()
	v.SetConfigFile(path)
	assert.Error(t, Load(context.Background(), v))
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	v.Set("data_dir", "")
	v.Set("api.base_url", "localhost:5000")
	v.Set("api.timeout", "soon")
	v.Set("search.debounce", "0s")
	v.Set("research.progress_interval", "2s")
	v.Set("api.token_provider", "vault")
	v.Set("ui.default_theme", "sepia")
	v.Set("log.level", "loud")

	err := CheckConfigValidity(v)
	require.Error(t, err)
	for _, want := range []string{
		"data_dir is required",
		"api.base_url must be an http(s) URL",
		"api.timeout is not a duration",
		"search.debounce must be greater than 0",
		"api.token_provider must be config or keyring",
		"ui.default_theme must be dark or light",
		"log.level must be one of",
	} {
		assert.Contains(t, err.Error(), want)
	}
	assert.NotContains(t, err.Error(), "research.progress_interval")
}

func TestRenderDefaultTOMLRoundTrips(t *testing.T) {
	out := RenderDefaultTOML()
	assert.Contains(t, out, "[api]\n")
	assert.Contains(t, out, `base_url = "http://localhost:5000"`)
	assert.Contains(t, out, "sanitize = false")

	v := loadFrom(t, out)
	assert.Equal(t, "300s", v.GetString("api.timeout"))
	assert.NoError(t, CheckConfigValidity(v))
}

func TestUpdateTOML(t *testing.T) {
	existing := "[api]\nbase_url = \"http://example.com\"\nretries = 3\n"

	got, changed := UpdateTOML(existing)
	require.True(t, changed)
	assert.Contains(t, got, "# OUTDATED: option removed from config schema\n# retries = 3")
	assert.Contains(t, got, `base_url = "http://example.com"`)
	assert.Equal(t, 1, strings.Count(got, "base_url ="), "present keys are not re-added")
	assert.Contains(t, got, "[search]")
	assert.True(t, strings.HasPrefix(got, "# Added by config update\n# Directory for local state"), "top-level keys go before tables")

	v := loadFrom(t, got)
	assert.Equal(t, "http://example.com", v.GetString("api.base_url"))
	assert.Equal(t, "300s", v.GetString("api.timeout"))

	again, changed := UpdateTOML(got)
	assert.False(t, changed)
	assert.Equal(t, got, again)
}

func TestUpsertValue(t *testing.T) {
	t.Run("replaces", func(t *testing.T) {
		got := UpsertValue("[api]\ntoken = \"old\"\ntimeout = \"5s\"\n", "api.token", "new")
		assert.Equal(t, "[api]\ntoken = \"new\"\ntimeout = \"5s\"\n", got)
	})
	t.Run("adds to existing table", func(t *testing.T) {
		got := UpsertValue("[api]\ntimeout = \"5s\"\n\n[ui]\ndefault_theme = \"dark\"\n", "api.token", "t")
		assert.Equal(t, "[api]\ntimeout = \"5s\"\ntoken = \"t\"\n\n[ui]\ndefault_theme = \"dark\"\n", got)
	})
	t.Run("adds table", func(t *testing.T) {
		got := UpsertValue("data_dir = \"/x\"", "api.token", "t")
		assert.Equal(t, "data_dir = \"/x\"\n\n[api]\ntoken = \"t\"", got)
	})
	t.Run("top level goes first", func(t *testing.T) {
		got := UpsertValue("[api]\ntoken = \"t\"", "data_dir", "/x")
		assert.Equal(t, "data_dir = \"/x\"\n[api]\ntoken = \"t\"", got)
	})
}

func TestRenderValuesTOMLMasksToken(t *testing.T) {
	t.Setenv("DOSSIER_API_TOKEN", "s3cret")
	t.Setenv("DOSSIER_RENDER_SANITIZE", "true")
	v := loadFrom(t, "")

	out := RenderValuesTOML(v, "api.token")
	assert.Contains(t, out, `token = "***"`)
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, "sanitize = true")
	assert.Contains(t, out, `debounce = "300ms"`)
}
