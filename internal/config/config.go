package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// SetConfigFile upstream wins; these paths are fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "dossier"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "dossier"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a broken one is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && fileExists(v.ConfigFileUsed()) {
			return err
		}
	}

	// DOSSIER_API_BASE_URL etc.
	v.SetEnvPrefix("dossier")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}
	v.Set("api.base_url", strings.TrimRight(strings.TrimSpace(v.GetString("api.base_url")), "/"))
	v.Set("ui.default_theme", strings.ToLower(strings.TrimSpace(v.GetString("ui.default_theme"))))
	return nil
}

// defaultDataDir resolves $XDG_DATA_HOME/dossier or ~/.local/share/dossier.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "dossier")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "dossier")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "dossier", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; preferences live in data_dir/dossier.db"},

		{Key: "api.base_url", Default: "http://localhost:5000", Comment: "Research backend base URL"},
		{Key: "api.timeout", Default: "300s", Comment: "Per-request timeout; research calls can take minutes"},
		{Key: "api.token", Default: "", Comment: "Optional bearer token (used when token_provider = \"config\")"},
		{Key: "api.token_provider", Default: "config", Comment: "Where the bearer token is read from: config | keyring"},

		{Key: "ui.default_theme", Default: "dark", Comment: "Theme used until one is saved: dark | light"},
		{Key: "search.debounce", Default: "300ms", Comment: "Quiet period after the last keystroke before searching"},
		{Key: "research.progress_interval", Default: "2s", Comment: "How often the simulated research progress advances"},
		{Key: "render.sanitize", Default: false, Comment: "Sanitize backend HTML before display"},
		{Key: "export.dir", Default: ".", Comment: "Directory exported files are written to"},
		{Key: "log.level", Default: "warn", Comment: "Log level: debug | info | warn | error"},
	}
}

// ResolveDBPath returns the sqlite preferences file path under data_dir.
func ResolveDBPath(v *viper.Viper) string {
	return filepath.Join(expandHome(v.GetString("data_dir")), "dossier.db")
}

// ResolveExportDir returns export.dir with ~ expanded.
func ResolveExportDir(v *viper.Viper) string {
	dir := strings.TrimSpace(v.GetString("export.dir"))
	if dir == "" {
		return "."
	}
	return expandHome(dir)
}

func expandHome(dir string) string {
	if dir == "" {
		dir = defaultDataDir()
	}
	if dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return dir
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
