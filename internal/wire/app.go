package wire

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/mithrel/dossier/internal/client"
	"github.com/mithrel/dossier/internal/config"
	"github.com/mithrel/dossier/internal/db"
	"github.com/mithrel/dossier/internal/keys"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      *logrus.Logger
	Client   *client.Client
	Keywords *client.KeywordCache
	Prefs    db.Store
	Tokens   keys.TokenStore
}

// Options tweak BuildApp, mostly for tests.
type Options struct {
	LogOutput io.Writer
	// PrefsDSN overrides the sqlite path derived from data_dir.
	PrefsDSN string
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, v *viper.Viper, opts ...Options) (*App, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	logger := NewLogger(v.GetString("log.level"), o.LogOutput)

	cfgTokens := &keys.ConfigStore{
		Token: v.GetString("api.token"),
		Save:  func(tok string) error { return SaveConfigValue(v, "api.token", tok) },
	}
	tokens, err := keys.Select(v.GetString("api.token_provider"), cfgTokens)
	if err != nil {
		return nil, err
	}
	token, err := keys.Lookup(tokens)
	if err != nil {
		logger.WithError(err).Warn("could not read API token; continuing without it")
		token = ""
	}

	dsn := o.PrefsDSN
	if dsn == "" {
		dsn = config.ResolveDBPath(v)
	}
	prefs, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}

	c := client.New(v.GetString("api.base_url"), v.GetDuration("api.timeout"),
		client.WithToken(token),
		client.WithLogger(logger.WithField("component", "client")),
	)
	return &App{
		Cfg:      v,
		Log:      logger,
		Client:   c,
		Keywords: client.NewKeywordCache(c),
		Prefs:    prefs,
		Tokens:   tokens,
	}, nil
}

// Close releases the preference store.
func (a *App) Close() error {
	if a == nil || a.Prefs == nil {
		return nil
	}
	return a.Prefs.Close()
}

// NewLogger builds the text logger; w defaults to stderr.
func NewLogger(level string, w io.Writer) *logrus.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.WarnLevel
	}
	l.SetLevel(lvl)
	return l
}

// SaveConfigValue writes key into the config file in use (or the default
// path) without disturbing the rest of it.
func SaveConfigValue(v *viper.Viper, key string, value any) error {
	path := v.ConfigFileUsed()
	if path == "" {
		path = config.DefaultConfigPath()
	}
	existing := ""
	if data, err := os.ReadFile(path); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return err
	} else {
		existing = config.RenderDefaultTOML()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(config.UpsertValue(existing, key, value)), 0o600); err != nil {
		return err
	}
	v.Set(key, value)
	return nil
}
