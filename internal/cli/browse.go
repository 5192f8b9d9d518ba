package cli

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mithrel/dossier/internal/db"
	"github.com/mithrel/dossier/internal/present/tui"
	"github.com/mithrel/dossier/internal/wire"
)

func newBrowseCmd() *cobra.Command {
	var favorites bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive report browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowser(cmd, getApp(cmd), favorites)
		},
	}
	cmd.Flags().BoolVar(&favorites, "favorites", false, "start with only favorites shown")
	return cmd
}

func runBrowser(cmd *cobra.Command, app *wire.App, favorites bool) error {
	theme, err := db.LoadTheme(cmd.Context(), app.Prefs, db.Theme(app.Cfg.GetString("ui.default_theme")))
	if err != nil {
		app.Log.WithError(err).Warn("could not read saved theme")
	}
	// Log lines would tear the alternate screen; keep them only when debugging.
	var log logrus.FieldLogger
	if app.Log.IsLevelEnabled(logrus.DebugLevel) {
		log = app.Log.WithField("component", "tui")
	}
	return tui.Run(cmd.Context(), tui.Options{
		Backend:          app.Client,
		Prefs:            app.Prefs,
		Log:              log,
		Theme:            theme,
		Debounce:         app.Cfg.GetDuration("search.debounce"),
		ProgressInterval: app.Cfg.GetDuration("research.progress_interval"),
		FavoritesOnly:    favorites,
	})
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or set the saved theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			current, err := db.LoadTheme(ctx, app.Prefs, db.Theme(app.Cfg.GetString("ui.default_theme")))
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), current)
				return nil
			}
			next := current.Toggle()
			if !strings.EqualFold(args[0], "toggle") {
				if next, err = db.ParseTheme(args[0]); err != nil {
					return err
				}
			}
			if err := db.SaveTheme(ctx, app.Prefs, next); err != nil {
				return fmt.Errorf("save theme: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", next)
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the research backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			h, err := app.Client.Health(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", app.Client.BaseURL(), h.Status, h.Service)
			return nil
		},
	}
}
