package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/dossier/internal/config"
	"github.com/mithrel/dossier/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// Execute builds the root command and runs it. The returned error has not
// been printed yet.
func Execute() error {
	cmd, st := newRootCmd(wire.Options{})
	err := cmd.Execute()
	if err != nil && st.app != nil {
		st.app.Log.WithError(err).Debug("command failed")
	}
	_ = st.close()
	return err
}

// rootState keeps the wired App reachable after Execute returns.
type rootState struct {
	app *wire.App
}

// close releases the App built by the last run. It is safe to call more
// than once.
func (s *rootState) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

// NewRootCmd constructs the Cobra root command and wires dependencies. Call
// the returned func once the command has run to close the preference store.
func NewRootCmd() (*cobra.Command, func() error) {
	cmd, st := newRootCmd(wire.Options{})
	return cmd, st.close
}

func newRootCmd(opts wire.Options) (*cobra.Command, *rootState) {
	var cfgPath string
	st := &rootState{}

	cmd := &cobra.Command{
		Use:           "dossier-cli",
		Short:         "dossier: terminal client for the research report service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipApp] == "true" {
				return nil
			}
			v, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			app, err := wire.BuildApp(cmd.Context(), v, opts)
			if err != nil {
				return err
			}
			st.app = app
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml)")
	cmd.PersistentFlags().String("base-url", "", "research backend base URL (overrides api.base_url)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug|info|warn|error")

	cmd.AddCommand(newResearchCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newCompareCmd())
	cmd.AddCommand(newAnalyticsCmd())
	cmd.AddCommand(newBrowseCmd())
	cmd.AddCommand(newThemeCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd, st
}

// loadConfig resolves config for cmd, applying persistent flag overrides.
func loadConfig(cmd *cobra.Command, cfgPath string) (*viper.Viper, error) {
	v := viper.New()
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	}
	if err := config.Load(cmd.Context(), v); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyConfigFlagOverrides(cmd, v, map[string]string{
		"base-url":  "api.base_url",
		"log-level": "log.level",
	})
	return v, nil
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}
