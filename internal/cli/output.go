package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/dossier/internal/db"
	"github.com/mithrel/dossier/internal/present"
	"github.com/mithrel/dossier/internal/wire"
)

// outputFlags are the --output/--noheaders pair shared by read commands.
type outputFlags struct {
	mode      string
	noHeaders bool
	indent    bool
	allowed   []string
}

func addOutputFlags(cmd *cobra.Command, f *outputFlags, def string, allowed ...string) {
	f.allowed = allowed
	cmd.Flags().StringVarP(&f.mode, "output", "o", def, "output mode: "+strings.Join(allowed, "|"))
	cmd.Flags().BoolVar(&f.noHeaders, "noheaders", false, "hide column headers (plain)")
	cmd.Flags().BoolVar(&f.indent, "indent", false, "indent JSON output")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return allowed, cobra.ShellCompDirectiveNoFileComp
	})
}

// options validates the chosen mode and fills rendering options from app.
func (f *outputFlags) options(cmd *cobra.Command, app *wire.App) (present.Options, error) {
	name := strings.ToLower(strings.TrimSpace(f.mode))
	mode, ok := present.ParseMode(name)
	if !ok || !f.permits(name) {
		return present.Options{}, fmt.Errorf("invalid --output %q (use %s)", f.mode, strings.Join(f.allowed, "|"))
	}
	fallback := db.Theme(app.Cfg.GetString("ui.default_theme"))
	theme, err := db.LoadTheme(cmd.Context(), app.Prefs, fallback)
	if err != nil {
		app.Log.WithError(err).Warn("could not read saved theme")
	}
	return present.Options{
		Mode:       mode,
		JSONIndent: f.indent,
		Headers:    !f.noHeaders,
		Sanitize:   app.Cfg.GetBool("render.sanitize"),
		Theme:      string(theme),
	}, nil
}

func (f *outputFlags) permits(name string) bool {
	if name == "md" {
		name = "markdown"
	}
	for _, a := range f.allowed {
		if a == name {
			return true
		}
	}
	return false
}

var (
	listModes   = []string{"plain", "json", "ndjson", "markdown", "html", "tui"}
	reportModes = []string{"plain", "pretty", "json", "markdown", "html"}
	dataModes   = []string{"plain", "json", "ndjson"}
)

// parseID parses a positive report or version id.
func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

func parseIDs(args []string, what string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := parseID(a, what)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
