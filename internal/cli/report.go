package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/dossier/internal/present"
	"github.com/mithrel/dossier/internal/util"
	"github.com/mithrel/dossier/pkg/api"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"reports"},
		Short:   "Manage stored reports",
	}
	cmd.AddCommand(newReportListCmd())
	cmd.AddCommand(newReportShowCmd())
	cmd.AddCommand(newReportKeywordsCmd())
	cmd.AddCommand(newReportFavoriteCmd())
	cmd.AddCommand(newReportDeleteCmd())
	cmd.AddCommand(newReportVersionsCmd())
	cmd.AddCommand(newReportVersionCmd())
	cmd.AddCommand(newReportRestoreCmd())
	cmd.AddCommand(newReportExportCmd())
	return cmd
}

func newReportListCmd() *cobra.Command {
	var out outputFlags
	var favorites bool
	var since, until string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(cmd, app)
			if err != nil {
				return err
			}
			from, to, err := util.ParseTimeRange(since, until, time.Now())
			if err != nil {
				return err
			}
			if opts.Mode == present.ModeTUI {
				return runBrowser(cmd, app, favorites)
			}
			var reports []api.Report
			if favorites {
				reports, err = app.Client.ListFavorites(cmd.Context())
			} else {
				reports, err = app.Client.ListReports(cmd.Context())
			}
			if err != nil {
				return err
			}
			reports = util.FilterByCreated(reports, from, to)
			return emit(cmd, opts.Mode, func(w io.Writer) error {
				return present.RenderReports(w, reports, opts)
			})
		},
	}
	addOutputFlags(cmd, &out, "plain", listModes...)
	cmd.Flags().BoolVar(&favorites, "favorites", false, "only favorite reports")
	cmd.Flags().StringVar(&since, "since", "", "created at or after: 2h | 3d | 2025-05-01 | RFC3339")
	cmd.Flags().StringVar(&until, "until", "", "created at or before, same forms as --since")
	return cmd
}

func newReportShowCmd() *cobra.Command {
	var out outputFlags
	var highlight bool
	cmd := &cobra.Command{
		Use:               "show <id>",
		Short:             "Display a report",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeReportIDs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(cmd, app)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "report id")
			if err != nil {
				return err
			}
			report, err := app.Client.GetReport(cmd.Context(), id)
			if err != nil {
				return err
			}
			if highlight {
				terms, err := app.Keywords.Get(cmd.Context(), report)
				if err != nil {
					return err
				}
				opts.Terms = &terms
			}
			return emit(cmd, opts.Mode, func(w io.Writer) error {
				return present.RenderReport(w, report, opts)
			})
		},
	}
	addOutputFlags(cmd, &out, "pretty", reportModes...)
	cmd.Flags().BoolVar(&highlight, "highlight", false, "highlight extracted keywords")
	return cmd
}

func newReportKeywordsCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:               "keywords <id>",
		Short:             "Show the keywords extracted from a report",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeReportIDs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(cmd, app)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "report id")
			if err != nil {
				return err
			}
			terms, err := app.Client.Keywords(cmd.Context(), id)
			if err != nil {
				return err
			}
			return present.RenderKeywords(cmd.OutOrStdout(), terms, opts)
		},
	}
	addOutputFlags(cmd, &out, "plain", dataModes...)
	return cmd
}

func newReportFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "favorite <id>",
		Aliases:           []string{"fav"},
		Short:             "Toggle a report's favorite flag",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeReportIDs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			id, err := parseID(args[0], "report id")
			if err != nil {
				return err
			}
			fav, err := app.Client.ToggleFavorite(cmd.Context(), id)
			if err != nil {
				return err
			}
			if fav {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Report %d added to favorites\n", id)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Report %d removed from favorites\n", id)
			}
			return nil
		},
	}
}

func newReportDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:               "delete <id>",
		Short:             "Delete a report",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeReportIDs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			id, err := parseID(args[0], "report id")
			if err != nil {
				return err
			}
			if !yes {
				if err := confirm(fmt.Sprintf("Delete report %d?", id), "This permanently deletes the report and its versions.", id); err != nil {
					return err
				}
			}
			if err := app.Client.DeleteReport(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted report %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
