package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/dossier/internal/present"
)

func newSearchCmd() *cobra.Command {
	var out outputFlags
	var favorites bool
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search reports by title and topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(cmd, app)
			if err != nil {
				return err
			}
			reports, err := app.Client.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if favorites {
				kept := reports[:0]
				for _, r := range reports {
					if r.IsFavorite {
						kept = append(kept, r)
					}
				}
				reports = kept
			}
			return emit(cmd, opts.Mode, func(w io.Writer) error {
				return present.RenderReports(w, reports, opts)
			})
		},
	}
	addOutputFlags(cmd, &out, "plain", "plain", "json", "ndjson", "markdown", "html")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "only favorite reports")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:               "compare <id> <id>...",
		Short:             "Compare two or more reports",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completeReportIDs(-1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(cmd, app)
			if err != nil {
				return err
			}
			ids, err := parseIDs(args, "report id")
			if err != nil {
				return err
			}
			cmp, err := app.Client.Compare(cmd.Context(), ids)
			if err != nil {
				return err
			}
			return emit(cmd, opts.Mode, func(w io.Writer) error {
				return present.RenderComparison(w, cmp, opts)
			})
		},
	}
	addOutputFlags(cmd, &out, "plain", "plain", "pretty", "json", "ndjson", "markdown", "html")
	return cmd
}

func newAnalyticsCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show the analytics dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(cmd, app)
			if err != nil {
				return err
			}
			a, err := app.Client.Analytics(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, opts.Mode, func(w io.Writer) error {
				return present.RenderAnalytics(w, a, opts)
			})
		},
	}
	addOutputFlags(cmd, &out, "plain", "plain", "pretty", "json", "markdown", "html")
	return cmd
}
