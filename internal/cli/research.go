package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/dossier/internal/client"
	"github.com/mithrel/dossier/internal/present"
	"github.com/mithrel/dossier/internal/progress"
)

func newResearchCmd() *cobra.Command {
	var out outputFlags
	var highlight bool
	cmd := &cobra.Command{
		Use:   "research <topic...>",
		Short: "Research a topic and print the generated report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(cmd, app)
			if err != nil {
				return err
			}
			topic := strings.TrimSpace(strings.Join(args, " "))
			if topic == "" {
				return client.ErrEmptyTopic
			}

			errOut := cmd.ErrOrStderr()
			var reporter progress.Reporter = progress.Nop{}
			if opts.Mode != present.ModeJSON {
				reporter = progress.NewReporter(errOut, isTerminal(errOut))
			}
			stop := progress.Simulate(cmd.Context(), reporter, app.Cfg.GetDuration("research.progress_interval"))
			report, err := app.Client.Research(cmd.Context(), topic)
			stop()
			if err != nil {
				return err
			}
			app.Log.WithField("report_id", report.ID).Info("research complete")

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
	addOutputFlags(cmd, &out, "plain", reportModes...)
	cmd.Flags().BoolVar(&highlight, "highlight", false, "highlight extracted keywords")
	return cmd
}
