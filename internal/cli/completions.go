package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/dossier/internal/util"
	"github.com/mithrel/dossier/internal/wire"
)

const maxCompletions = 20

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Args:                  cobra.ExactArgs(1),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		DisableFlagsInUseLine: true,
		Annotations:           map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return cmd.Help()
		},
	}
}

// completeReportIDs completes report ids ranked by fuzzy match against
// "id title". maxArgs limits which positions complete (< 0 means all).
func completeReportIDs(maxArgs int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if maxArgs >= 0 && len(args) >= maxArgs {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		app, ok := ctx.Value(appKey).(*wire.App)
		if !ok {
			cfgPath, _ := cmd.Flags().GetString("config")
			v, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			app, err = wire.BuildApp(ctx, v, wire.Options{LogOutput: io.Discard})
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			defer app.Close()
		}
		reports, err := app.Client.ListReports(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return util.ReportCompletions(toComplete, reports, maxCompletions), cobra.ShellCompDirectiveNoFileComp
	}
}
