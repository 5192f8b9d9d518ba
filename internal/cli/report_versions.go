package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/dossier/internal/config"
	"github.com/mithrel/dossier/internal/present"
)

func newReportVersionsCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:               "versions <id>",
		Short:             "List stored versions of a report, newest first",
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
			versions, err := app.Client.Versions(cmd.Context(), id)
			if err != nil {
				return err
			}
			return emit(cmd, opts.Mode, func(w io.Writer) error {
				return present.RenderVersions(w, versions, opts)
			})
		},
	}
	addOutputFlags(cmd, &out, "plain", "plain", "json", "ndjson", "markdown", "html")
	return cmd
}

func newReportVersionCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "version <versionId>",
		Short: "Show one stored version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(cmd, app)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "version id")
			if err != nil {
				return err
			}
			v, err := app.Client.Version(cmd.Context(), id)
			if err != nil {
				return err
			}
			return emit(cmd, opts.Mode, func(w io.Writer) error {
				return present.RenderVersion(w, v, opts)
			})
		},
	}
	addOutputFlags(cmd, &out, "plain", dataModes...)
	return cmd
}

func newReportRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "restore <id> <versionId>",
		Short:             "Restore a report to a stored version",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeReportIDs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			id, err := parseID(args[0], "report id")
			if err != nil {
				return err
			}
			versionID, err := parseID(args[1], "version id")
			if err != nil {
				return err
			}
			if err := app.Client.Restore(cmd.Context(), id, versionID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Restored report %d to version %d\n", id, versionID)
			return nil
		},
	}
}

func newReportExportCmd() *cobra.Command {
	var exportFormat, dir string
	var stdout bool
	cmd := &cobra.Command{
		Use:               "export <id>",
		Short:             "Download a report as html, markdown or pdf",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeReportIDs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			id, err := parseID(args[0], "report id")
			if err != nil {
				return err
			}
			dl, err := app.Client.Export(cmd.Context(), id, exportFormat)
			if err != nil {
				return err
			}
			defer dl.Body.Close()

			if stdout {
				_, err := io.Copy(cmd.OutOrStdout(), dl.Body)
				return err
			}
			if dir == "" {
				dir = config.ResolveExportDir(app.Cfg)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			// The server-suggested name must not escape dir.
			path := filepath.Join(dir, filepath.Base(dl.Filename))
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			n, err := io.Copy(f, dl.Body)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			app.Log.WithField("bytes", n).Debug("export written")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "export format: "+strings.Join(exportFormats, "|"))
	cmd.Flags().StringVar(&dir, "dir", "", "directory to write into (default export.dir)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write the file to stdout instead")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return exportFormats, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

var exportFormats = []string{"html", "markdown", "pdf"}
