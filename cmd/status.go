package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/scriptsync/internal/script"
	"github.com/teemow/scriptsync/internal/syncer"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Compare the project's files with the files scriptsync manages",
		Long: `List the files of the Apps Script project grouped by type and check that every
managed script file is present. Missing files are reported, they do not make
the command fail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			client, _, err := a.scriptClient(cmd)
			if err != nil {
				return err
			}

			files, err := client.Files(ctx)
			if err != nil {
				return err
			}

			printStatusReport(cmd.OutOrStdout(), script.Compare(files, syncer.DefaultFiles), a.cfg.ProjectURL())
			return nil
		},
	}
}

func printStatusReport(w io.Writer, r *script.Report, projectURL string) {
	fmt.Fprintf(w, "Files in project: %d\n", r.Total)

	fmt.Fprintln(w, "\nScript files (SERVER_JS):")
	if len(r.Server) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, name := range r.Server {
		fmt.Fprintf(w, "  - %s\n", displayName(name))
	}
	if len(r.HTML) > 0 {
		fmt.Fprintf(w, "\nHTML files (%d):\n", len(r.HTML))
		for _, name := range r.HTML {
			fmt.Fprintf(w, "  - %s\n", displayName(name))
		}
	}
	if len(r.Other) > 0 {
		fmt.Fprintf(w, "\nOther files (%d):\n", len(r.Other))
		for _, name := range r.Other {
			fmt.Fprintf(w, "  - %s\n", displayName(name))
		}
	}

	fmt.Fprintln(w, "\nManaged files:")
	for _, name := range r.Present {
		fmt.Fprintf(w, "  ok       %s\n", name)
	}
	for _, name := range r.Missing {
		fmt.Fprintf(w, "  missing  %s\n", name)
	}

	if r.Complete() {
		fmt.Fprintln(w, "\nAll managed files are present.")
	} else {
		fmt.Fprintf(w, "\n%d of %d managed files are missing: %s\n", len(r.Missing), len(r.Present)+len(r.Missing), strings.Join(r.Missing, ", "))
		fmt.Fprintln(w, "Run `scriptsync sync` to upload them.")
	}

	if !r.Manifest {
		fmt.Fprintf(w, "\nWarning: the project has no %s.json manifest.\n", script.ManifestName)
	}

	if len(r.Extra) > 0 {
		fmt.Fprintf(w, "\nAdditional script files (%d):\n", len(r.Extra))
		for _, name := range r.Extra {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}

	fmt.Fprintf(w, "\nProject: %s\n", projectURL)
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
