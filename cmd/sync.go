package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/teemow/scriptsync/internal/source"
	"github.com/teemow/scriptsync/internal/syncer"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync script files into the Apps Script project",
		Long: `Fetch every script file from {repo}/raw/{branch}/{name} and write it into the
configured Apps Script project. Existing files are overwritten, missing files
are added.

A file that cannot be fetched or written is reported and skipped. The command
only fails when configuration or authorization fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd)
		},
	}
}

func runSync(cmd *cobra.Command) error {
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

	if !source.RepoConfigured(a.cfg.RepoURL) && a.cfg.LocalDir == "" {
		a.logger.Warn("repository URL is not configured, set GITHUB_REPO_URL in the .env file")
	}

	fetcher := source.New(a.cfg.RepoURL, a.cfg.Branch, a.cfg.LocalDir,
		source.WithLogger(a.logger),
		source.WithMetrics(a.metrics),
	)
	s := syncer.New(fetcher, client,
		syncer.WithLogger(a.logger),
		syncer.WithMetrics(a.metrics),
	)

	result, err := s.Run(ctx)
	if result != nil {
		printSyncSummary(cmd.OutOrStdout(), result, a.cfg.ProjectURL())
	}
	return err
}

func printSyncSummary(w io.Writer, result *syncer.Result, projectURL string) {
	fmt.Fprintln(w)
	for _, f := range result.Files {
		if !f.OK() {
			fmt.Fprintf(w, "  FAILED   %-22s %v\n", f.Name, f.Err)
			continue
		}
		action := "updated"
		if !f.Replaced {
			action = "added"
		}
		fmt.Fprintf(w, "  %-8s %-22s %8s  %s\n", action, f.Name, humanize.Bytes(uint64(f.Size)), f.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(w, "\nSync complete: %d updated, %d failed\n", result.Updated, result.Failed)
	fmt.Fprintf(w, "Project: %s\n", projectURL)
	fmt.Fprintln(w, "\nNever commit .env, credentials.json or token.json to git. Run `scriptsync security-check` to verify.")
}
