package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/scriptsync/internal/logging"
	"github.com/teemow/scriptsync/internal/security"
)

// errAuditFailed is returned when a security check fails.
var errAuditFailed = errors.New("security check failed")

func newSecurityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "security-check [dir]",
		Short: "Check the working copy for leaked credentials",
		Long: `Verify that credential files are listed in .gitignore and not tracked by git,
that no source file contains a hard-coded secret and that credential files are
only readable by their owner. The directory defaults to the current one.

The command fails when any check other than the permission check fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				dir = args[0]
			}

			a.logger.Debug("running security checks", "dir", dir)
			report := security.NewAuditor(dir, security.WithLogger(a.logger)).Run(ctx)
			printSecurityReport(cmd.OutOrStdout(), report)

			if !report.Passed() {
				a.logger.Error("security check failed", logging.Status(logging.StatusError))
				return errAuditFailed
			}
			return nil
		},
	}
}

var checkTitles = map[string]string{
	security.CheckGitignore:   ".gitignore covers credential files",
	security.CheckGitTracking: "credential files not tracked by git",
	security.CheckSource:      "no hard-coded secrets in sources",
	security.CheckPermissions: "credential file permissions",
}

func printSecurityReport(w io.Writer, report *security.Report) {
	for _, res := range report.Results {
		title := checkTitles[res.Name]
		if title == "" {
			title = res.Name
		}
		fmt.Fprintf(w, "[%s] %s\n", res.Status, title)
		for _, issue := range res.Issues {
			fmt.Fprintf(w, "       %s\n", issue)
		}
	}

	if report.Passed() {
		fmt.Fprintln(w, "\nAll security checks passed.")
		return
	}
	fmt.Fprintln(w, "\nSecurity problems found. Fix them before committing.")
}
