package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/scriptsync/internal/config"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the version command
func SetVersion(v string) {
	version = v
}

// newRootCmd builds the base command for the scriptsync application
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "scriptsync",
		Short: "Syncs script files from a git repository into a Google Apps Script project",
		Long: `scriptsync copies a fixed set of .gs files from a repository's raw file
endpoint into a Google Apps Script project through the Apps Script API.

Each file is fetched and written independently: a failure is reported and the
remaining files are still synced.

Configuration is read from a .env file, the environment and flags.`,
		SilenceUsage: true,
		Version:      version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd)
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "scriptsync version %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.SortFlags = false
	flags.String(flagEnvFile, config.DefaultEnvFile, "Path to the .env file")
	flags.String(flagLogLevel, "", "Log level: debug, info, warn, error (env LOG_LEVEL)")
	flags.String(flagLogFormat, "", "Log format: text, json (env LOG_FORMAT)")
	flags.String(flagScriptID, "", "Apps Script project ID (env GOOGLE_SCRIPT_ID)")
	flags.String(flagRepoURL, "", "Source repository URL (env GITHUB_REPO_URL)")
	flags.String(flagBranch, "", "Source repository branch (env GITHUB_BRANCH)")
	flags.String(flagLocalDir, "", "Directory searched for files before the repository (env SCRIPTSYNC_LOCAL_DIR)")
	flags.String(flagCredentials, "", "OAuth client secret file (env GOOGLE_CREDENTIALS_FILE)")
	flags.String(flagTokenFile, "", "Cached OAuth token file (env GOOGLE_TOKEN_FILE)")

	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newAuthorizeCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newSheetsCmd())
	rootCmd.AddCommand(newSecurityCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute is the main entry point for the CLI application.
// Running without a subcommand syncs.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
