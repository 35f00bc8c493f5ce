package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/scriptsync/internal/config"
	"github.com/teemow/scriptsync/internal/logging"
	"github.com/teemow/scriptsync/internal/security"
	"github.com/teemow/scriptsync/internal/source"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "setup",
		Aliases: []string{"init"},
		Short:   "Create or update the .env file interactively",
		Long: `Show which configuration files exist, ask for the settings scriptsync needs
and write them to the .env file. Blank answers keep the current value, or a
placeholder when there is none.

Afterwards the OAuth client file and the script ID are checked, the security
check can be run and the remaining steps are listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			envFile, _ := cmd.Flags().GetString(flagEnvFile)
			s := &setupSession{
				in:      bufio.NewReader(cmd.InOrStdin()),
				out:     cmd.OutOrStdout(),
				logger:  a.logger,
				envFile: envFile,
				cfg:     a.cfg,
			}
			return s.run(ctx)
		},
	}
}

type envPrompt struct {
	env      string
	template string
	secret   bool
}

var envPrompts = []envPrompt{
	{env: config.EnvClientID, template: config.TemplateClientID},
	{env: config.EnvClientSecret, template: config.TemplateClientSecret, secret: true},
	{env: config.EnvScriptID, template: config.TemplateScriptID},
	{env: config.EnvRepoURL, template: config.TemplateRepoURL},
	{env: config.EnvBranch, template: config.DefaultBranch},
}

type setupSession struct {
	in      *bufio.Reader
	out     io.Writer
	logger  logging.Logger
	envFile string

	// cfg supplies the credential and token file locations
	cfg *config.Config
}

func (s *setupSession) run(ctx context.Context) error {
	hasCredentials := fileExists(s.cfg.CredentialsFile)

	fmt.Fprintln(s.out, "Current state:")
	fmt.Fprintf(s.out, "  %-20s %s\n", s.envFile, presence(fileExists(s.envFile)))
	fmt.Fprintf(s.out, "  %-20s %s\n", s.cfg.CredentialsFile, presence(hasCredentials))
	fmt.Fprintf(s.out, "  %-20s %s\n\n", s.cfg.TokenFile, presence(fileExists(s.cfg.TokenFile)))

	env, err := s.writeEnvFile()
	if err != nil {
		return err
	}
	cfg := config.FromEnvMap(env)

	fmt.Fprintln(s.out, "\nChecking configuration:")
	if hasCredentials {
		fmt.Fprintf(s.out, "  ok       %s found\n", s.cfg.CredentialsFile)
	} else {
		fmt.Fprintf(s.out, "  missing  %s, create a Desktop app OAuth client in the Google Cloud Console and download it\n", s.cfg.CredentialsFile)
	}
	scriptIDSet := cfg.ScriptID != "" && !strings.Contains(cfg.ScriptID, config.PlaceholderScriptID)
	if scriptIDSet {
		fmt.Fprintln(s.out, "  ok       script ID set")
	} else {
		fmt.Fprintln(s.out, "  missing  script ID, copy it from Apps Script: Project Settings > Script ID")
	}
	if !source.RepoConfigured(cfg.RepoURL) {
		fmt.Fprintf(s.out, "  missing  %s still points at the sample repository\n", config.EnvRepoURL)
	}
	validErr := cfg.Validate()
	if validErr != nil {
		fmt.Fprintf(s.out, "  %v\n", validErr)
	}

	run, err := s.confirm("\nRun the security check now? (y/n): ")
	if err != nil {
		return err
	}
	if run {
		dir := filepath.Dir(s.envFile)
		s.logger.Debug("running security checks", "dir", dir)
		fmt.Fprintln(s.out)
		printSecurityReport(s.out, security.NewAuditor(dir, security.WithLogger(s.logger)).Run(ctx))
	}

	fmt.Fprintln(s.out, "\nNext steps:")
	step := 1
	if !hasCredentials {
		fmt.Fprintf(s.out, "  %d. Enable the Apps Script API, create an OAuth client ID (Desktop app) and save it as %s\n", step, s.cfg.CredentialsFile)
		step++
	}
	if validErr != nil {
		fmt.Fprintf(s.out, "  %d. Fill in the client ID, client secret and script ID in %s\n", step, s.envFile)
		step++
	}
	fmt.Fprintf(s.out, "  %d. Run `scriptsync authorize` to grant access\n", step)
	fmt.Fprintf(s.out, "  %d. Run `scriptsync sync` to upload the scripts\n", step+1)
	return nil
}

// writeEnvFile asks for each setting and writes the env file. It returns the
// resulting variables, or the current ones when the user keeps the file.
func (s *setupSession) writeEnvFile() (map[string]string, error) {
	env, err := config.ReadEnvFile(s.envFile)
	if err != nil {
		return nil, err
	}

	if fileExists(s.envFile) {
		update, err := s.confirm(fmt.Sprintf("Update existing %s? (y/n): ", s.envFile))
		if err != nil {
			return nil, err
		}
		if !update {
			fmt.Fprintf(s.out, "Keeping %s\n", s.envFile)
			return env, nil
		}
	}

	fmt.Fprintln(s.out, "Enter the settings, or press Enter to keep the value shown:")
	for _, p := range envPrompts {
		def := env[p.env]
		if def == "" {
			def = p.template
		}
		shown := def
		if p.secret && def != p.template {
			shown = logging.SanitizeToken(def)
		}

		answer, err := s.ask(fmt.Sprintf("  %s [%s]: ", p.env, shown))
		if err != nil {
			return nil, err
		}
		if answer == "" {
			answer = def
		}
		env[p.env] = answer
	}

	if err := config.WriteEnvFile(s.envFile, env); err != nil {
		return nil, err
	}
	s.logger.Info("wrote env file", "path", s.envFile)
	fmt.Fprintf(s.out, "Wrote %s\n", s.envFile)
	fmt.Fprintln(s.out, "Never commit it: it holds your OAuth client secret.")

	return env, nil
}

// ask prints prompt and reads one line. End of input counts as a blank answer.
func (s *setupSession) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)

	line, err := s.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out)
	}
	return strings.TrimSpace(line), nil
}

func (s *setupSession) confirm(prompt string) (bool, error) {
	answer, err := s.ask(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func presence(ok bool) string {
	if ok {
		return "found"
	}
	return "missing"
}
