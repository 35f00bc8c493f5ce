package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teemow/scriptsync/internal/config"
	"github.com/teemow/scriptsync/internal/google"
	"github.com/teemow/scriptsync/internal/instrumentation"
	"github.com/teemow/scriptsync/internal/logging"
	"github.com/teemow/scriptsync/internal/script"
)

// Persistent flag names.
const (
	flagEnvFile     = "env-file"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
	flagScriptID    = "script-id"
	flagRepoURL     = "repo-url"
	flagBranch      = "branch"
	flagLocalDir    = "local-dir"
	flagCredentials = "credentials-file"
	flagTokenFile   = "token-file"

	flagSpreadsheetID = "spreadsheet-id"
)

// Viper keys for settings owned by the CLI itself.
const (
	keyLogLevel  = "log_level"
	keyLogFormat = "log_format"
)

var flagBindings = map[string]string{
	config.KeyScriptID:        flagScriptID,
	config.KeyRepoURL:         flagRepoURL,
	config.KeyBranch:          flagBranch,
	config.KeyLocalDir:        flagLocalDir,
	config.KeyCredentialsFile: flagCredentials,
	config.KeyTokenFile:       flagTokenFile,
	config.KeySpreadsheetID:   flagSpreadsheetID,
	keyLogLevel:               flagLogLevel,
	keyLogFormat:              flagLogFormat,
}

// app holds what every command needs: configuration, logging and
// instrumentation.
type app struct {
	cfg      *config.Config
	logger   logging.Logger
	tokens   *google.FileTokenStore
	provider *instrumentation.Provider
	metrics  *instrumentation.Metrics
}

// newApp loads configuration and sets up logging and instrumentation.
// The caller must call close.
func newApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	envFile, _ := cmd.Flags().GetString(flagEnvFile)

	v := viper.New()
	for key, name := range flagBindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}
	if err := v.BindEnv(keyLogLevel, "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv(keyLogFormat, "LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind LOG_FORMAT: %w", err)
	}

	cfg, err := config.Load(v, envFile)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(v.GetString(keyLogLevel))
	if err != nil {
		return nil, err
	}
	slogger, err := logging.New(logging.Options{
		Level:  level,
		Format: v.GetString(keyLogFormat),
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slogger)
	logger := logging.NewSlogAdapter(logging.WithOperation(slogger, cmd.Name()))

	// Read after the env file so that it can carry instrumentation settings.
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if instrConfig.ServiceInstanceID == "" {
		instrConfig.ServiceInstanceID, _ = os.Hostname()
	}

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		tokens:   google.NewFileTokenStore(cfg.TokenFile),
		provider: provider,
		metrics:  provider.Metrics(),
	}, nil
}

// close pushes the run's metrics and flushes exporters. Failures are logged.
func (a *app) close(ctx context.Context) {
	if !a.provider.Enabled() {
		return
	}

	// The command context may already be cancelled by a signal.
	ctx = context.WithoutCancel(ctx)

	if err := a.provider.Push(ctx); err != nil {
		a.logger.Warn("failed to push metrics", logging.Err(err))
	}
	if err := a.provider.Shutdown(ctx); err != nil {
		a.logger.Warn("error during instrumentation shutdown", logging.Err(err))
	}
}

// credentials builds the credential provider for the configured OAuth client.
// Without scopes the sync scopes are requested.
func (a *app) credentials(cmd *cobra.Command, scopes ...string) (*google.CredentialProvider, error) {
	oauthConfig, err := google.LoadOAuthConfig(a.cfg.CredentialsFile, a.cfg.ClientID, a.cfg.ClientSecret, scopes...)
	if err != nil {
		return nil, err
	}

	logger := a.logger.With(logging.Service("oauth"))
	return google.NewCredentialProvider(
		oauthConfig,
		a.tokens,
		google.NewLoopbackAuthorizer(cmd.OutOrStdout(), logger),
		google.WithLogger(logger),
		google.WithMetrics(a.metrics),
	), nil
}

// scriptClient validates the configuration and returns an authorized client
// for the configured project.
func (a *app) scriptClient(cmd *cobra.Command, scopes ...string) (*script.Client, *google.CredentialProvider, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, nil, err
	}

	creds, err := a.credentials(cmd, scopes...)
	if err != nil {
		return nil, nil, err
	}

	a.logger.Info("authorizing", logging.ScriptID(a.cfg.ScriptID))
	client, err := script.NewClientWithProvider(cmd.Context(), a.cfg.ScriptID, creds)
	if err != nil {
		return nil, nil, err
	}
	client.SetMetrics(a.metrics)

	return client, creds, nil
}
