package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variable names.
const (
	EnvClientID        = "GOOGLE_CLIENT_ID"
	EnvClientSecret    = "GOOGLE_CLIENT_SECRET"
	EnvScriptID        = "GOOGLE_SCRIPT_ID"
	EnvRepoURL         = "GITHUB_REPO_URL"
	EnvBranch          = "GITHUB_BRANCH"
	EnvCredentialsFile = "GOOGLE_CREDENTIALS_FILE"
	EnvTokenFile       = "GOOGLE_TOKEN_FILE"
	EnvSpreadsheetID   = "GOOGLE_SPREADSHEET_ID"
	EnvLocalDir        = "SCRIPTSYNC_LOCAL_DIR"
)

// Viper keys. Flags bind to the same keys.
const (
	KeyClientID        = "client_id"
	KeyClientSecret    = "client_secret"
	KeyScriptID        = "script_id"
	KeyRepoURL         = "repo_url"
	KeyBranch          = "branch"
	KeyCredentialsFile = "credentials_file"
	KeyTokenFile       = "token_file"
	KeySpreadsheetID   = "spreadsheet_id"
	KeyLocalDir        = "local_dir"
)

// Defaults.
const (
	DefaultEnvFile         = ".env"
	DefaultBranch          = "main"
	DefaultCredentialsFile = "credentials.json"
	DefaultTokenFile       = "token.json"
)

// Placeholder markers from the example .env file.
const (
	PlaceholderClientID     = "your_client_id"
	PlaceholderClientSecret = "your_client_secret"
	PlaceholderScriptID     = "your_script_id"
)

var (
	// ErrMissingConfig is returned when a required value is unset.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrPlaceholder is returned when a required value still holds a placeholder.
	ErrPlaceholder = errors.New("placeholder values in configuration")
)

var envBindings = map[string]string{
	KeyClientID:        EnvClientID,
	KeyClientSecret:    EnvClientSecret,
	KeyScriptID:        EnvScriptID,
	KeyRepoURL:         EnvRepoURL,
	KeyBranch:          EnvBranch,
	KeyCredentialsFile: EnvCredentialsFile,
	KeyTokenFile:       EnvTokenFile,
	KeySpreadsheetID:   EnvSpreadsheetID,
	KeyLocalDir:        EnvLocalDir,
}

// Config holds the resolved settings for a run.
type Config struct {
	ClientID     string
	ClientSecret string
	ScriptID     string

	// RepoURL is the web URL of the source repository, e.g.
	// https://github.com/owner/repo. Raw files are read from
	// {RepoURL}/raw/{Branch}/{name}.
	RepoURL string
	Branch  string

	CredentialsFile string
	TokenFile       string

	// SpreadsheetID is only needed by the sheets inspection command.
	SpreadsheetID string

	// LocalDir, when set, is searched for each file before the repository.
	LocalDir string
}

// Bind registers defaults and environment bindings on v.
func Bind(v *viper.Viper) error {
	v.SetDefault(KeyBranch, DefaultBranch)
	v.SetDefault(KeyCredentialsFile, DefaultCredentialsFile)
	v.SetDefault(KeyTokenFile, DefaultTokenFile)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

// LoadEnvFile merges a dotenv file into the process environment. Variables
// that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Load reads envFile and resolves a Config from v.
func Load(v *viper.Viper, envFile string) (*Config, error) {
	if err := LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	if err := Bind(v); err != nil {
		return nil, err
	}
	return FromViper(v), nil
}

// FromViper builds a Config from an already bound viper instance.
func FromViper(v *viper.Viper) *Config {
	get := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg := &Config{
		ClientID:        get(KeyClientID),
		ClientSecret:    get(KeyClientSecret),
		ScriptID:        get(KeyScriptID),
		RepoURL:         strings.TrimRight(get(KeyRepoURL), "/"),
		Branch:          get(KeyBranch),
		CredentialsFile: get(KeyCredentialsFile),
		TokenFile:       get(KeyTokenFile),
		SpreadsheetID:   get(KeySpreadsheetID),
		LocalDir:        get(KeyLocalDir),
	}
	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
	}
	return cfg
}

// Validate checks that the required values are set and are not placeholders.
func (c *Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if c.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if c.ScriptID == "" {
		missing = append(missing, EnvScriptID)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not set, check the .env file", ErrMissingConfig, strings.Join(missing, ", "))
	}

	placeholders := []struct {
		value  string
		marker string
		env    string
	}{
		{c.ClientID, PlaceholderClientID, EnvClientID},
		{c.ClientSecret, PlaceholderClientSecret, EnvClientSecret},
		{c.ScriptID, PlaceholderScriptID, EnvScriptID},
	}
	for _, p := range placeholders {
		if strings.Contains(p.value, p.marker) {
			return fmt.Errorf("%w: %s, set real credentials in the .env file", ErrPlaceholder, p.env)
		}
	}

	return nil
}

// ProjectURL returns the Apps Script editor URL for the configured project.
func (c *Config) ProjectURL() string {
	return "https://script.google.com/d/" + c.ScriptID + "/edit"
}
