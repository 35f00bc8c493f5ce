package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Values written for settings left blank by the setup command. Validate
// rejects the credential ones.
const (
	TemplateClientID     = PlaceholderClientID + "_here"
	TemplateClientSecret = PlaceholderClientSecret + "_here"
	TemplateScriptID     = PlaceholderScriptID + "_here"
	TemplateRepoURL      = "https://github.com/your-username/your-repo"
)

// ReadEnvFile returns the variables defined in a dotenv file without touching
// the process environment. A missing file yields an empty map.
func ReadEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return env, nil
}

// WriteEnvFile writes env to path, readable only by the owner.
func WriteEnvFile(path string, env map[string]string) error {
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("failed to write env file %s: %w", path, err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to restrict env file permissions: %w", err)
		}
	}
	return nil
}

// FromEnvMap builds a Config from dotenv variables, applying the same
// defaults as Load.
func FromEnvMap(env map[string]string) *Config {
	v := viper.New()
	v.SetDefault(KeyBranch, DefaultBranch)
	v.SetDefault(KeyCredentialsFile, DefaultCredentialsFile)
	v.SetDefault(KeyTokenFile, DefaultTokenFile)

	for key, name := range envBindings {
		if value, ok := env[name]; ok {
			v.Set(key, value)
		}
	}
	return FromViper(v)
}
