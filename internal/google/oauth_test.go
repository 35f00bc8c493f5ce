package google

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestLoadOAuthConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeCredentials(t, dir, "https://oauth2.example.test/token")

	config, err := LoadOAuthConfig(path, "", "")
	require.NoError(t, err)

	assert.Equal(t, "file-client-id", config.ClientID)
	assert.Equal(t, "file-client-secret", config.ClientSecret)
	assert.Equal(t, "https://oauth2.example.test/token", config.Endpoint.TokenURL)
	assert.Equal(t, SyncScopes, config.Scopes)
}

func TestLoadOAuthConfig_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := writeCredentials(t, dir, "https://oauth2.example.test/token")

	config, err := LoadOAuthConfig(path, "env-id", "env-secret", ScriptProjectsScope)
	require.NoError(t, err)

	assert.Equal(t, "env-id", config.ClientID)
	assert.Equal(t, "env-secret", config.ClientSecret)
	assert.Equal(t, []string{ScriptProjectsScope}, config.Scopes)
}

func TestLoadOAuthConfig_MissingFile(t *testing.T) {
	_, err := LoadOAuthConfig(filepath.Join(t.TempDir(), "nope.json"), "id", "secret")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCredentialsFileMissing)
}

func TestLoadOAuthConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	require.NoError(t, writeFile(path, "{not json"))

	_, err := LoadOAuthConfig(path, "", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialsFileMissing)
}

func TestNewHTTPClient_ForcesHTTP1(t *testing.T) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc"})
	client := NewHTTPClient(context.Background(), ts)

	transport, ok := client.Transport.(*oauth2.Transport)
	require.True(t, ok)

	base, ok := transport.Base.(*http.Transport)
	require.True(t, ok)
	assert.False(t, base.ForceAttemptHTTP2)
}

func TestScopeSets(t *testing.T) {
	assert.Equal(t, []string{ScriptProjectsScope, DriveFileScope}, SyncScopes)
	assert.Equal(t, []string{ScriptProjectsScope, DriveFileScope, DriveMetadataReadonlyScope}, InfoScopes)
	assert.Equal(t, []string{SpreadsheetsReadonlyScope}, SheetsScopes)
	assert.NotContains(t, SyncScopes, SpreadsheetsReadonlyScope)
}

func TestMissingScopes(t *testing.T) {
	granted := (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]interface{}{
		"scope": ScriptProjectsScope + " " + DriveFileScope,
	})

	scopes, ok := GrantedScopes(granted)
	require.True(t, ok)
	assert.Equal(t, SyncScopes, scopes)

	assert.Empty(t, missingScopes(granted, SyncScopes))
	assert.Equal(t, []string{DriveMetadataReadonlyScope}, missingScopes(granted, InfoScopes))

	unknown := &oauth2.Token{AccessToken: "a"}
	_, ok = GrantedScopes(unknown)
	assert.False(t, ok)
	assert.Empty(t, missingScopes(unknown, SheetsScopes), "tokens without scope information are accepted")
}
