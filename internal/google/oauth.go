package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrCredentialsFileMissing is returned when the OAuth client secret file does not exist.
var ErrCredentialsFileMissing = errors.New("credentials file not found")

// LoadOAuthConfig reads a Google client secret file ("installed" or "web"
// application) and returns the OAuth2 configuration for the given scopes,
// SyncScopes when none are given.
// Non-empty clientID and clientSecret override the values in the file.
func LoadOAuthConfig(credentialsFile, clientID, clientSecret string, scopes ...string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (download it from the Google Cloud Console)", ErrCredentialsFileMissing, credentialsFile)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	if len(scopes) == 0 {
		scopes = SyncScopes
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", credentialsFile, err)
	}

	if clientID != "" {
		config.ClientID = clientID
	}
	if clientSecret != "" {
		config.ClientSecret = clientSecret
	}

	return config, nil
}

// NewHTTPClient returns an HTTP client authenticating with ts.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		}
	}

	return client
}
