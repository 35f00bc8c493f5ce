package google

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeTokenEndpoint serves the OAuth2 token endpoint for refresh and code
// exchange requests and remembers what it was asked.
type fakeTokenEndpoint struct {
	*httptest.Server

	mu       sync.Mutex
	grants   []string
	verifier string
	failAll  bool
}

func newFakeTokenEndpoint(t *testing.T) *fakeTokenEndpoint {
	t.Helper()

	f := &fakeTokenEndpoint{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		grant := r.PostForm.Get("grant_type")
		f.grants = append(f.grants, grant)
		if v := r.PostForm.Get("code_verifier"); v != "" {
			f.verifier = v
		}
		fail := f.failAll
		f.mu.Unlock()

		if fail {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}

		resp := map[string]interface{}{
			"token_type": "Bearer",
			"expires_in": 3600,
		}
		switch grant {
		case "refresh_token":
			resp["access_token"] = "refreshed-access"
		case "authorization_code":
			if r.PostForm.Get("code") != "good-code" {
				http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
				return
			}
			resp["access_token"] = "fresh-access"
			resp["refresh_token"] = "fresh-refresh"
			resp["scope"] = strings.Join(SyncScopes, " ")
		default:
			http.Error(w, "unsupported grant", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(f.Close)

	return f
}

func (f *fakeTokenEndpoint) Grants() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.grants...)
}

func (f *fakeTokenEndpoint) Verifier() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verifier
}

func (f *fakeTokenEndpoint) FailAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = true
}

// writeCredentials writes an installed-app client secret file pointing at tokenURL.
func writeCredentials(t *testing.T, dir, tokenURL string) string {
	t.Helper()

	creds := map[string]interface{}{
		"installed": map[string]interface{}{
			"client_id":     "file-client-id",
			"client_secret": "file-client-secret",
			"auth_uri":      "https://accounts.example.test/o/oauth2/auth",
			"token_uri":     tokenURL,
			"redirect_uris": []string{"http://localhost"},
		},
	}

	b, err := json.Marshal(creds)
	require.NoError(t, err)

	path := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(path, b, 0600))
	return path
}
