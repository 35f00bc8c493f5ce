package script

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	script "google.golang.org/api/script/v1"
)

// fakeScriptAPI serves the subset of the Apps Script REST API the client uses.
type fakeScriptAPI struct {
	*httptest.Server

	mu       sync.Mutex
	scriptID string
	files    []*script.File
	project  *script.Project
	gets     int
	puts     int
	failPut  bool
	failGet  int
	lastPut  []*script.File
}

func newFakeScriptAPI(t *testing.T, scriptID string, files ...*script.File) *fakeScriptAPI {
	t.Helper()

	f := &fakeScriptAPI{scriptID: scriptID, files: files}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeScriptAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	contentPath := "/v1/projects/" + f.scriptID + "/content"
	projectPath := "/v1/projects/" + f.scriptID

	switch {
	case r.Method == http.MethodGet && r.URL.Path == contentPath:
		f.gets++
		if f.failGet > 0 {
			writeAPIError(w, f.failGet)
			return
		}
		writeJSON(w, &script.Content{ScriptId: f.scriptID, Files: f.files})

	case r.Method == http.MethodPut && r.URL.Path == contentPath:
		f.puts++
		if f.failPut {
			writeAPIError(w, http.StatusInternalServerError)
			return
		}
		var content script.Content
		if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
			writeAPIError(w, http.StatusBadRequest)
			return
		}
		f.files = content.Files
		f.lastPut = content.Files
		writeJSON(w, &content)

	case r.Method == http.MethodGet && r.URL.Path == projectPath && f.project != nil:
		writeJSON(w, f.project)

	case strings.HasPrefix(r.URL.Path, "/v1/projects/"):
		writeAPIError(w, http.StatusNotFound)

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeScriptAPI) configure(fn func(f *fakeScriptAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeScriptAPI) submitted() []*script.File {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPut
}

func (f *fakeScriptAPI) counts() (gets, puts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets, f.puts
}

func (f *fakeScriptAPI) client(t *testing.T) *Client {
	t.Helper()

	c, err := NewClient(context.Background(), f.scriptID,
		option.WithEndpoint(f.URL+"/"),
		option.WithHTTPClient(f.Server.Client()),
	)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": http.StatusText(code),
		},
	})
}
