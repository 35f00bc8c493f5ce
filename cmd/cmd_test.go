package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var isolatedEnv = []string{
	"GOOGLE_CLIENT_ID",
	"GOOGLE_CLIENT_SECRET",
	"GOOGLE_SCRIPT_ID",
	"GITHUB_REPO_URL",
	"GITHUB_BRANCH",
	"GOOGLE_CREDENTIALS_FILE",
	"GOOGLE_TOKEN_FILE",
	"GOOGLE_SPREADSHEET_ID",
	"SCRIPTSYNC_LOCAL_DIR",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"METRICS_EXPORTER",
	"TRACING_EXPORTER",
	"PROMETHEUS_PUSHGATEWAY_URL",
}

// isolateEnv unsets the variables scriptsync reads. The previous values are
// restored when the test ends, including anything an env file sets.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range isolatedEnv {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
}

// countingRepo serves every raw file and counts requests.
func countingRepo(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("// source"))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestVersionCmd(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "scriptsync version "+version)
}
