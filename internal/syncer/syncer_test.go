package syncer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/scriptsync/internal/logging"
	"github.com/teemow/scriptsync/internal/script"
	"github.com/teemow/scriptsync/internal/source"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if err := f.fail[name]; err != nil {
		return "", err
	}
	return "// " + name, nil
}

type fakeUpdater struct {
	mu       sync.Mutex
	calls    []string
	contents map[string]string
	fail     map[string]error
	existing map[string]bool
}

func (u *fakeUpdater) UpsertFile(_ context.Context, name, content string) (*script.UpsertResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, name)
	if err := u.fail[name]; err != nil {
		return nil, err
	}
	if u.contents == nil {
		u.contents = map[string]string{}
	}
	u.contents[name] = content

	remote, kind := script.RemoteName(name)
	return &script.UpsertResult{Name: remote, Kind: kind, Replaced: u.existing[remote]}, nil
}

func testLogger(buf *bytes.Buffer) logging.Logger {
	return logging.NewSlogAdapter(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestRun_AllSucceed(t *testing.T) {
	fetcher := &fakeFetcher{}
	updater := &fakeUpdater{existing: map[string]bool{"Config": true}}

	result, err := New(fetcher, updater, WithLogger(testLogger(&bytes.Buffer{}))).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, len(DefaultFiles), result.Updated)
	assert.Zero(t, result.Failed)
	assert.Equal(t, DefaultFiles, fetcher.calls, "files are processed in order")
	assert.Equal(t, DefaultFiles, updater.calls)
	assert.Equal(t, "// Utils.gs", updater.contents["Utils.gs"])

	require.Len(t, result.Files, len(DefaultFiles))
	assert.True(t, result.Files[0].Replaced)
	assert.False(t, result.Files[1].Replaced)
}

func TestRun_ContinuesAfterFailures(t *testing.T) {
	files := []string{"Config.gs", "Utils.gs", "Main.gs", "Triggers.gs"}
	fetcher := &fakeFetcher{fail: map[string]error{
		"Utils.gs": &source.StatusError{URL: "x", StatusCode: 404, Status: "404 Not Found"},
	}}
	updater := &fakeUpdater{fail: map[string]error{
		"Main.gs": errors.New("quota exceeded"),
	}}

	var logs bytes.Buffer
	result, err := New(fetcher, updater, WithFiles(files), WithLogger(testLogger(&logs))).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, len(files), result.Updated+result.Failed)

	// One fetch per file, one update per fetched file, even after a failed update
	assert.Equal(t, files, fetcher.calls)
	assert.Equal(t, []string{"Config.gs", "Main.gs", "Triggers.gs"}, updater.calls)

	var statusErr *source.StatusError
	assert.True(t, errors.As(result.Files[1].Err, &statusErr))
	assert.EqualError(t, result.Files[2].Err, "quota exceeded")
	assert.True(t, result.Files[3].OK())

	assert.Contains(t, logs.String(), `"file":"Utils.gs"`)
	assert.Contains(t, logs.String(), "quota exceeded")
}

func TestRun_AllFail(t *testing.T) {
	boom := errors.New("down")
	fetcher := &fakeFetcher{fail: map[string]error{}}
	for _, f := range DefaultFiles {
		fetcher.fail[f] = boom
	}
	updater := &fakeUpdater{}

	result, err := New(fetcher, updater, WithLogger(testLogger(&bytes.Buffer{}))).Run(context.Background())
	require.NoError(t, err, "per-file failures are not fatal")

	assert.Zero(t, result.Updated)
	assert.Equal(t, len(DefaultFiles), result.Failed)
	assert.Len(t, fetcher.calls, len(DefaultFiles))
	assert.Empty(t, updater.calls)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{}
	result, err := New(fetcher, &fakeUpdater{}, WithLogger(testLogger(&bytes.Buffer{}))).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Files)
	assert.Empty(t, fetcher.calls)
}

func TestRun_RawFetcherOneGetPerFile(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]int{}

	repo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()

		if strings.HasSuffix(r.URL.Path, "/Notifications.gs") {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("// remote"))
	}))
	defer repo.Close()

	updater := &fakeUpdater{fail: map[string]error{"Config.gs": errors.New("conflict")}}
	fetcher := source.NewRawFetcher(repo.URL, "main")

	result, err := New(fetcher, updater, WithLogger(testLogger(&bytes.Buffer{}))).Run(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	for _, name := range DefaultFiles {
		assert.Equal(t, 1, hits["/raw/main/"+name], "exactly one GET for %s", name)
	}
	assert.Len(t, updater.calls, len(DefaultFiles)-1)
	assert.Equal(t, len(DefaultFiles)-2, result.Updated)
	assert.Equal(t, 2, result.Failed)
}

func TestDefaultFiles(t *testing.T) {
	assert.Len(t, DefaultFiles, 14)
	assert.Equal(t, "Config.gs", DefaultFiles[0])
	assert.Equal(t, "OptimizedSetup.gs", DefaultFiles[13])
}
