package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFetcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Utils.gs"), []byte("// utils"), 0644))

	f := NewLocalFetcher(dir)

	content, err := f.Fetch(context.Background(), "Utils.gs")
	require.NoError(t, err)
	assert.Equal(t, "// utils", content)

	_, err = f.Fetch(context.Background(), "Main.gs")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = f.Fetch(context.Background(), "../secret.gs")
	assert.Error(t, err)
}

func TestNew_LocalFirst(t *testing.T) {
	repo := newFakeRepo(t, map[string]string{
		"/raw/main/Utils.gs": "// remote utils",
		"/raw/main/Main.gs":  "// remote main",
	})

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Utils.gs"), []byte("// local utils"), 0644))

	f := New(repo.URL, "main", dir)

	content, err := f.Fetch(context.Background(), "Utils.gs")
	require.NoError(t, err)
	assert.Equal(t, "// local utils", content)
	assert.Zero(t, repo.hits.Load(), "local file must win")

	content, err = f.Fetch(context.Background(), "Main.gs")
	require.NoError(t, err)
	assert.Equal(t, "// remote main", content)
	assert.Equal(t, int32(1), repo.hits.Load())
}

func TestNew_BothMissing(t *testing.T) {
	repo := newFakeRepo(t, nil)

	f := New(repo.URL, "main", t.TempDir())
	_, err := f.Fetch(context.Background(), "Main.gs")
	require.Error(t, err)

	var statusErr *StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNew_WithoutLocalDir(t *testing.T) {
	f := New("https://github.com/acme/ledger", "main", "")
	_, ok := f.(*RawFetcher)
	assert.True(t, ok)
}

type failingFetcher struct{ err error }

func (f failingFetcher) Fetch(context.Context, string) (string, error) { return "", f.err }

func TestFallbackFetcher_PrimaryErrorNotMissing(t *testing.T) {
	boom := errors.New("permission denied")
	secondary := failingFetcher{err: errors.New("must not be called")}

	f := &FallbackFetcher{Primary: failingFetcher{err: boom}, Secondary: secondary}
	_, err := f.Fetch(context.Background(), "Main.gs")
	assert.ErrorIs(t, err, boom)
}
