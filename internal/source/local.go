package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalFetcher reads files from a directory on disk.
type LocalFetcher struct {
	dir string
}

// NewLocalFetcher returns a fetcher rooted at dir.
func NewLocalFetcher(dir string) *LocalFetcher {
	return &LocalFetcher{dir: dir}
}

// Fetch reads dir/name. A missing file wraps fs.ErrNotExist.
func (f *LocalFetcher) Fetch(_ context.Context, name string) (string, error) {
	if filepath.Base(name) != name {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	b, err := os.ReadFile(filepath.Join(f.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to read local file: %w", err)
	}
	return string(b), nil
}
