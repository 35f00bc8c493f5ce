package source

import (
	"context"
	"errors"
	"io/fs"
	"strings"
)

// Fetcher returns the text of one logical file.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (string, error)
}

// placeholderRepo marks the unedited sample configuration.
const placeholderRepo = "your-username"

// RepoConfigured reports whether repoURL can be used to fetch files.
func RepoConfigured(repoURL string) bool {
	return strings.TrimSpace(repoURL) != "" && !strings.Contains(repoURL, placeholderRepo)
}

// FallbackFetcher tries Primary first and uses Secondary when the primary
// does not have the file.
type FallbackFetcher struct {
	Primary   Fetcher
	Secondary Fetcher
}

// Fetch implements Fetcher.
func (f *FallbackFetcher) Fetch(ctx context.Context, name string) (string, error) {
	content, err := f.Primary.Fetch(ctx, name)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	content, remoteErr := f.Secondary.Fetch(ctx, name)
	if remoteErr != nil {
		return "", errors.Join(err, remoteErr)
	}
	return content, nil
}

// New returns the fetcher for a sync run: the raw endpoint, preceded by the
// local directory when one is given.
func New(repoURL, branch, localDir string, opts ...Option) Fetcher {
	remote := NewRawFetcher(repoURL, branch, opts...)
	if localDir == "" {
		return remote
	}
	return &FallbackFetcher{
		Primary:   NewLocalFetcher(localDir),
		Secondary: remote,
	}
}
