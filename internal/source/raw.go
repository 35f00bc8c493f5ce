package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/imroc/req/v3"

	"github.com/teemow/scriptsync/internal/instrumentation"
	"github.com/teemow/scriptsync/internal/logging"
)

// DefaultBranch is used when no branch is configured.
const DefaultBranch = "main"

// UserAgent is sent with every raw file request.
const UserAgent = "scriptsync"

// RawFetcher downloads files from a repository's raw endpoint.
type RawFetcher struct {
	client  *req.Client
	repoURL string
	branch  string
	logger  logging.Logger
	metrics *instrumentation.Metrics
}

// Option configures a RawFetcher.
type Option func(*RawFetcher)

// WithClient replaces the HTTP client.
func WithClient(client *req.Client) Option {
	return func(f *RawFetcher) {
		f.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(f *RawFetcher) {
		f.logger = logger
	}
}

// WithMetrics records fetch metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(f *RawFetcher) {
		f.metrics = m
	}
}

// NewRawFetcher creates a fetcher for repoURL at branch. Requests have no
// timeout of their own and are bounded by the caller's context.
func NewRawFetcher(repoURL, branch string, opts ...Option) *RawFetcher {
	if branch == "" {
		branch = DefaultBranch
	}

	f := &RawFetcher{
		client:  req.C().SetUserAgent(UserAgent).SetTimeout(0),
		repoURL: strings.TrimSuffix(strings.TrimSpace(repoURL), "/"),
		branch:  branch,
		logger:  logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the raw endpoint address of name.
func (f *RawFetcher) URL(name string) string {
	return fmt.Sprintf("%s/raw/%s/%s", f.repoURL, f.branch, name)
}

// Fetch downloads name and returns its body as text.
func (f *RawFetcher) Fetch(ctx context.Context, name string) (string, error) {
	if !RepoConfigured(f.repoURL) {
		return "", ErrRepoNotConfigured
	}

	url := f.URL(name)
	start := time.Now()

	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		f.metrics.RecordSourceFetch(ctx, 0, 0, time.Since(start))
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if !resp.IsSuccessState() {
		f.metrics.RecordSourceFetch(ctx, resp.GetStatusCode(), 0, time.Since(start))
		return "", &StatusError{
			URL:        url,
			StatusCode: resp.GetStatusCode(),
			Status:     resp.Status,
		}
	}

	body := resp.String()
	f.metrics.RecordSourceFetch(ctx, resp.GetStatusCode(), int64(len(body)), time.Since(start))

	f.logger.Debug("fetched file",
		logging.File(name),
		logging.URL(url),
		"size", humanize.Bytes(uint64(len(body))),
		"duration", time.Since(start),
	)

	return body, nil
}
