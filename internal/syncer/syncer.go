package syncer

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/scriptsync/internal/instrumentation"
	"github.com/teemow/scriptsync/internal/logging"
	"github.com/teemow/scriptsync/internal/script"
	"github.com/teemow/scriptsync/internal/source"
)

// Updater writes one file into the remote project.
type Updater interface {
	UpsertFile(ctx context.Context, name, source string) (*script.UpsertResult, error)
}

// FileResult is the outcome for one file.
type FileResult struct {
	Name     string
	Replaced bool
	Size     int
	Duration time.Duration
	Err      error
}

// OK reports whether the file was synced.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// Result summarizes a run. Updated+Failed always equals len(Files).
type Result struct {
	Updated int
	Failed  int
	Files   []FileResult
}

// Syncer copies files from a Fetcher to an Updater.
type Syncer struct {
	fetcher source.Fetcher
	updater Updater
	files   []string
	logger  logging.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithFiles overrides DefaultFiles.
func WithFiles(files []string) Option {
	return func(s *Syncer) {
		s.files = files
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// WithMetrics records per-file metrics and spans.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Syncer) {
		s.metrics = m
	}
}

// New creates a Syncer.
func New(fetcher source.Fetcher, updater Updater, opts ...Option) *Syncer {
	s := &Syncer{
		fetcher: fetcher,
		updater: updater,
		files:   DefaultFiles,
		logger:  logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run syncs every file in order. Per-file errors are recorded in the result,
// never returned; Run stops early only when ctx is cancelled.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	ctx, span := instrumentation.StartSpan(ctx, "sync.run", attribute.Int("files", len(s.files)))
	defer span.End()

	if id := instrumentation.GetTraceID(ctx); id != "" {
		s.logger.Debug("sync run traced", "trace_id", id)
	}

	result := &Result{Files: make([]FileResult, 0, len(s.files))}

	for _, name := range s.files {
		if err := ctx.Err(); err != nil {
			instrumentation.SetSpanError(span, err)
			return result, err
		}

		fr := s.syncFile(ctx, name)
		result.Files = append(result.Files, fr)
		if fr.OK() {
			result.Updated++
		} else {
			result.Failed++
		}
	}

	span.SetAttributes(attribute.Int("updated", result.Updated), attribute.Int("failed", result.Failed))
	return result, nil
}

func (s *Syncer) syncFile(ctx context.Context, name string) FileResult {
	ctx, span := instrumentation.StartFileSpan(ctx, name)
	defer span.End()

	logger := s.logger.With(logging.File(name))
	start := time.Now()
	fr := FileResult{Name: name}

	logger.Info("fetching file")
	content, err := s.fetcher.Fetch(ctx, name)
	if err != nil {
		fr.Err = err
		fr.Duration = time.Since(start)
		s.fail(ctx, logger, span, "fetch failed", err)
		return fr
	}
	fr.Size = len(content)
	instrumentation.AddSpanEvent(span, "fetched", attribute.Int("size", len(content)))

	logger.Info("updating file", "size", humanize.Bytes(uint64(len(content))))
	res, err := s.updater.UpsertFile(ctx, name, content)
	fr.Duration = time.Since(start)
	if err != nil {
		fr.Err = err
		s.fail(ctx, logger, span, "update failed", err)
		return fr
	}
	fr.Replaced = res.Replaced

	outcome := instrumentation.SyncResultAppended
	if res.Replaced {
		outcome = instrumentation.SyncResultReplaced
	}
	span.SetAttributes(attribute.String(instrumentation.SpanAttrResult, outcome))
	instrumentation.SetSpanSuccess(span)
	s.metrics.RecordFileSynced(ctx, outcome)

	logger.Info("updated file",
		"remote_name", res.Name,
		"result", outcome,
		logging.Status(logging.StatusSuccess),
		"duration", fr.Duration,
	)
	return fr
}

func (s *Syncer) fail(ctx context.Context, logger logging.Logger, span trace.Span, msg string, err error) {
	span.SetAttributes(attribute.String(instrumentation.SpanAttrResult, instrumentation.SyncResultFailed))
	instrumentation.SetSpanError(span, err)
	s.metrics.RecordFileSynced(ctx, instrumentation.SyncResultFailed)

	logger.Error(msg, logging.Err(err), logging.Status(logging.StatusError))
}
