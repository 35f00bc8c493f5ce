package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrSource    = "source"
	attrCode      = "code"
)

// Metrics provides methods for recording observability metrics.
// A nil *Metrics or a zero Metrics records nothing.
type Metrics struct {
	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// OAuth metrics
	oauthAuthTotal         metric.Int64Counter
	oauthTokenRefreshTotal metric.Int64Counter

	// Source fetch metrics
	sourceFetchTotal    metric.Int64Counter
	sourceFetchDuration metric.Float64Histogram
	sourceFetchBytes    metric.Int64Counter

	// Sync metrics
	filesSyncedTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	m.oauthAuthTotal, err = meter.Int64Counter(
		"oauth_auth_total",
		metric.WithDescription("Total number of OAuth credential acquisitions"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_auth_total counter: %w", err)
	}

	m.oauthTokenRefreshTotal, err = meter.Int64Counter(
		"oauth_token_refresh_total",
		metric.WithDescription("Total number of OAuth token refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_refresh_total counter: %w", err)
	}

	m.sourceFetchTotal, err = meter.Int64Counter(
		"source_fetch_total",
		metric.WithDescription("Total number of source file fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create source_fetch_total counter: %w", err)
	}

	m.sourceFetchDuration, err = meter.Float64Histogram(
		"source_fetch_duration_seconds",
		metric.WithDescription("Source file fetch duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create source_fetch_duration_seconds histogram: %w", err)
	}

	m.sourceFetchBytes, err = meter.Int64Counter(
		"source_fetch_bytes_total",
		metric.WithDescription("Total bytes of source content fetched"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create source_fetch_bytes_total counter: %w", err)
	}

	m.filesSyncedTotal, err = meter.Int64Counter(
		"files_synced_total",
		metric.WithDescription("Total number of files processed by a sync run"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create files_synced_total counter: %w", err)
	}

	return m, nil
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration.
//
// Parameters:
//   - service: Google service name (script, sheets, drive)
//   - operation: Operation type (get, get_content, update_content)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)

	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// ObserveGoogleAPI runs fn inside a span and records its duration and outcome.
// attrs are added to the span only, never to metric labels.
func (m *Metrics) ObserveGoogleAPI(ctx context.Context, service, operation string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := StartGoogleAPISpan(ctx, service, operation, attrs...)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	status := StatusSuccess
	if err != nil {
		status = StatusError
		SetSpanError(span, err)
	} else {
		SetSpanSuccess(span)
	}
	m.RecordGoogleAPIOperation(ctx, service, operation, status, time.Since(start))

	return err
}

// RecordOAuthAuth records how credentials were obtained.
// Source is one of the TokenSource* constants, result one of the OAuthResult* constants.
func (m *Metrics) RecordOAuthAuth(ctx context.Context, source, result string) {
	if m == nil || m.oauthAuthTotal == nil {
		return
	}

	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrSource, source),
		attribute.String(attrResult, result),
	))
}

// RecordOAuthTokenRefresh records an OAuth token refresh attempt with result.
func (m *Metrics) RecordOAuthTokenRefresh(ctx context.Context, result string) {
	if m == nil || m.oauthTokenRefreshTotal == nil {
		return
	}

	m.oauthTokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

// RecordSourceFetch records a source fetch. statusCode is 0 when no HTTP
// response was received.
func (m *Metrics) RecordSourceFetch(ctx context.Context, statusCode int, size int64, duration time.Duration) {
	if m == nil || m.sourceFetchTotal == nil || m.sourceFetchDuration == nil {
		return
	}

	status := StatusSuccess
	if statusCode < 200 || statusCode > 299 {
		status = StatusError
	}

	attrs := metric.WithAttributes(
		attribute.String(attrStatus, status),
		attribute.String(attrCode, strconv.Itoa(statusCode)),
	)

	m.sourceFetchTotal.Add(ctx, 1, attrs)
	m.sourceFetchDuration.Record(ctx, duration.Seconds(), attrs)
	if size > 0 && m.sourceFetchBytes != nil {
		m.sourceFetchBytes.Add(ctx, size)
	}
}

// RecordFileSynced records the outcome of one file in a sync run.
// Result is one of the SyncResult* constants.
func (m *Metrics) RecordFileSynced(ctx context.Context, result string) {
	if m == nil || m.filesSyncedTotal == nil {
		return
	}

	m.filesSyncedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}
