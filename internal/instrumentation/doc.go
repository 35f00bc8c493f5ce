// Package instrumentation provides OpenTelemetry instrumentation for scriptsync.
//
// A sync run is short-lived, so metrics are either exported periodically
// (otlp, stdout) while the run lasts or gathered into a dedicated Prometheus
// registry and pushed to a Pushgateway when the run finishes.
//
// # Metrics
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// OAuth Metrics:
//   - oauth_auth_total: Counter of credential acquisitions by source (cache, refresh, interactive) and result
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// Source Metrics:
//   - source_fetch_total: Counter of raw file fetches by status and HTTP code
//   - source_fetch_duration_seconds: Histogram of fetch durations
//   - source_fetch_bytes_total: Counter of fetched bytes
//
// Sync Metrics:
//   - files_synced_total: Counter of processed files by result (replaced, appended, failed)
//
// # Tracing
//
// Spans are created for each synced file (sync.file) and for each Google API
// call (google.<service>.<operation>).
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: none, prometheus, otlp, stdout (default: none)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//   - OTEL_SERVICE_NAME: Service name (default: scriptsync)
//   - PROMETHEUS_PUSHGATEWAY_URL: Pushgateway receiving metrics from the prometheus exporter
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	err = provider.Metrics().ObserveGoogleAPI(ctx, instrumentation.ServiceScript,
//		instrumentation.OperationGetContent, func(ctx context.Context) error {
//			_, err := svc.Projects.GetContent(scriptID).Context(ctx).Do()
//			return err
//		})
//
//	// Before exit
//	_ = provider.Push(ctx)
package instrumentation
