package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const meterName = "commandcentre"

// ShutdownFunc releases telemetry resources.
type ShutdownFunc func(ctx context.Context) error

// Setup initializes OpenTelemetry with a Prometheus exporter. serviceName is
// attached as the service.name resource attribute, exposed as target_info.
// Returns a shutdown function that must be called on exit.
func Setup(ctx context.Context, serviceName string) (ShutdownFunc, error) {
	res, err := resource.New(ctx, resource.WithAttributes(attribute.String("service.name", serviceName)))
	if err != nil {
		return nil, fmt.Errorf("building telemetry resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	return provider.Shutdown, nil
}

// MetricsHandler returns an http.Handler that serves Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// Metrics holds all OTel instruments for the Command Centre service.
// Every Record method is safe to call on a nil receiver.
type Metrics struct {
	httpRequestsTotal       otelmetric.Int64Counter
	httpRequestDuration     otelmetric.Float64Histogram
	authValidationsTotal    otelmetric.Int64Counter
	authzDecisionsTotal     otelmetric.Int64Counter
	departmentChecksTotal   otelmetric.Int64Counter
	sessionLookupsTotal     otelmetric.Int64Counter
	rateLimitDecisionsTotal otelmetric.Int64Counter
	proxyRequestsTotal      otelmetric.Int64Counter
	proxyDuration           otelmetric.Float64Histogram
}

// NewMetrics creates and registers all service metrics.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	latencyBuckets := otelmetric.WithExplicitBucketBoundaries(
		0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0,
	)

	if m.httpRequestsTotal, err = meter.Int64Counter("commandcentre_http_requests_total",
		otelmetric.WithDescription("Total HTTP requests")); err != nil {
		return nil, fmt.Errorf("creating http_requests_total: %w", err)
	}
	if m.httpRequestDuration, err = meter.Float64Histogram("commandcentre_http_request_duration_seconds",
		otelmetric.WithDescription("HTTP request duration"), latencyBuckets); err != nil {
		return nil, fmt.Errorf("creating http_request_duration: %w", err)
	}
	if m.authValidationsTotal, err = meter.Int64Counter("commandcentre_auth_validations_total",
		otelmetric.WithDescription("Total bearer token validations")); err != nil {
		return nil, fmt.Errorf("creating auth_validations_total: %w", err)
	}
	if m.authzDecisionsTotal, err = meter.Int64Counter("commandcentre_authz_decisions_total",
		otelmetric.WithDescription("Total enforcement gate decisions")); err != nil {
		return nil, fmt.Errorf("creating authz_decisions_total: %w", err)
	}
	if m.departmentChecksTotal, err = meter.Int64Counter("commandcentre_department_checks_total",
		otelmetric.WithDescription("Total route guard department checks")); err != nil {
		return nil, fmt.Errorf("creating department_checks_total: %w", err)
	}
	if m.sessionLookupsTotal, err = meter.Int64Counter("commandcentre_session_lookups_total",
		otelmetric.WithDescription("Total session snapshot lookups")); err != nil {
		return nil, fmt.Errorf("creating session_lookups_total: %w", err)
	}
	if m.rateLimitDecisionsTotal, err = meter.Int64Counter("commandcentre_ratelimit_decisions_total",
		otelmetric.WithDescription("Total rate limit decisions")); err != nil {
		return nil, fmt.Errorf("creating ratelimit_decisions_total: %w", err)
	}
	if m.proxyRequestsTotal, err = meter.Int64Counter("commandcentre_proxy_requests_total",
		otelmetric.WithDescription("Total requests proxied to the records backend")); err != nil {
		return nil, fmt.Errorf("creating proxy_requests_total: %w", err)
	}
	if m.proxyDuration, err = meter.Float64Histogram("commandcentre_proxy_duration_seconds",
		otelmetric.WithDescription("Proxy request duration"), latencyBuckets); err != nil {
		return nil, fmt.Errorf("creating proxy_duration: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request metric.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, durationSec float64) {
	if m == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		methodAttr(method),
		pathAttr(path),
		statusAttr(status),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, durationSec, attrs)
}

// RecordAuthValidation records a bearer token validation result.
func (m *Metrics) RecordAuthValidation(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.authValidationsTotal.Add(ctx, 1, otelmetric.WithAttributes(resultAttr(result)))
}

// RecordAuthzDecision records an enforcement gate outcome
// ("allowed", "unauthenticated" or "forbidden").
func (m *Metrics) RecordAuthzDecision(ctx context.Context, quantifier, result string) {
	if m == nil {
		return
	}
	m.authzDecisionsTotal.Add(ctx, 1, otelmetric.WithAttributes(
		quantifierAttr(quantifier),
		resultAttr(result),
	))
}

// RecordDepartmentCheck records a route guard decision for a department.
func (m *Metrics) RecordDepartmentCheck(ctx context.Context, department, result string) {
	if m == nil {
		return
	}
	m.departmentChecksTotal.Add(ctx, 1, otelmetric.WithAttributes(
		departmentAttr(department),
		resultAttr(result),
	))
}

// RecordSessionLookup records a session store lookup ("hit", "miss" or "error").
func (m *Metrics) RecordSessionLookup(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.sessionLookupsTotal.Add(ctx, 1, otelmetric.WithAttributes(resultAttr(result)))
}

// RecordRateLimitDecision records a rate limit decision.
func (m *Metrics) RecordRateLimitDecision(ctx context.Context, keyKind, result string) {
	if m == nil {
		return
	}
	m.rateLimitDecisionsTotal.Add(ctx, 1, otelmetric.WithAttributes(
		keyKindAttr(keyKind),
		resultAttr(result),
	))
}

// RecordProxyRequest records a request proxied to the records backend.
func (m *Metrics) RecordProxyRequest(ctx context.Context, backend string, status int, durationSec float64) {
	if m == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		backendAttr(backend),
		statusAttr(status),
	)
	m.proxyRequestsTotal.Add(ctx, 1, attrs)
	m.proxyDuration.Record(ctx, durationSec, attrs)
}
