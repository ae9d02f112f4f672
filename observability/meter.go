package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metric names.
const (
	MetricSessions        = "seqkit.sessions"
	MetricSessionsActive  = "seqkit.sessions.active"
	MetricSessionDuration = "seqkit.session.duration"
	MetricItems           = "seqkit.items"
	MetricErrors          = "seqkit.errors"
	MetricRequests        = "seqkit.requests"
	MetricRequestDuration = "seqkit.request.duration"
)

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The caller shuts the provider down on exit.
func InitMeter(ctx context.Context, cfg *Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the seqkit meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the instruments for sequence sessions and HTTP requests.
type Metrics struct {
	sessions        metric.Int64Counter
	sessionsActive  metric.Int64UpDownCounter
	sessionDuration metric.Float64Histogram
	items           metric.Int64Counter
	errors          metric.Int64Counter
	requests        metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err error

	if m.sessions, err = meter.Int64Counter(MetricSessions,
		metric.WithDescription("Enumerations finished, by sequence and status")); err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricSessions, err)
	}
	if m.sessionsActive, err = meter.Int64UpDownCounter(MetricSessionsActive,
		metric.WithDescription("Enumerations started and not yet finished")); err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricSessionsActive, err)
	}
	if m.sessionDuration, err = meter.Float64Histogram(MetricSessionDuration,
		metric.WithDescription("Time from first pull to end of an enumeration"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricSessionDuration, err)
	}
	if m.items, err = meter.Int64Counter(MetricItems,
		metric.WithDescription("Items produced, by sequence")); err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricItems, err)
	}
	if m.errors, err = meter.Int64Counter(MetricErrors,
		metric.WithDescription("Failed enumerations and requests, by component")); err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrors, err)
	}
	if m.requests, err = meter.Int64Counter(MetricRequests,
		metric.WithDescription("HTTP requests, by route and status")); err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRequests, err)
	}
	if m.requestDuration, err = meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRequestDuration, err)
	}
	return &m, nil
}

// RecordSessionStart counts an enumeration as active.
func (m *Metrics) RecordSessionStart(ctx context.Context, sequence string) {
	m.sessionsActive.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrSequence, sequence)))
}

// RecordSessionEnd records a finished enumeration.
func (m *Metrics) RecordSessionEnd(ctx context.Context, sequence, status string, items int, duration time.Duration) {
	seqAttr := attribute.String(AttrSequence, sequence)
	m.sessionsActive.Add(ctx, -1, metric.WithAttributes(seqAttr))
	m.sessions.Add(ctx, 1, metric.WithAttributes(seqAttr, attribute.String(AttrStatus, status)))
	m.items.Add(ctx, int64(items), metric.WithAttributes(seqAttr))
	m.sessionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(seqAttr))
	if status == StatusError {
		m.RecordError(ctx, "sequence", sequence)
	}
}

// RecordRequest records a completed HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	routeAttr := attribute.String("http.route", route)
	m.requests.Add(ctx, 1, metric.WithAttributes(routeAttr, attribute.Int("http.status_code", status)))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(routeAttr))
	if status >= 500 {
		m.RecordError(ctx, "server", route)
	}
}

// RecordError counts a failure in component.
func (m *Metrics) RecordError(ctx context.Context, component, name string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("name", name),
	))
}
