// Package telemetry wires OpenTelemetry for the radio service.
// Traces are exported over OTLP gRPC when an endpoint is configured; metrics
// are always collected and exposed in Prometheus format on /metrics.
//
// Usage:
//
//	p, shutdown, err := telemetry.Init(ctx, &telemetry.Config{
//	    ServiceName:    "radio-svc",
//	    ServiceVersion: "1.0.0",
//	    Environment:    "production",
//	    OTLPEndpoint:   "otel-collector:4317",
//	    Enabled:        true,
//	})
//	defer shutdown(context.Background())
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Config holds telemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string // "development", "staging", "production"
	OTLPEndpoint   string // gRPC endpoint, e.g. "otel-collector:4317"
	Enabled        bool
}

// Provider wraps the meter, the optional trace pipeline and the Prometheus
// registry behind /metrics.
type Provider struct {
	meter         metric.Meter
	registry      *promclient.Registry
	traceProvider *sdktrace.TracerProvider
	meterProvider *sdkmetric.MeterProvider
}

// ShutdownFunc flushes and shuts down telemetry providers.
type ShutdownFunc func(context.Context) error

// Init initialises OpenTelemetry trace and metric providers.
// Returns a Provider and a shutdown function that must be deferred.
func Init(ctx context.Context, cfg *Config) (*Provider, ShutdownFunc, error) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "radio-svc"
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
			attribute.String("service.namespace", "listen-stream"),
		),
		resource.WithProcessPID(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("build otel resource: %w", err)
	}

	// Metrics exporter (Prometheus pull) ─────────────────────────────────────
	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricExporter, err := prometheus.New(
		prometheus.WithRegisterer(registry),
		prometheus.WithNamespace(sanitizeName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(metricExporter),
	)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	p := &Provider{
		meter:         meterProvider.Meter(cfg.ServiceName),
		registry:      registry,
		meterProvider: meterProvider,
	}
	shutdowns := []func(context.Context) error{meterProvider.Shutdown}

	if !cfg.Enabled || cfg.OTLPEndpoint == "" {
		return p, joinShutdown(shutdowns), nil
	}

	// gRPC connection to OTel Collector ─────────────────────────────────────
	conn, err := grpc.NewClient(cfg.OTLPEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		_ = meterProvider.Shutdown(ctx)
		return nil, nil, fmt.Errorf("connect to otel collector %s: %w", cfg.OTLPEndpoint, err)
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithGRPCConn(conn),
		otlptracegrpc.WithTimeout(10*time.Second),
	)
	if err != nil {
		_ = conn.Close()
		_ = meterProvider.Shutdown(ctx)
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}

	samplingRate := 0.1
	if cfg.Environment != "production" {
		samplingRate = 1.0
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(512),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(
			sdktrace.ParentBased(sdktrace.TraceIDRatioBased(samplingRate)),
		),
	)
	otel.SetTracerProvider(tracerProvider)

	p.traceProvider = tracerProvider
	shutdowns = append(shutdowns, tracerProvider.Shutdown, func(context.Context) error { return conn.Close() })

	return p, joinShutdown(shutdowns), nil
}

func joinShutdown(fns []func(context.Context) error) ShutdownFunc {
	return func(ctx context.Context) error {
		var errs []error
		for _, fn := range fns {
			if err := fn(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("telemetry shutdown: %w", errors.Join(errs...))
		}
		return nil
	}
}

// ─── Tracer helpers ──────────────────────────────────────────────────────────

// TracingEnabled reports whether spans are exported.
func (p *Provider) TracingEnabled() bool { return p.traceProvider != nil }

// ─── Meter helpers ───────────────────────────────────────────────────────────

// Meter returns the service meter.
func (p *Provider) Meter() metric.Meter { return p.meter }

// MetricsHandler serves the Prometheus registry.
func (p *Provider) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// NewHTTPRequestCounter creates a counter for HTTP requests.
func (p *Provider) NewHTTPRequestCounter() (metric.Int64Counter, error) {
	return p.meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total HTTP requests"),
		metric.WithUnit("{request}"),
	)
}

// NewHTTPDurationHistogram creates a histogram for HTTP request durations.
func (p *Provider) NewHTTPDurationHistogram() (metric.Float64Histogram, error) {
	return p.meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request latency in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0,
		),
	)
}

// NewCacheHitCounter creates hit/miss counters for a cache layer.
func NewCacheHitCounter(meter metric.Meter, layer string) (hit metric.Int64Counter, miss metric.Int64Counter, err error) {
	hit, err = meter.Int64Counter(
		fmt.Sprintf("cache_%s_hits_total", sanitizeName(layer)),
		metric.WithDescription(fmt.Sprintf("Cache hits for %s layer", layer)),
	)
	if err != nil {
		return nil, nil, err
	}
	miss, err = meter.Int64Counter(
		fmt.Sprintf("cache_%s_misses_total", sanitizeName(layer)),
		metric.WithDescription(fmt.Sprintf("Cache misses for %s layer", layer)),
	)
	return hit, miss, err
}

// ─── Context helpers ─────────────────────────────────────────────────────────

// TraceIDFromContext extracts the trace ID string from context.
func TraceIDFromContext(ctx context.Context) string {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// ─── Internal helpers ────────────────────────────────────────────────────────

func sanitizeName(s string) string {
	out := make([]byte, len(s))
	for i := range s {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			out[i] = c
		} else {
			out[i] = '_'
		}
	}
	return string(out)
}
