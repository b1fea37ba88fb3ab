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

	"github.com/kbukum/rpckit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric instrument names.
const (
	MetricCallsTotal   = "rpc.calls.total"
	MetricCallDuration = "rpc.call.duration"
	MetricCallsActive  = "rpc.calls.active"
	MetricErrorsTotal  = "rpc.errors.total"
)

// Metrics holds the instruments recorded around procedure calls.
type Metrics struct {
	callsTotal   metric.Int64Counter
	callDuration metric.Float64Histogram
	callsActive  metric.Int64UpDownCounter
	errorsTotal  metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	callsTotal, err := meter.Int64Counter(MetricCallsTotal,
		metric.WithDescription("Total number of procedure calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricCallsTotal, err)
	}

	callDuration, err := meter.Float64Histogram(MetricCallDuration,
		metric.WithDescription("Duration of procedure calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricCallDuration, err)
	}

	callsActive, err := meter.Int64UpDownCounter(MetricCallsActive,
		metric.WithDescription("Number of procedure calls in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricCallsActive, err)
	}

	errorsTotal, err := meter.Int64Counter(MetricErrorsTotal,
		metric.WithDescription("Failed procedure calls by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrorsTotal, err)
	}

	return &Metrics{
		callsTotal:   callsTotal,
		callDuration: callDuration,
		callsActive:  callsActive,
		errorsTotal:  errorsTotal,
	}, nil
}

// CallStarted increments the in-flight gauge.
func (m *Metrics) CallStarted(ctx context.Context, path, procedureType string) {
	m.callsActive.Add(ctx, 1, metric.WithAttributes(
		attribute.String("path", path),
		attribute.String("type", procedureType),
	))
}

// CallFinished decrements the in-flight gauge and records the call.
// An empty errorCode marks a successful call.
func (m *Metrics) CallFinished(ctx context.Context, path, procedureType, errorCode string, duration time.Duration) {
	base := []attribute.KeyValue{
		attribute.String("path", path),
		attribute.String("type", procedureType),
	}
	status := "ok"
	if errorCode != "" {
		status = "error"
		m.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("path", path),
			attribute.String("code", errorCode),
		))
	}

	m.callsActive.Add(ctx, -1, metric.WithAttributes(base...))
	m.callsTotal.Add(ctx, 1, metric.WithAttributes(append(base, attribute.String("status", status))...))
	m.callDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(base...))
}
