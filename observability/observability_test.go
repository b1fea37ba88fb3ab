package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %v", cfg.SampleRate)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.Interval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{SampleRate: 1}, false},
		{"enabled with name", Config{ServiceName: "svc", Tracing: true, SampleRate: 0.5}, false},
		{"enabled without name", Config{Metrics: true, SampleRate: 1}, true},
		{"bad sample rate", Config{SampleRate: 2}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("wantErr=%v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSetup_NothingEnabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestSamplerFor(t *testing.T) {
	if samplerFor(1).Description() != sdktrace.AlwaysSample().Description() {
		t.Error("expected AlwaysSample for 1.0")
	}
	if samplerFor(0).Description() != sdktrace.NeverSample().Description() {
		t.Error("expected NeverSample for 0")
	}
}

func TestMetrics_RecordsCalls(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	m.CallStarted(ctx, "user.byId", "query")
	m.CallFinished(ctx, "user.byId", "query", "", 10*time.Millisecond)
	m.CallStarted(ctx, "user.byId", "query")
	m.CallFinished(ctx, "user.byId", "query", "BAD_REQUEST", 5*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	if got := sumInt64(rm, MetricCallsTotal); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
	if got := sumInt64(rm, MetricErrorsTotal); got != 1 {
		t.Errorf("expected 1 error, got %d", got)
	}
	if got := sumInt64(rm, MetricCallsActive); got != 0 {
		t.Errorf("expected 0 active calls, got %d", got)
	}
}

func sumInt64(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			if metric.Name != name {
				continue
			}
			if sum, ok := metric.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestSpanHelpers(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	SetSpanAttributes(ctx, map[string]string{AttrRPCPath: "user.byId"})
	SetSpanError(ctx, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status().Code)
	}
	found := false
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == AttrRPCPath && attr.Value.AsString() == "user.byId" {
			found = true
		}
	}
	if !found {
		t.Error("expected rpc.path attribute")
	}
}

func TestSpanHelpers_NoSpan(t *testing.T) {
	// Must not panic without a recording span.
	SetSpanAttributes(context.Background(), map[string]string{"k": "v"})
	SetSpanError(context.Background(), errors.New("x"))
}
