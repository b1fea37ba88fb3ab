package observability

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config enables and configures OpenTelemetry export for a service.
type Config struct {
	ServiceName    string        `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string        `yaml:"service_version" mapstructure:"service_version"`
	Environment    string        `yaml:"environment" mapstructure:"environment"`
	Tracing        bool          `yaml:"tracing" mapstructure:"tracing"`
	Metrics        bool          `yaml:"metrics" mapstructure:"metrics"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"` // OTLP HTTP host:port
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval       time.Duration `yaml:"interval" mapstructure:"interval"` // metric export interval
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "dev"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be between 0 and 1 (got: %v)", c.SampleRate)
	}
	if (c.Tracing || c.Metrics) && c.ServiceName == "" {
		return errors.New("observability.service_name is required when export is enabled")
	}
	return nil
}

// Setup initializes the tracer and meter providers enabled in cfg and
// returns a shutdown function flushing both. With nothing enabled the
// global no-op providers stay in place.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	if cfg.Tracing {
		tp, err := InitTracer(ctx, TracerConfig{
			ServiceName:    cfg.ServiceName,
			ServiceVersion: cfg.ServiceVersion,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Endpoint,
			Insecure:       cfg.Insecure,
			SampleRate:     cfg.SampleRate,
		})
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if cfg.Metrics {
		mp, err := InitMeter(ctx, &MeterConfig{
			ServiceName:    cfg.ServiceName,
			ServiceVersion: cfg.ServiceVersion,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Endpoint,
			Insecure:       cfg.Insecure,
			Interval:       cfg.Interval,
		})
		if err != nil {
			for _, fn := range shutdowns {
				_ = fn(ctx)
			}
			return nil, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	return func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}, nil
}
