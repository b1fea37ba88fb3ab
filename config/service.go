package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/rpckit/logger"
	"github.com/kbukum/rpckit/middleware"
	"github.com/kbukum/rpckit/observability"
	"github.com/kbukum/rpckit/server"
)

// ServiceConfig contains the configuration every rpckit service needs.
// Projects extend it by embedding:
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Billing BillingConfig `yaml:"billing" mapstructure:"billing"`
//	}
type ServiceConfig struct {
	Name          string               `yaml:"name" mapstructure:"name"`
	Environment   string               `yaml:"environment" mapstructure:"environment"`
	Version       string               `yaml:"version" mapstructure:"version"`
	Debug         bool                 `yaml:"debug" mapstructure:"debug"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Procedures    middleware.Config    `yaml:"procedures" mapstructure:"procedures"`
	HTTP          server.Config        `yaml:"http" mapstructure:"http"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// GetServiceConfig returns the base ServiceConfig. It is promoted to
// embedding structs.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to every section.
// Embedding structs that override it should call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = c.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Logging.ApplyDefaults()
	c.Procedures.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	if !slices.Contains(validEnvs, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Procedures.Validate(); err != nil {
		return fmt.Errorf("config.procedures: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("config.http: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}
