package bootstrap

import "github.com/kbukum/rpckit/config"

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig satisfies it through promoted methods:
//
//	type BillingConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Currency string `yaml:"currency" mapstructure:"currency"`
//	}
//
//	app, err := bootstrap.NewApp[*BillingConfig](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
