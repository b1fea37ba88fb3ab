// Package config loads and validates rpckit service configuration.
//
// Viper reads the YAML file, godotenv loads an optional .env file, and every
// environment variable is bound under its nested key spellings so it
// overrides file values (HTTP_PORT overrides http.port).
//
// # Usage
//
//	var cfg config.ServiceConfig
//	if err := config.LoadConfig("billing", &cfg, config.WithEnvPrefix("BILLING")); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
package config
