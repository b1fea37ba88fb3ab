// Package logger provides structured logging for rpckit using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers, and request-scoped fields carried in a context.Context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  components:
//	    procedure: "debug"
//
// Get returns the logger of a named component, honoring its level override.
//
// # Usage
//
//	log := logger.Get("procedure")
//	log.Info("call finished", logger.Fields(logger.FieldPath, "user.byId"))
package logger
