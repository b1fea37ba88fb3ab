// Package component manages the lifecycle of the long-lived parts of an
// RPC service.
//
// A Registry starts components in registration order, stops them in
// reverse order and aggregates their health for the /health endpoint.
package component
