// Package version exposes the build version of an rpckit service.
package version
