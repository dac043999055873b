// Package app dispatches a parsed partctl invocation to its plan, trace,
// or demo implementation, decoupled from the flag parsing in internal/cli
// and the os.Exit handling in cmd/partctl.
package app
