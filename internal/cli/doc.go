// Package cli parses partctl's command and flags (plan, trace, demo) into
// a Config, and defines the ExitError a malformed invocation reports back
// through to cmd/partctl.
package cli
