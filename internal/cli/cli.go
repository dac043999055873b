package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Config holds everything one partctl invocation needs to run.
type Config struct {
	Command    string // "plan" | "trace" | "demo"
	PlanPath   string // plan, trace
	MaxCycles  int    // trace
	Workers    int    // demo
	LogFormat  string
	LogLevel   string
	WebhookURL string
	ReportAddr string
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("partctl", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
partctl - a dry-run and demo harness for the part tracker.

Usage:
  partctl [options] <command> [args]

Commands:
  plan <file.hcl>     Load a planfile and print its static tree.
  trace <file.hcl>    Dry-run cycles against a planfile, printing each
                       cycle's newly-opened tracker paths.
  demo                 Run the seed scenarios against the real tracker
                       and macro packages in-process and print PASS/FAIL.

Options:
`)
		flagSet.PrintDefaults()
	}

	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	webhookFlag := flagSet.String("webhook", "", "URL to POST a run summary to once a run completes.")
	reportAddrFlag := flagSet.String("report-addr", "", "URL (e.g. http://host:port) of a socket.io dashboard to broadcast live cycle events to.")
	workersFlag := flagSet.Int("workers", 1, "Number of poolrunner workers 'demo' fans its scenarios across.")
	maxCyclesFlag := flagSet.Int("max-cycles", 1000, "Cycle cap for 'trace' before a plan is reported as unsettled.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	rest := flagSet.Args()
	if len(rest) == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg := &Config{
		Command:    rest[0],
		LogFormat:  logFormat,
		LogLevel:   logLevel,
		WebhookURL: *webhookFlag,
		ReportAddr: *reportAddrFlag,
		Workers:    *workersFlag,
		MaxCycles:  *maxCyclesFlag,
	}

	switch cfg.Command {
	case "plan", "trace":
		if len(rest) < 2 {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("%s requires a planfile path", cfg.Command)}
		}
		cfg.PlanPath = rest[1]
	case "demo":
		// takes no positional arguments
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", cfg.Command)}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
