package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/parttracker/internal/cli"
	"github.com/vk/parttracker/internal/ctxlog"
)

// App encapsulates partctl's dependencies and lifecycle, decoupled from the
// flag-parsing entrypoint in cmd/partctl.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *cli.Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger.
func NewApp(outW io.Writer, cfg *cli.Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		cfg:    cfg,
	}
}

// Context returns parent carrying a's logger, the contract every internal
// package below app assumes of its ctx argument.
func (a *App) Context(parent context.Context) context.Context {
	return ctxlog.WithLogger(parent, a.logger)
}
