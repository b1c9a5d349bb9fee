// Package logging defines the structured-logging interface used across the
// client, with slog and zap backed implementations.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are key/value pairs, e.g.:
//
//	log.Info(ctx, "biometric record purged", "reason", "no-session")
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

// Backend names accepted by New.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger writing to w at the given level ("debug", "info",
// "warn", "error"). Unknown levels fall back to info.
func New(backend, level string, w io.Writer) (Logger, error) {
	switch strings.ToLower(backend) {
	case "", BackendSlog:
		h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})
		return NewSlogLogger(slog.New(h)), nil
	case BackendZap:
		return newZapLogger(level, w), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func slogLevel(l string) slog.Level {
	switch strings.ToLower(l) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
