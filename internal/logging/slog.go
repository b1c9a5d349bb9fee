package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Redacted replaces the value of any key/value pair whose key names a
// secret. See redact.
const Redacted = "[REDACTED]"

var secretKeys = map[string]struct{}{
	"password":      {},
	"passphrase":    {},
	"secret":        {},
	"token":         {},
	"session_token": {},
}

// redact returns args with secret values replaced by Redacted. args is not
// modified; a copy is made only when something is replaced.
func redact(args []any) []any {
	var out []any
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		if _, secret := secretKeys[strings.ToLower(key)]; !secret {
			continue
		}
		if out == nil {
			out = append([]any(nil), args...)
		}
		out[i+1] = Redacted
	}
	if out == nil {
		return args
	}
	return out
}

// SlogLogger adapts *slog.Logger to Logger. The context is handed to the
// slog handler; secret-named pairs are redacted before they reach it.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) log(ctx context.Context, level slog.Level, msg string, args []any) {
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, msg, redact(args)...)
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelDebug, msg, args)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelInfo, msg, args)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelWarn, msg, args)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelError, msg, args)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(redact(args)...)}
}
