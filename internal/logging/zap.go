package logging

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a sugared zap logger to Logger. The context is not
// inspected; zap has no context-aware API. Secret-named pairs are redacted
// the same way as for SlogLogger.
type ZapLogger struct {
	s *zap.SugaredLogger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{s: l.Sugar()}
}

func newZapLogger(level string, w io.Writer) *ZapLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(w), zapLevel(level))
	return NewZapLogger(zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)))
}

func zapLevel(l string) zapcore.Level {
	switch strings.ToLower(l) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *ZapLogger) Debug(_ context.Context, msg string, args ...any) {
	z.s.Debugw(msg, redact(args)...)
}

func (z *ZapLogger) Info(_ context.Context, msg string, args ...any) {
	z.s.Infow(msg, redact(args)...)
}

func (z *ZapLogger) Warn(_ context.Context, msg string, args ...any) {
	z.s.Warnw(msg, redact(args)...)
}

func (z *ZapLogger) Error(_ context.Context, msg string, args ...any) {
	z.s.Errorw(msg, redact(args)...)
}

func (z *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{s: z.s.With(redact(args)...)}
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	return z.s.Sync()
}
