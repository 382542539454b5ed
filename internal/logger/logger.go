package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger interface for structured logging. Fields are alternating key/value pairs.
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Fatal(msg string, err error, fields ...interface{})
	With(fields ...interface{}) Logger
	Sync() error
}

// ZapLogger implements Logger on top of a sugared zap logger
type ZapLogger struct {
	s *zap.SugaredLogger
}

// New builds a zap logger for the given level ("debug", "info", "warn",
// "error") and format ("json" for production output, anything else for the
// development console encoder).
func New(levelStr, format string) Logger {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	l, err := cfg.Build()
	if err != nil {
		l = zap.NewExample()
	}
	return NewZapAdapter(l)
}

// NewZapAdapter wraps an existing *zap.Logger
func NewZapAdapter(l *zap.Logger) Logger {
	return &ZapLogger{s: l.Sugar()}
}

// NewNopLogger creates a Logger that discards everything
func NewNopLogger() Logger {
	return NewZapAdapter(zap.NewNop())
}

// Info logs an info message
func (l *ZapLogger) Info(msg string, fields ...interface{}) {
	l.s.Infow(msg, fields...)
}

// Error logs an error message
func (l *ZapLogger) Error(msg string, err error, fields ...interface{}) {
	l.s.Errorw(msg, withError(err, fields)...)
}

// Warn logs a warning message
func (l *ZapLogger) Warn(msg string, fields ...interface{}) {
	l.s.Warnw(msg, fields...)
}

// Debug logs a debug message
func (l *ZapLogger) Debug(msg string, fields ...interface{}) {
	l.s.Debugw(msg, fields...)
}

// Fatal logs a fatal error and exits
func (l *ZapLogger) Fatal(msg string, err error, fields ...interface{}) {
	l.s.Fatalw(msg, withError(err, fields)...)
}

// With returns a child logger carrying the given fields
func (l *ZapLogger) With(fields ...interface{}) Logger {
	return &ZapLogger{s: l.s.With(fields...)}
}

// Sync flushes buffered entries
func (l *ZapLogger) Sync() error {
	return l.s.Sync()
}

func withError(err error, fields []interface{}) []interface{} {
	if err == nil {
		return fields
	}
	return append([]interface{}{"error", err}, fields...)
}
