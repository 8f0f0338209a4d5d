package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogFormat represents the output format for logs
type LogFormat int

const (
	// Text format outputs human-readable text logs
	Text LogFormat = iota
	// JSON format outputs structured JSON logs
	JSON
)

// Logger interface defines the logging contract for the fixture. Markers go
// to stdout through package marker; this logger is for diagnostics only and
// writes to stderr unless told otherwise.
type Logger interface {
	Debug(msg string, fields ...slog.Attr)
	Info(msg string, fields ...slog.Attr)
	Warn(msg string, fields ...slog.Attr)
	Error(msg string, fields ...slog.Attr)
	With(fields ...slog.Attr) Logger
	Log(ctx context.Context, level slog.Level, msg string, fields ...slog.Attr)
}

// LoggerConfig holds configuration for creating a logger
type LoggerConfig struct {
	Level  slog.Level
	Format LogFormat
	Output io.Writer
}

// defaultLogger is a package-level logger instance
var defaultLogger Logger = NewLogger(LoggerConfig{
	Level:  slog.LevelInfo,
	Format: Text,
	Output: os.Stderr,
})

// SetDefaultLogger sets the package-level default logger
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// Default returns the package-level default logger
func Default() Logger {
	return defaultLogger
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return NewLogger(LoggerConfig{Output: io.Discard})
}

// logger implements the Logger interface
type logger struct {
	slogger *slog.Logger
}

// NewLogger creates a new logger with the given configuration
func NewLogger(config LoggerConfig) Logger {
	if config.Output == nil {
		config.Output = os.Stderr
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: config.Level,
	}

	switch config.Format {
	case JSON:
		handler = slog.NewJSONHandler(config.Output, opts)
	default:
		handler = slog.NewTextHandler(config.Output, opts)
	}

	return &logger{slogger: slog.New(handler)}
}

// Debug logs a debug message with optional structured fields
func (l *logger) Debug(msg string, fields ...slog.Attr) {
	l.log(slog.LevelDebug, msg, fields...)
}

// Info logs an info message with optional structured fields
func (l *logger) Info(msg string, fields ...slog.Attr) {
	l.log(slog.LevelInfo, msg, fields...)
}

// Warn logs a warning message with optional structured fields
func (l *logger) Warn(msg string, fields ...slog.Attr) {
	l.log(slog.LevelWarn, msg, fields...)
}

// Error logs an error message with optional structured fields
func (l *logger) Error(msg string, fields ...slog.Attr) {
	l.log(slog.LevelError, msg, fields...)
}

// With creates a new logger with additional structured fields
func (l *logger) With(fields ...slog.Attr) Logger {
	return &logger{slogger: l.slogger.With(attrsToArgs(fields)...)}
}

// Log logs a message at the specified level with optional structured fields
func (l *logger) Log(ctx context.Context, level slog.Level, msg string, fields ...slog.Attr) {
	l.slogger.LogAttrs(ctx, level, msg, fields...)
}

func (l *logger) log(level slog.Level, msg string, fields ...slog.Attr) {
	l.Log(context.Background(), level, msg, fields...)
}

func attrsToArgs(fields []slog.Attr) []any {
	args := make([]any, len(fields))
	for i, attr := range fields {
		args[i] = attr
	}
	return args
}

// ParseLevel maps a flag value (debug, info, warn, error) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// ParseFormat maps a flag value (text, json) to a LogFormat.
func ParseFormat(s string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return Text, nil
	case "json":
		return JSON, nil
	}
	return 0, fmt.Errorf("unknown log format %q", s)
}

// Field helpers for consistent logging

// ThreadID creates a kernel thread id field
func ThreadID(tid uint64) slog.Attr {
	return slog.Uint64("thread.id", tid)
}

// WorkerIndex creates a logical worker index field
func WorkerIndex(index int) slog.Attr {
	return slog.Int("worker.index", index)
}

// PID creates a process id field
func PID(pid int) slog.Attr {
	return slog.Int("pid", pid)
}

// Phase creates a phase field
func Phase(phase string) slog.Attr {
	return slog.String("phase", phase)
}

// GateName creates a gate field
func GateName(name string) slog.Attr {
	return slog.String("gate", name)
}

// Signal creates a signal field
func Signal(sig string) slog.Attr {
	return slog.String("signal", sig)
}

// Duration creates a duration field
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Operation creates an operation field
func Operation(op string) slog.Attr {
	return slog.String("operation", op)
}

// ErrorField creates an error field
func ErrorField(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// WorkerCount creates a worker count field
func WorkerCount(count int) slog.Attr {
	return slog.Int("worker_count", count)
}
