// Package logger provides structured logging for rtyping.
//
// The drill owns the terminal while it runs, so output normally goes to a
// file rather than stderr.
//
//	log, closer, err := logger.New(logger.Config{Level: "debug", Output: path})
//	defer closer.Close()
//	log.Info("session started", "timeout", 60)
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger provides structured logging with levels and fields.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional context fields.
	With(keysAndValues ...any) Logger
}

// Config contains logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string

	// Output is stdout, stderr, discard, or a file path.
	Output string

	// Format is text or json.
	Format string
}

type logger struct {
	slogger *slog.Logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a logger. The returned closer releases the log file, if any.
func New(cfg Config) (Logger, io.Closer, error) {
	writer, closer, err := openWriter(cfg.Output)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}
	return &logger{slogger: slog.New(handler)}, closer, nil
}

func (l *logger) Debug(msg string, keysAndValues ...any) {
	l.slogger.Debug(msg, keysAndValues...)
}

func (l *logger) Info(msg string, keysAndValues ...any) {
	l.slogger.Info(msg, keysAndValues...)
}

func (l *logger) Warn(msg string, keysAndValues ...any) {
	l.slogger.Warn(msg, keysAndValues...)
}

func (l *logger) Error(msg string, keysAndValues ...any) {
	l.slogger.Error(msg, keysAndValues...)
}

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{slogger: l.slogger.With(keysAndValues...)}
}

// parseLevel defaults to info for unrecognized levels.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func openWriter(output string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout, nopCloser{}, nil
	case "stderr":
		return os.Stderr, nopCloser{}, nil
	case "", "discard", "none":
		return io.Discard, nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) // nolint:gosec
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", output, err)
	}
	return f, f, nil
}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &logger{slogger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
