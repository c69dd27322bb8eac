package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"epipulse/internal/config"
)

// NewLogger builds the application logger from the logging config. Callers
// own the returned instance; this package keeps no logger state. When output
// goes to a file the returned closer releases it and must be closed on
// shutdown; otherwise closing is a no-op.
func NewLogger(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	sink, closer, err := openSink(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		opts.AddSource = true
		handler = slog.NewJSONHandler(sink, opts)
	} else {
		handler = slog.NewTextHandler(sink, opts)
	}

	return slog.New(withTracing(handler)), closer, nil
}

// openSink maps the configured output mode to a writer. stderr is the
// default so stdout stays reserved for the country tables.
func openSink(cfg config.LoggingConfig) (io.Writer, io.Closer, error) {
	switch strings.ToLower(cfg.Output) {
	case "file":
		f, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	case "both":
		f, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return io.MultiWriter(os.Stderr, f), f, nil
	default:
		return os.Stderr, nopCloser{}, nil
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// parseLogLevel maps a configured level name onto slog. Unknown names fall
// back to info rather than failing startup.
func parseLogLevel(level string) slog.Level {
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

// tracingHandler decorates a slog.Handler so every record carries the
// trace_id stored in the context, keeping the attribute out of call sites.
type tracingHandler struct {
	next slog.Handler
}

func withTracing(next slog.Handler) slog.Handler {
	return tracingHandler{next: next}
}

func (h tracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h tracingHandler) Handle(ctx context.Context, rec slog.Record) error {
	if id := GetTraceID(ctx); id != "" {
		rec.AddAttrs(slog.String("trace_id", id))
	}
	return h.next.Handle(ctx, rec)
}

func (h tracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return tracingHandler{next: h.next.WithAttrs(attrs)}
}

func (h tracingHandler) WithGroup(name string) slog.Handler {
	return tracingHandler{next: h.next.WithGroup(name)}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
