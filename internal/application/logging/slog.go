package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Options configure a SlogLogger
type Options struct {
	Level    string // debug, info, warn, error
	Format   string // json or text
	Output   string // stdout, stderr or file
	FilePath string
	Service  string
}

// SlogLogger adapts log/slog to Logger
type SlogLogger struct {
	slog   *slog.Logger
	closer io.Closer
}

// NewSlogLogger builds a logger writing to the configured destination.
// Close releases the log file when Output is "file".
func NewSlogLogger(opts Options) (*SlogLogger, error) {
	var (
		w      io.Writer
		closer io.Closer
	)
	switch strings.ToLower(opts.Output) {
	case "", "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	case "file":
		if opts.FilePath == "" {
			return nil, fmt.Errorf("logging output is file but no file path is set")
		}
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	default:
		return nil, fmt.Errorf("unknown logging output %q", opts.Output)
	}

	logger := NewWriterLogger(w, opts)
	logger.closer = closer
	return logger, nil
}

// NewWriterLogger builds a logger writing to w
func NewWriterLogger(w io.Writer, opts Options) *SlogLogger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "text") {
		handler = slog.NewTextHandler(w, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}
	if opts.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", opts.Service)})
	}
	return &SlogLogger{slog: slog.New(handler)}
}

// ParseLevel maps a level name onto slog; unknown names map to info
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Log writes one record. Metadata keys are emitted in sorted order.
func (l *SlogLogger) Log(level, message string, metadata map[string]interface{}) {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, metadata[k]))
	}
	l.slog.LogAttrs(context.Background(), ParseLevel(level), message, attrs...)
}

// Close releases the log file, if any
func (l *SlogLogger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
