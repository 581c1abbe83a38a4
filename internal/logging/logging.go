package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Options controls where and how application logs are written.
type Options struct {
	Dir    string
	Level  slog.Level
	Format string // "text" or "json"
}

// Setup opens <Dir>/<unix-ms>_app.log, installs a handler writing to it as the
// default slog logger, and returns the logger with the file so the caller can close it.
func Setup(opts Options, now time.Time) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(opts.Dir, FileName(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := New(f, opts.Level, opts.Format)
	slog.SetDefault(logger)
	logger.Debug("logging configured", "level", opts.Level.String(), "format", opts.Format, "path", path)
	return logger, f, nil
}

// New builds a logger over w using a JSON handler when format is "json" and a text handler otherwise.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// FileName returns the per-run log file name.
func FileName(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "_app.log"
}
