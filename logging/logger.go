package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component names used as the "component" attribute.
const (
	CompCrawler = "crawler"
	CompStore   = "store"
	CompUsage   = "usage"
	CompFilter  = "filter"
	CompEngine  = "engine"
	CompUI      = "ui"
)

// Config holds logging configuration.
type Config struct {
	Dir        string // Directory for launch_search.log. Empty discards all output.
	Level      string // "debug", "info", "warn" or "error".
	Format     string // "json" (default) or "text".
	MaxSizeMB  int    // Rotate after this many megabytes (default 10).
	MaxBackups int    // Rotated files to keep (default 3).
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
	writer *lumberjack.Logger
)

// Init installs the process wide logger. The terminal belongs to the UI,
// so output only ever goes to a rotated file.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	closeWriter()

	if cfg.Dir == "" {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return nil
	}
	if err := os.MkdirAll(cfg.Dir, 0700); err != nil {
		return err
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}

	writer = &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "launch_search.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}
	logger = slog.New(handler)
	return nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Logger returns the current logger. Before Init it discards everything.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return logger
}

// ForComponent returns a logger tagged with component. It resolves the
// installed handler on every record, so package level loggers created
// before Init still reach the log file.
func ForComponent(component string) *slog.Logger {
	return slog.New(&componentHandler{component: component})
}

type componentHandler struct {
	component string
	attrs     []slog.Attr
	groups    []string
}

func (h *componentHandler) resolve() slog.Handler {
	handler := Logger().Handler().WithAttrs([]slog.Attr{slog.String("component", h.component)})
	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}
	for _, g := range h.groups {
		handler = handler.WithGroup(g)
	}
	return handler
}

func (h *componentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return Logger().Handler().Enabled(ctx, level)
}

func (h *componentHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.resolve().Handle(ctx, r)
}

func (h *componentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *componentHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

// Shutdown closes the log file.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	closeWriter()
	logger = nil
}

func closeWriter() {
	if writer != nil {
		_ = writer.Close()
		writer = nil
	}
}
