package gcal

import (
	"context"
	"log/slog"
	"sort"
)

// Logger receives non-fatal diagnostics from an EventLink.
type Logger interface {
	Log(level slog.Level, msg string, ctx map[string]any)
}

// NopLogger discards everything. It is the default logger of New().
type NopLogger struct{}

func (NopLogger) Log(slog.Level, string, map[string]any) {}

// SlogLogger forwards diagnostics to a *slog.Logger, context entries
// becoming attributes sorted by key.
type SlogLogger struct {
	logger *slog.Logger
}

// A nil logger falls back to slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

func (l *SlogLogger) Log(level slog.Level, msg string, ctx map[string]any) {
	keys := make([]string, 0, len(ctx))
	for key := range ctx {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys))
	for _, key := range keys {
		attrs = append(attrs, slog.Any(key, ctx[key]))
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// Recorder observes build outcomes and rejected field values.
type Recorder interface {
	BuildFinished(ok bool)
	FieldRejected(kind error)
}

type nopRecorder struct{}

func (nopRecorder) BuildFinished(bool)  {}
func (nopRecorder) FieldRejected(error) {}
