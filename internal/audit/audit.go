// Copyright (c) 2025 Justin Cranford

// Package audit records one structured event per authorize/verify/issue
// operation. It wraps log/slog, fanning out to every configured handler via
// samber/slog-multi so a caller can, for example, write to stdout and to a
// rotating file from the same call site.
package audit

import (
	"context"
	"io"
	"log/slog"
	"time"

	slogmulti "github.com/samber/slog-multi"
)

// Event is one audit record. Detail carries operation-specific key/value
// pairs (e.g. orig/dest TNs, cert serial, SIP status).
type Event struct {
	Operation     string
	Outcome       string
	CorrelationID string
	Detail        map[string]any
}

// Logger emits Events as structured slog records.
type Logger struct {
	slog *slog.Logger
}

// NewLogger builds a Logger that fans every Record call out to all of
// handlers. A single handler behaves like a plain slog.Logger; more than
// one lets the caller mirror audit events to multiple sinks.
func NewLogger(handlers ...slog.Handler) *Logger {
	if len(handlers) == 0 {
		handlers = []slog.Handler{slog.NewJSONHandler(io.Discard, nil)}
	}

	return &Logger{slog: slog.New(slogmulti.Fanout(handlers...))}
}

// Record emits ev at info level with a fixed "audit" message so log
// aggregators can filter on it, carrying ev's fields as structured attrs.
func (l *Logger) Record(ctx context.Context, ev Event) {
	attrs := []slog.Attr{
		slog.String("operation", ev.Operation),
		slog.String("outcome", ev.Outcome),
		slog.String("correlation_id", ev.CorrelationID),
		slog.Time("timestamp", time.Now().UTC()),
	}

	for k, v := range ev.Detail {
		attrs = append(attrs, slog.Any(k, v))
	}

	l.slog.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}
