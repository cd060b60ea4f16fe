// Package observability carries run scoped log attributes through a context.
//
// Attributes stored with WithRunID, WithStage and WithSource are added to
// every record logged through a handler from NewHandler with the *Context
// slog methods.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docatlas/internal/logfields"
)

// LogContext is the set of run scoped attributes.
type LogContext struct {
	RunID  string
	Stage  string
	Source string
}

func (lc LogContext) attrs() []slog.Attr {
	var attrs []slog.Attr
	if lc.RunID != "" {
		attrs = append(attrs, logfields.RunID(lc.RunID))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Source != "" {
		attrs = append(attrs, logfields.Source(lc.Source))
	}
	return attrs
}

type logContextKey struct{}

// FromContext returns the attributes stored in ctx.
func FromContext(ctx context.Context) LogContext {
	lc, _ := ctx.Value(logContextKey{}).(LogContext)
	return lc
}

func update(ctx context.Context, fn func(*LogContext)) context.Context {
	lc := FromContext(ctx)
	fn(&lc)
	return context.WithValue(ctx, logContextKey{}, lc)
}

func WithRunID(ctx context.Context, runID string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.RunID = runID })
}

func WithStage(ctx context.Context, stage string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Stage = stage })
}

func WithSource(ctx context.Context, source string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Source = source })
}

// ContextHandler adds the LogContext of the record's context to each record.
type ContextHandler struct {
	inner slog.Handler
}

// NewHandler wraps inner. Wrapping a ContextHandler returns it unchanged.
func NewHandler(inner slog.Handler) *ContextHandler {
	if h, ok := inner.(*ContextHandler); ok {
		return h
	}
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := FromContext(ctx).attrs(); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}

// Logger returns base wrapped in a ContextHandler. A nil base uses slog.Default.
func Logger(base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	if _, ok := base.Handler().(*ContextHandler); ok {
		return base
	}
	return slog.New(NewHandler(base.Handler()))
}

// Bind returns base with the attributes of ctx fixed, for callees that log
// without a context.
func Bind(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	attrs := FromContext(ctx).attrs()
	if len(attrs) == 0 {
		return base
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return base.With(args...)
}
