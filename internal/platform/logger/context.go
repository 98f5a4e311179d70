package logger

import (
	"context"
	"log/slog"
)

// loggerKey is the context key under which a request-scoped logger travels.
type loggerKey struct{}

// WithLogger returns a copy of ctx carrying the given logger. Handlers and
// middleware attach request-scoped attributes (trace ID, route) once and
// everything downstream inherits them.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// FromContext retrieves the logger stored in ctx, falling back to the
// process-wide default when none is present.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger stored in ctx, falling back to
// the provided logger when none is present. Components pass their own
// component-scoped logger as the fallback.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return log
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
