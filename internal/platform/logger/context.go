package logger

import (
	"context"
	"log/slog"
)

// contextKey is an unexported type for context keys defined in this package,
// preventing collisions with keys defined elsewhere.
type contextKey struct{}

// loggerKey is the context key under which a request-scoped logger is stored.
var loggerKey = contextKey{}

// WithLogger returns a copy of ctx carrying the given logger.
// Handlers and middleware use this to propagate request-scoped loggers
// (e.g., enriched with a trace ID) down to services and stores.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext retrieves the logger from the context.
// If no logger is stored, the process-wide default logger is returned,
// so callers can always log without nil checks.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger from the context, falling back to
// the provided component logger (rather than the global default) when the
// context carries none.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok && log != nil {
		return log
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
