package http

import (
	"context"
	"log/slog"

	"github.com/example/petpal/internal/logging"
)

type contextKey string

const sitterIDContextKey contextKey = "sitter_id"

// ContextWithLogger returns a derived context carrying the request logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request logger if one was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithSitterID injects the sitter identifier resolved from the request path.
func ContextWithSitterID(ctx context.Context, sitterID string) context.Context {
	return context.WithValue(ctx, sitterIDContextKey, sitterID)
}

// SitterIDFromContext extracts a sitter identifier previously associated with the context.
func SitterIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sitterIDContextKey).(string)
	return id, ok
}
