package http

import (
	"context"
	"log/slog"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

// handlerLogger prefers the request logger from ctx and tags it with the
// handler, the operation and, once authenticated, the caller.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = defaultLogger(fallback)
	}

	pairs := make([]any, 0, 6+len(attrs))
	pairs = append(pairs, "handler", handlerName)
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if identity, ok := IdentityFromContext(ctx); ok && identity.AccountID != "" {
		pairs = append(pairs, "account_id", identity.AccountID)
	}
	pairs = append(pairs, attrs...)
	return logger.With(pairs...)
}
