package http

import (
	"context"
	"log/slog"

	"github.com/example/desk-reservation/internal/logging"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the caller resolved from a bearer token.
type Identity struct {
	AccountID string
	Email     string
	Name      string
}

// ContextWithIdentity returns a derived context containing the authenticated caller.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext extracts the authenticated caller from context if available.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}

// ContextWithLogger attaches the request scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request scoped logger, or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
