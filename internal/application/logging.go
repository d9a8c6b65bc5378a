package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/desk-reservation/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// logOutcome records the end of an operation. Store failures are errors,
// rejected requests are warnings.
func logOutcome[T any](ctx context.Context, logger *slog.Logger, result Result[T], err error, failure, success string) {
	switch {
	case err != nil:
		logger.ErrorContext(ctx, failure, "error", err, "error_kind", ErrorKind(err), "result_kind", result.Kind.String())
	case !result.IsOk():
		logger.WarnContext(ctx, failure, "result_kind", result.Kind.String(), "errors", result.Errors)
	default:
		logger.InfoContext(ctx, success)
	}
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}
