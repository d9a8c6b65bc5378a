package http

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/desk-reservation/internal/auth"
)

// RoleChecker reports whether an email holds the receptionist role.
type RoleChecker interface {
	IsReceptionist(ctx context.Context, email string) (bool, error)
}

// RequireToken authenticates the bearer token and stores the caller identity
// in the request context.
func RequireToken(validator auth.TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, "AUTH_REQUIRED", errMissingToken)
				return
			}
			if validator == nil {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, "AUTH_INVALID", errInvalidToken)
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				responder.loggerFor(r.Context()).InfoContext(r.Context(), "token rejected", "error", err)
				responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{ErrorCode: "AUTH_INVALID", Message: errInvalidToken.Error()})
				return
			}

			ctx := ContextWithIdentity(r.Context(), Identity{
				AccountID: claims.Subject,
				Email:     strings.ToLower(claims.Email),
				Name:      claims.Name,
			})
			if logger := LoggerFromContext(ctx); logger != nil {
				ctx = ContextWithLogger(ctx, logger.With("caller_email", strings.ToLower(claims.Email)))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireReceptionist lets the request through only for receptionists. It
// must run after RequireToken.
func RequireReceptionist(roles RoleChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok || identity.Email == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, "AUTH_REQUIRED", errMissingToken)
				return
			}
			if roles == nil {
				responder.writeError(r.Context(), w, http.StatusForbidden, "AUTH_FORBIDDEN", errNotReceptionist)
				return
			}

			allowed, err := roles.IsReceptionist(r.Context(), identity.Email)
			if err != nil {
				responder.loggerFor(r.Context()).ErrorContext(r.Context(), "role lookup failed", "error", err)
				responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: http.StatusText(http.StatusInternalServerError)})
				return
			}
			if !allowed {
				responder.writeError(r.Context(), w, http.StatusForbidden, "AUTH_FORBIDDEN", errNotReceptionist)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			logger.DebugContext(ctx, "request started")
			next.ServeHTTP(recorder, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "status", recorder.status, "duration", time.Since(start))
		})
	}
}

// Recovery turns a panic into a 500 JSON response.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					responder.loggerFor(r.Context()).ErrorContext(r.Context(), "panic recovered",
						"error", rec,
						"stack", string(debug.Stack()),
					)
					responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: http.StatusText(http.StatusInternalServerError)})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RequestTimeout bounds each request. The deadline reaches the store through
// the request context; a late handler gets a 503.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.TimeoutHandler(next, timeout, `{"error_code":"TIMEOUT","message":"request timed out"}`)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func extractBearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
