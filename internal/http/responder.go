package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/desk-reservation/internal/application"
)

var (
	errBadRequestBody  = errors.New("invalid request body")
	errInvalidID       = errors.New("invalid id")
	errMissingToken    = errors.New("authorization token is required")
	errInvalidToken    = errors.New("invalid or expired token")
	errNotReceptionist = errors.New("receptionist role is required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError answers a request that never reached a service.
func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, code string, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request rejected", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{ErrorCode: code, Message: message})
}

func (r responder) writeValidation(ctx context.Context, w http.ResponseWriter, fields map[string]string) {
	r.loggerFor(ctx).WarnContext(ctx, "request validation failed", "fields", fields)
	r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
		ErrorCode: "VALIDATION_FAILED",
		Message:   "request validation failed",
		Errors:    fields,
	})
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

// writeResult renders a service result. The status always equals the
// envelope code; convert only runs for successful results.
func writeResult[T any](ctx context.Context, r responder, w http.ResponseWriter, result application.Result[T], convert func(T) any) {
	body := resultResponse{Code: result.Code(), Errors: result.Errors}
	if body.Errors == nil {
		body.Errors = []string{}
	}
	if result.IsOk() && convert != nil {
		body.Data = convert(result.Data)
	}
	r.writeJSON(ctx, w, body.Code, body)
}

type resultResponse struct {
	Code   int      `json:"code"`
	Errors []string `json:"errors"`
	Data   any      `json:"data"`
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
