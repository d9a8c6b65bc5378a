package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/desk-reservation/internal/application"
)

type accountService interface {
	Register(ctx context.Context, params application.RegisterParams) application.Result[application.AuthToken]
	Login(ctx context.Context, params application.LoginParams) application.Result[application.AuthToken]
}

type AccountHandler struct {
	service   accountService
	responder responder
	logger    *slog.Logger
}

func NewAccountHandler(service accountService, logger *slog.Logger) *AccountHandler {
	base := defaultLogger(logger)
	return &AccountHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AccountHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AccountHandler", operation, attrs...)
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req registerRequest
	fields, err := decodeAndValidate(r, &req)
	if err != nil {
		h.log(r.Context(), "Register", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode register request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "BAD_REQUEST", errBadRequestBody)
		return
	}
	if fields != nil {
		h.responder.writeValidation(r.Context(), w, fields)
		return
	}

	result := h.service.Register(r.Context(), application.RegisterParams{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	writeResult(r.Context(), h.responder, w, result, func(token application.AuthToken) any {
		return toAuthTokenDTO(token)
	})
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	fields, err := decodeAndValidate(r, &req)
	if err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "BAD_REQUEST", errBadRequestBody)
		return
	}
	if fields != nil {
		h.responder.writeValidation(r.Context(), w, fields)
		return
	}

	result := h.service.Login(r.Context(), application.LoginParams{Email: req.Email, Password: req.Password})
	writeResult(r.Context(), h.responder, w, result, func(token application.AuthToken) any {
		return toAuthTokenDTO(token)
	})
}

type registerRequest struct {
	UserName string `json:"user_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authTokenDTO struct {
	Token          string `json:"token"`
	ExpiresAt      string `json:"expires_at"`
	UserName       string `json:"user_name"`
	Email          string `json:"email"`
	IsReceptionist bool   `json:"is_receptionist"`
}

func toAuthTokenDTO(token application.AuthToken) authTokenDTO {
	return authTokenDTO{
		Token:          token.Token,
		ExpiresAt:      token.ExpiresAt.UTC().Format(time.RFC3339),
		UserName:       token.UserName,
		Email:          token.Email,
		IsReceptionist: token.IsReceptionist,
	}
}
