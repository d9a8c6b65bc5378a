package http

import (
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/example/desk-reservation/internal/auth"
)

type RouterConfig struct {
	Accounts     *AccountHandler
	Catalog      *CatalogHandler
	Offices      *OfficeHandler
	Reservations *ReservationHandler
	Health       *HealthHandler
	Tokens       auth.TokenValidator
	Roles        RoleChecker
	Logger       *slog.Logger
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := httprouter.New()
	responder := newResponder(cfg.Logger)

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{ErrorCode: "NOT_FOUND", Message: http.StatusText(http.StatusNotFound)})
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder.writeJSON(r.Context(), w, http.StatusMethodNotAllowed, errorResponse{ErrorCode: "METHOD_NOT_ALLOWED", Message: http.StatusText(http.StatusMethodNotAllowed)})
	})

	authenticated := func(h http.HandlerFunc) http.Handler {
		return RequireToken(cfg.Tokens, cfg.Logger)(h)
	}
	receptionist := func(h http.HandlerFunc) http.Handler {
		return RequireToken(cfg.Tokens, cfg.Logger)(RequireReceptionist(cfg.Roles, cfg.Logger)(h))
	}

	if cfg.Health != nil {
		router.Handler(http.MethodGet, "/healthz", http.HandlerFunc(cfg.Health.Check))
	}

	if cfg.Accounts != nil {
		router.Handler(http.MethodPost, "/api/user/register", http.HandlerFunc(cfg.Accounts.Register))
		router.Handler(http.MethodPost, "/api/user/login", http.HandlerFunc(cfg.Accounts.Login))
	}

	if cfg.Catalog != nil {
		router.Handler(http.MethodGet, "/api/countries", authenticated(cfg.Catalog.Countries))
		router.Handler(http.MethodGet, "/api/cities", authenticated(cfg.Catalog.Cities))
	}

	if cfg.Offices != nil {
		router.Handler(http.MethodGet, "/api/offices", authenticated(cfg.Offices.List))
		router.Handler(http.MethodGet, "/api/offices/:id", authenticated(cfg.Offices.Get))
		router.Handler(http.MethodPost, "/api/offices", receptionist(cfg.Offices.Create))
		router.Handler(http.MethodPut, "/api/offices/:id", receptionist(cfg.Offices.Update))
		router.Handler(http.MethodDelete, "/api/offices/:id", receptionist(cfg.Offices.Delete))
	}

	if cfg.Reservations != nil {
		router.Handler(http.MethodGet, "/api/reservations", authenticated(cfg.Reservations.List))
		router.Handler(http.MethodGet, "/api/reservations/:id", authenticated(cfg.Reservations.Get))
		router.Handler(http.MethodPost, "/api/reservations", authenticated(cfg.Reservations.Create))
		router.Handler(http.MethodPut, "/api/reservations/:id", authenticated(cfg.Reservations.Update))
		router.Handler(http.MethodDelete, "/api/reservations/:id", authenticated(cfg.Reservations.Delete))
	}

	var handler http.Handler = router
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}
