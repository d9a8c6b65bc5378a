package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/desk-reservation/internal/application"
)

type catalogService interface {
	ListCountries(ctx context.Context) application.Result[[]application.Country]
	ListCities(ctx context.Context) application.Result[[]application.City]
}

type CatalogHandler struct {
	service   catalogService
	responder responder
	logger    *slog.Logger
}

func NewCatalogHandler(service catalogService, logger *slog.Logger) *CatalogHandler {
	base := defaultLogger(logger)
	return &CatalogHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CatalogHandler) Countries(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	result := h.service.ListCountries(r.Context())
	writeResult(r.Context(), h.responder, w, result, func(countries []application.Country) any {
		out := make([]countryDTO, len(countries))
		for i, c := range countries {
			out[i] = toCountryDTO(c)
		}
		return out
	})
}

func (h *CatalogHandler) Cities(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	result := h.service.ListCities(r.Context())
	writeResult(r.Context(), h.responder, w, result, func(cities []application.City) any {
		out := make([]cityDTO, len(cities))
		for i, c := range cities {
			out[i] = toCityDTO(c)
		}
		return out
	})
}

type countryDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type cityDTO struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Country countryDTO `json:"country"`
}

func toCountryDTO(country application.Country) countryDTO {
	return countryDTO{ID: country.ID, Name: country.Name, Symbol: country.Symbol}
}

func toCityDTO(city application.City) cityDTO {
	return cityDTO{ID: city.ID, Name: city.Name, Country: toCountryDTO(city.Country)}
}
