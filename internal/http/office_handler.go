package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/desk-reservation/internal/application"
)

type officeService interface {
	ListOffices(ctx context.Context) application.Result[[]application.Office]
	GetOffice(ctx context.Context, id string) application.Result[application.Office]
	Reconcile(ctx context.Context, params application.ReconcileOfficeParams) application.Result[application.Office]
	Delete(ctx context.Context, id, actorEmail string) application.Result[struct{}]
}

type OfficeHandler struct {
	service   officeService
	responder responder
	logger    *slog.Logger
}

func NewOfficeHandler(service officeService, logger *slog.Logger) *OfficeHandler {
	base := defaultLogger(logger)
	return &OfficeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *OfficeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "OfficeHandler", operation, attrs...)
}

func (h *OfficeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeResult(r.Context(), h.responder, w, h.service.ListOffices(r.Context()), func(offices []application.Office) any {
		return toOfficeDTOs(offices)
	})
}

func (h *OfficeHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	id, ok := pathID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "INVALID_ID", errInvalidID)
		return
	}
	writeResult(r.Context(), h.responder, w, h.service.GetOffice(r.Context(), id), func(office application.Office) any {
		return toOfficeDTO(office)
	})
}

func (h *OfficeHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.reconcile(w, r, "")
}

func (h *OfficeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	id, ok := pathID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "INVALID_ID", errInvalidID)
		return
	}
	h.reconcile(w, r, id)
}

func (h *OfficeHandler) reconcile(w http.ResponseWriter, r *http.Request, officeID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, _ := IdentityFromContext(r.Context())
	logger := h.log(r.Context(), "Reconcile", "office_id", officeID, "actor_email", identity.Email)

	var req officeRequest
	fields, err := decodeAndValidate(r, &req)
	if err != nil {
		logger.WarnContext(r.Context(), "failed to decode office request", "error", err, "error_kind", "bad_request")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "BAD_REQUEST", errBadRequestBody)
		return
	}
	if fields != nil {
		h.responder.writeValidation(r.Context(), w, fields)
		return
	}

	params := req.toParams()
	params.OfficeID = officeID
	params.ActorEmail = identity.Email

	writeResult(r.Context(), h.responder, w, h.service.Reconcile(r.Context(), params), func(office application.Office) any {
		return toOfficeDTO(office)
	})
}

func (h *OfficeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	id, ok := pathID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "INVALID_ID", errInvalidID)
		return
	}
	identity, _ := IdentityFromContext(r.Context())
	writeResult[struct{}](r.Context(), h.responder, w, h.service.Delete(r.Context(), id, identity.Email), nil)
}

type officeZoneRequest struct {
	Name  string `json:"name"`
	Desks int    `json:"desks" validate:"gte=0"`
}

type parkingZoneRequest struct {
	Name   string `json:"name"`
	Spaces int    `json:"spaces" validate:"gte=0"`
}

// officeRequest is the desired state of an office. Zone names are checked by
// the service so every message reaches the client together.
type officeRequest struct {
	City         string               `json:"city" validate:"required"`
	Address      string               `json:"address" validate:"required"`
	PostCode     string               `json:"post_code" validate:"required"`
	OfficeMapURL *string              `json:"office_map_url"`
	OfficeZones  []officeZoneRequest  `json:"office_zones" validate:"dive"`
	ParkingZones []parkingZoneRequest `json:"parking_zones" validate:"dive"`
}

func (r officeRequest) toParams() application.ReconcileOfficeParams {
	params := application.ReconcileOfficeParams{
		City:         strings.TrimSpace(r.City),
		Address:      strings.TrimSpace(r.Address),
		PostCode:     strings.TrimSpace(r.PostCode),
		OfficeMapURL: r.OfficeMapURL,
		OfficeZones:  make([]application.ZoneInput, len(r.OfficeZones)),
		ParkingZones: make([]application.ZoneInput, len(r.ParkingZones)),
	}
	for i, z := range r.OfficeZones {
		params.OfficeZones[i] = application.ZoneInput{Name: z.Name, Capacity: z.Desks}
	}
	for i, z := range r.ParkingZones {
		params.ParkingZones[i] = application.ZoneInput{Name: z.Name, Capacity: z.Spaces}
	}
	return params
}

type officeZoneDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Desks int    `json:"desks"`
}

type parkingZoneDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Spaces int    `json:"spaces"`
}

type officeDTO struct {
	ID           string           `json:"id"`
	Address      string           `json:"address"`
	PostCode     string           `json:"post_code"`
	OfficeMapURL *string          `json:"office_map_url,omitempty"`
	City         cityDTO          `json:"city"`
	AuthorEmail  string           `json:"author_email"`
	OfficeZones  []officeZoneDTO  `json:"office_zones"`
	ParkingZones []parkingZoneDTO `json:"parking_zones"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
}

func toOfficeDTO(office application.Office) officeDTO {
	dto := officeDTO{
		ID:           office.ID,
		Address:      office.Address,
		PostCode:     office.PostCode,
		OfficeMapURL: office.OfficeMapURL,
		City:         toCityDTO(office.City),
		AuthorEmail:  office.AuthorEmail,
		OfficeZones:  make([]officeZoneDTO, len(office.OfficeZones)),
		ParkingZones: make([]parkingZoneDTO, len(office.ParkingZones)),
		CreatedAt:    formatTimestamp(office.CreatedAt),
		UpdatedAt:    formatTimestamp(office.UpdatedAt),
	}
	for i, z := range office.OfficeZones {
		dto.OfficeZones[i] = toOfficeZoneDTO(z)
	}
	for i, z := range office.ParkingZones {
		dto.ParkingZones[i] = toParkingZoneDTO(z)
	}
	return dto
}

func toOfficeDTOs(offices []application.Office) []officeDTO {
	out := make([]officeDTO, 0, len(offices))
	for _, office := range offices {
		out = append(out, toOfficeDTO(office))
	}
	return out
}

func toOfficeZoneDTO(zone application.OfficeZone) officeZoneDTO {
	return officeZoneDTO{ID: zone.ID, Name: zone.Name, Desks: zone.Desks}
}

func toParkingZoneDTO(zone application.ParkingZone) parkingZoneDTO {
	return parkingZoneDTO{ID: zone.ID, Name: zone.Name, Spaces: zone.Spaces}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
