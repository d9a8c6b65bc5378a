package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/desk-reservation/internal/application"
)

type reservationService interface {
	ListReservations(ctx context.Context) application.Result[[]application.Reservation]
	GetReservation(ctx context.Context, id string) application.Result[application.Reservation]
	Reconcile(ctx context.Context, params application.ReconcileReservationParams) application.Result[application.Reservation]
	Delete(ctx context.Context, id string) application.Result[struct{}]
}

type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeResult(r.Context(), h.responder, w, h.service.ListReservations(r.Context()), func(reservations []application.Reservation) any {
		out := make([]reservationDTO, len(reservations))
		for i, reservation := range reservations {
			out[i] = toReservationDTO(reservation)
		}
		return out
	})
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	id, ok := pathID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "INVALID_ID", errInvalidID)
		return
	}
	writeResult(r.Context(), h.responder, w, h.service.GetReservation(r.Context(), id), func(reservation application.Reservation) any {
		return toReservationDTO(reservation)
	})
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.reconcile(w, r, "")
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
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

func (h *ReservationHandler) reconcile(w http.ResponseWriter, r *http.Request, reservationID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, _ := IdentityFromContext(r.Context())
	logger := h.log(r.Context(), "Reconcile", "reservation_id", reservationID, "user_email", identity.Email)

	var req reservationRequest
	fields, err := decodeAndValidate(r, &req)
	if err != nil {
		logger.WarnContext(r.Context(), "failed to decode reservation request", "error", err, "error_kind", "bad_request")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "BAD_REQUEST", errBadRequestBody)
		return
	}
	if fields != nil {
		h.responder.writeValidation(r.Context(), w, fields)
		return
	}

	params, err := req.toParams()
	if err != nil {
		h.responder.writeValidation(r.Context(), w, map[string]string{"date": "date must use the YYYY-MM-DD format"})
		return
	}
	params.ReservationID = reservationID
	params.UserEmail = identity.Email

	writeResult(r.Context(), h.responder, w, h.service.Reconcile(r.Context(), params), func(reservation application.Reservation) any {
		return toReservationDTO(reservation)
	})
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	id, ok := pathID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "INVALID_ID", errInvalidID)
		return
	}
	writeResult[struct{}](r.Context(), h.responder, w, h.service.Delete(r.Context(), id), nil)
}

type reservationRequest struct {
	OfficeID      string  `json:"office_id" validate:"required"`
	OfficeZoneID  string  `json:"office_zone_id" validate:"required"`
	ParkingZoneID *string `json:"parking_zone_id"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	OfficeDesk    string  `json:"office_desk" validate:"required"`
	ParkingSpace  *string `json:"parking_space"`
}

func (r reservationRequest) toParams() (application.ReconcileReservationParams, error) {
	date, err := time.Parse(application.DateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return application.ReconcileReservationParams{}, err
	}
	var parkingZoneID *string
	if r.ParkingZoneID != nil {
		if trimmed := strings.TrimSpace(*r.ParkingZoneID); trimmed != "" {
			parkingZoneID = &trimmed
		}
	}
	return application.ReconcileReservationParams{
		OfficeID:      strings.TrimSpace(r.OfficeID),
		OfficeZoneID:  strings.TrimSpace(r.OfficeZoneID),
		ParkingZoneID: parkingZoneID,
		Date:          date,
		OfficeDesk:    strings.TrimSpace(r.OfficeDesk),
		ParkingSpace:  r.ParkingSpace,
	}, nil
}

type reservationDTO struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Office       officeDTO       `json:"office"`
	OfficeZone   officeZoneDTO   `json:"office_zone"`
	ParkingZone  *parkingZoneDTO `json:"parking_zone,omitempty"`
	OfficeDesk   string          `json:"office_desk"`
	ParkingSpace *string         `json:"parking_space,omitempty"`
	UserEmail    string          `json:"user_email"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

func toReservationDTO(reservation application.Reservation) reservationDTO {
	dto := reservationDTO{
		ID:           reservation.ID,
		Date:         reservation.Date.Format(application.DateLayout),
		Office:       toOfficeDTO(reservation.Office),
		OfficeZone:   toOfficeZoneDTO(reservation.OfficeZone),
		OfficeDesk:   reservation.OfficeDesk,
		ParkingSpace: reservation.ParkingSpace,
		UserEmail:    reservation.UserEmail,
		CreatedAt:    formatTimestamp(reservation.CreatedAt),
		UpdatedAt:    formatTimestamp(reservation.UpdatedAt),
	}
	if reservation.ParkingZone != nil {
		zone := toParkingZoneDTO(*reservation.ParkingZone)
		dto.ParkingZone = &zone
	}
	return dto
}
