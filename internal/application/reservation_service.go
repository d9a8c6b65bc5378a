package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/desk-reservation/internal/events"
	"github.com/example/desk-reservation/internal/scheduler"
)

// DateLayout is the wire and storage format of reservation dates.
const DateLayout = "2006-01-02"

const (
	msgSeatReserved      = "this seat is already reserved"
	msgAddReservation    = "can't add new reservation"
	msgEditReservation   = "can't edit reservation"
	msgDeleteReservation = "error while deleting reservation"
)

// ReservationRepository captures the persistence operations needed by the reservation service.
type ReservationRepository interface {
	GetReservation(ctx context.Context, id string) (ReservationRecord, error)
	ListReservations(ctx context.Context) ([]ReservationRecord, error)
	FindReservationConflicts(ctx context.Context, query ConflictQuery) ([]ReservationRecord, error)
	CreateReservation(ctx context.Context, record ReservationRecord) error
	UpdateReservation(ctx context.Context, record ReservationRecord) error
	DeleteReservation(ctx context.Context, id string) error
}

// OfficeLookup resolves the references a reservation points at.
type OfficeLookup interface {
	GetOffice(ctx context.Context, id string) (Office, error)
	GetOfficeZone(ctx context.Context, id string) (OfficeZone, error)
	GetParkingZone(ctx context.Context, id string) (ParkingZone, error)
}

// ReservationService books desks and parking spaces.
type ReservationService struct {
	reservations ReservationRepository
	offices      OfficeLookup
	publisher    events.Publisher
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewReservationService constructs a reservation service with the provided dependencies.
func NewReservationService(reservations ReservationRepository, offices OfficeLookup, publisher events.Publisher, idGenerator func() string, now func() time.Time) *ReservationService {
	return NewReservationServiceWithLogger(reservations, offices, publisher, idGenerator, now, nil)
}

// NewReservationServiceWithLogger constructs a reservation service with a specified logger.
func NewReservationServiceWithLogger(reservations ReservationRepository, offices OfficeLookup, publisher events.Publisher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		offices:      offices,
		publisher:    publisher,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// ListReservations returns every reservation ordered by date then id.
func (s *ReservationService) ListReservations(ctx context.Context) (result Result[[]Reservation]) {
	if s == nil || s.reservations == nil || s.offices == nil {
		return BadRequest[[]Reservation]("reservation repository not configured")
	}

	var err error
	logger := s.loggerWith(ctx, "ListReservations")
	defer func() {
		logOutcome(ctx, logger.With("result_count", len(result.Data)), result, err, "failed to list reservations", "reservations listed")
	}()

	var records []ReservationRecord
	records, err = s.reservations.ListReservations(ctx)
	if err != nil {
		return BadRequest[[]Reservation](msgReadFailed)
	}

	refs := newReferenceCache(s.offices)
	out := make([]Reservation, 0, len(records))
	for _, record := range records {
		var projected Reservation
		projected, err = refs.project(ctx, record)
		if err != nil {
			return BadRequest[[]Reservation](msgReadFailed)
		}
		out = append(out, projected)
	}
	return Ok(out)
}

// GetReservation returns one reservation with its office and zones.
func (s *ReservationService) GetReservation(ctx context.Context, id string) (result Result[Reservation]) {
	if s == nil || s.reservations == nil || s.offices == nil {
		return BadRequest[Reservation]("reservation repository not configured")
	}

	var err error
	logger := s.loggerWith(ctx, "GetReservation", "reservation_id", id)
	defer func() {
		logOutcome(ctx, logger, result, err, "failed to get reservation", "reservation fetched")
	}()

	var record ReservationRecord
	record, err = s.reservations.GetReservation(ctx, id)
	if err != nil {
		if isNotFound(err) {
			err = nil
			return NotFoundID[Reservation](id)
		}
		return BadRequest[Reservation](msgReadFailed)
	}

	var projected Reservation
	projected, err = newReferenceCache(s.offices).project(ctx, record)
	if err != nil {
		return BadRequest[Reservation](msgReadFailed)
	}
	return Ok(projected)
}

// Reconcile creates a reservation when params.ReservationID is empty and
// otherwise overwrites the stored one. Only creation checks for collisions.
func (s *ReservationService) Reconcile(ctx context.Context, params ReconcileReservationParams) (result Result[Reservation]) {
	if s == nil || s.reservations == nil || s.offices == nil {
		return BadRequest[Reservation]("reservation repository not configured")
	}

	creating := params.ReservationID == ""

	var err error
	logger := s.loggerWith(ctx, "Reconcile",
		"reservation_id", params.ReservationID,
		"office_id", params.OfficeID,
		"user_email", params.UserEmail,
		"create", creating,
	)
	defer func() {
		logOutcome(ctx, logger.With("result_reservation_id", result.Data.ID), result, err, "failed to reconcile reservation", "reservation reconciled")
	}()

	var refs resolvedReferences
	refs, err = s.resolve(ctx, params)
	if err != nil {
		return BadRequest[Reservation](msgReadFailed)
	}
	if refs.errors.HasErrors() {
		return BadRequest[Reservation](refs.errors.Messages...)
	}

	var parkingZoneID *string
	if refs.parkingZone != nil {
		id := refs.parkingZone.ID
		parkingZoneID = &id
	}

	now := s.now()
	var record ReservationRecord
	eventType := events.ReservationUpdated

	if creating {
		record = ReservationRecord{
			ID:            s.idGenerator(),
			Date:          dateOnly(params.Date),
			OfficeID:      refs.office.ID,
			OfficeZoneID:  refs.officeZone.ID,
			ParkingZoneID: parkingZoneID,
			OfficeDesk:    params.OfficeDesk,
			ParkingSpace:  normalizeOptionalString(params.ParkingSpace),
			UserEmail:     params.UserEmail,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		var candidates []ReservationRecord
		candidates, err = s.reservations.FindReservationConflicts(ctx, ConflictQuery{
			Date:         record.Date,
			OfficeID:     record.OfficeID,
			OfficeZoneID: record.OfficeZoneID,
			OfficeDesk:   record.OfficeDesk,
		})
		if err != nil {
			return BadRequest[Reservation](msgAddReservation)
		}
		if conflicts := scheduler.DetectConflicts(toSlots(candidates), toSlot(record)); len(conflicts) > 0 {
			logger.InfoContext(ctx, "reservation collides",
				"conflict_with", conflicts[0].WithReservationID,
				"conflict_type", string(conflicts[0].Type),
			)
			return BadRequest[Reservation](msgSeatReserved)
		}

		if err = s.reservations.CreateReservation(ctx, record); err != nil {
			return BadRequest[Reservation](msgAddReservation)
		}
		eventType = events.ReservationCreated
	} else {
		record, err = s.reservations.GetReservation(ctx, params.ReservationID)
		if err != nil {
			if isNotFound(err) {
				err = nil
				return NotFoundID[Reservation](params.ReservationID)
			}
			return BadRequest[Reservation](msgEditReservation)
		}

		record.Date = dateOnly(params.Date)
		record.OfficeID = refs.office.ID
		record.OfficeZoneID = refs.officeZone.ID
		record.ParkingZoneID = parkingZoneID
		record.UserEmail = params.UserEmail
		record.UpdatedAt = now

		if err = s.reservations.UpdateReservation(ctx, record); err != nil {
			if isNotFound(err) {
				err = nil
				return NotFoundID[Reservation](params.ReservationID)
			}
			return BadRequest[Reservation](msgEditReservation)
		}
	}

	publishEvent(ctx, s.publisher, logger, events.Event{
		Type:        eventType,
		AggregateID: record.ID,
		ActorEmail:  params.UserEmail,
		OccurredAt:  now,
		Payload:     newReservationPayload(record),
	})

	return Ok(Reservation{
		ID:           record.ID,
		Date:         record.Date,
		Office:       cloneOffice(refs.office),
		OfficeZone:   refs.officeZone,
		ParkingZone:  refs.parkingZone,
		OfficeDesk:   record.OfficeDesk,
		ParkingSpace: record.ParkingSpace,
		UserEmail:    record.UserEmail,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	})
}

// Delete removes a reservation.
func (s *ReservationService) Delete(ctx context.Context, id string) (result Result[struct{}]) {
	if s == nil || s.reservations == nil {
		return BadRequest[struct{}]("reservation repository not configured")
	}

	var err error
	logger := s.loggerWith(ctx, "Delete", "reservation_id", id)
	defer func() {
		logOutcome(ctx, logger, result, err, "failed to delete reservation", "reservation deleted")
	}()

	var record ReservationRecord
	record, err = s.reservations.GetReservation(ctx, id)
	if err != nil {
		if isNotFound(err) {
			err = nil
			return NotFoundID[struct{}](id)
		}
		return BadRequest[struct{}](msgDeleteReservation)
	}

	if err = s.reservations.DeleteReservation(ctx, id); err != nil {
		if isNotFound(err) {
			err = nil
			return NotFoundID[struct{}](id)
		}
		return BadRequest[struct{}](msgDeleteReservation)
	}

	publishEvent(ctx, s.publisher, logger, events.Event{
		Type:        events.ReservationDeleted,
		AggregateID: id,
		ActorEmail:  record.UserEmail,
		OccurredAt:  s.now(),
	})
	return Ok(struct{}{})
}

type resolvedReferences struct {
	office      Office
	officeZone  OfficeZone
	parkingZone *ParkingZone
	errors      *ValidationError
}

// resolve looks up every reference and accumulates one message per missing
// one. A non-nil error means the store itself failed.
func (s *ReservationService) resolve(ctx context.Context, params ReconcileReservationParams) (resolvedReferences, error) {
	refs := resolvedReferences{errors: &ValidationError{}}

	office, err := s.offices.GetOffice(ctx, params.OfficeID)
	switch {
	case err == nil:
		refs.office = office
	case isNotFound(err):
		refs.errors.add(fmt.Sprintf("office with id: %s does not exist", params.OfficeID))
	default:
		return refs, err
	}

	zone, err := s.offices.GetOfficeZone(ctx, params.OfficeZoneID)
	switch {
	case err == nil:
		refs.officeZone = zone
	case isNotFound(err):
		refs.errors.add(fmt.Sprintf("office zone with id: %s does not exist", params.OfficeZoneID))
	default:
		return refs, err
	}

	if params.ParkingZoneID != nil {
		parking, err := s.offices.GetParkingZone(ctx, *params.ParkingZoneID)
		switch {
		case err == nil:
			refs.parkingZone = &parking
		case isNotFound(err):
			refs.errors.add(fmt.Sprintf("parking zone with id: %s does not exist", *params.ParkingZoneID))
		default:
			return refs, err
		}
	}
	return refs, nil
}

// referenceCache memoizes lookups while projecting a batch of reservations.
type referenceCache struct {
	lookup       OfficeLookup
	offices      map[string]Office
	officeZones  map[string]OfficeZone
	parkingZones map[string]ParkingZone
}

func newReferenceCache(lookup OfficeLookup) *referenceCache {
	return &referenceCache{
		lookup:       lookup,
		offices:      make(map[string]Office),
		officeZones:  make(map[string]OfficeZone),
		parkingZones: make(map[string]ParkingZone),
	}
}

// project builds the caller view of record. References that no longer
// resolve keep only their id.
func (c *referenceCache) project(ctx context.Context, record ReservationRecord) (Reservation, error) {
	out := Reservation{
		ID:           record.ID,
		Date:         record.Date,
		OfficeDesk:   record.OfficeDesk,
		ParkingSpace: record.ParkingSpace,
		UserEmail:    record.UserEmail,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}

	office, ok := c.offices[record.OfficeID]
	if !ok {
		var err error
		office, err = c.lookup.GetOffice(ctx, record.OfficeID)
		if err != nil && !isNotFound(err) {
			return Reservation{}, err
		}
		if err != nil {
			office = Office{ID: record.OfficeID}
		}
		c.offices[record.OfficeID] = office
	}
	out.Office = cloneOffice(office)

	zone, ok := c.officeZones[record.OfficeZoneID]
	if !ok {
		var err error
		zone, err = c.lookup.GetOfficeZone(ctx, record.OfficeZoneID)
		if err != nil && !isNotFound(err) {
			return Reservation{}, err
		}
		if err != nil {
			zone = OfficeZone{ID: record.OfficeZoneID}
		}
		c.officeZones[record.OfficeZoneID] = zone
	}
	out.OfficeZone = zone

	if record.ParkingZoneID != nil {
		id := *record.ParkingZoneID
		parking, ok := c.parkingZones[id]
		if !ok {
			var err error
			parking, err = c.lookup.GetParkingZone(ctx, id)
			if err != nil && !isNotFound(err) {
				return Reservation{}, err
			}
			if err != nil {
				parking = ParkingZone{ID: id}
			}
			c.parkingZones[id] = parking
		}
		out.ParkingZone = &parking
	}
	return out, nil
}

func toSlot(record ReservationRecord) scheduler.Slot {
	return scheduler.Slot{
		ID:            record.ID,
		Date:          record.Date,
		OfficeID:      record.OfficeID,
		OfficeZoneID:  record.OfficeZoneID,
		ParkingZoneID: record.ParkingZoneID,
		ParkingSpace:  record.ParkingSpace,
		OfficeDesk:    record.OfficeDesk,
	}
}

func toSlots(records []ReservationRecord) []scheduler.Slot {
	slots := make([]scheduler.Slot, len(records))
	for i, record := range records {
		slots[i] = toSlot(record)
	}
	return slots
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
