package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/desk-reservation/internal/events"
	"github.com/example/desk-reservation/internal/persistence"
)

const (
	msgSaveFailed = "error occurred while saving changes to database"
	msgReadFailed = "error occurred while reading from database"
)

// OfficeRepository captures the persistence operations needed by the office service.
type OfficeRepository interface {
	GetOffice(ctx context.Context, id string) (Office, error)
	ListOffices(ctx context.Context) ([]Office, error)
	FindOfficesByAddress(ctx context.Context, address string) ([]Office, error)
	SaveOffice(ctx context.Context, changes OfficeChanges) error
	DeleteOffice(ctx context.Context, id string) error
}

// OfficeService reads offices and reconciles them with the desired state
// sent by receptionists.
type OfficeService struct {
	offices     OfficeRepository
	catalog     CatalogRepository
	publisher   events.Publisher
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewOfficeService constructs an office service with the provided dependencies.
func NewOfficeService(offices OfficeRepository, catalog CatalogRepository, publisher events.Publisher, idGenerator func() string, now func() time.Time) *OfficeService {
	return NewOfficeServiceWithLogger(offices, catalog, publisher, idGenerator, now, nil)
}

// NewOfficeServiceWithLogger constructs an office service with a specified logger.
func NewOfficeServiceWithLogger(offices OfficeRepository, catalog CatalogRepository, publisher events.Publisher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *OfficeService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &OfficeService{
		offices:     offices,
		catalog:     catalog,
		publisher:   publisher,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *OfficeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "OfficeService", operation, attrs...)
}

// ListOffices returns every office ordered by city name, address and id.
// An empty list is a successful result.
func (s *OfficeService) ListOffices(ctx context.Context) (result Result[[]Office]) {
	if s == nil || s.offices == nil {
		return BadRequest[[]Office]("office repository not configured")
	}

	var err error
	logger := s.loggerWith(ctx, "ListOffices")
	defer func() {
		logOutcome(ctx, logger.With("result_count", len(result.Data)), result, err, "failed to list offices", "offices listed")
	}()

	var raw []Office
	raw, err = s.offices.ListOffices(ctx)
	if err != nil {
		return BadRequest[[]Office](msgReadFailed)
	}

	offices := make([]Office, len(raw))
	for i, office := range raw {
		offices[i] = cloneOffice(office)
	}
	sort.SliceStable(offices, func(i, j int) bool {
		a, b := offices[i], offices[j]
		if a.City.Name != b.City.Name {
			return a.City.Name < b.City.Name
		}
		if a.Address != b.Address {
			return a.Address < b.Address
		}
		return a.ID < b.ID
	})
	return Ok(offices)
}

// GetOffice returns one office with its zones.
func (s *OfficeService) GetOffice(ctx context.Context, id string) (result Result[Office]) {
	if s == nil || s.offices == nil {
		return BadRequest[Office]("office repository not configured")
	}

	var err error
	logger := s.loggerWith(ctx, "GetOffice", "office_id", id)
	defer func() {
		logOutcome(ctx, logger, result, err, "failed to get office", "office fetched")
	}()

	var office Office
	office, err = s.offices.GetOffice(ctx, id)
	if err != nil {
		if isNotFound(err) {
			err = nil
			return NotFoundID[Office](id)
		}
		return BadRequest[Office](msgReadFailed)
	}
	return Ok(cloneOffice(office))
}

// Reconcile creates an office when params.OfficeID is empty and otherwise
// brings the stored office in line with params. Zones are matched by name.
func (s *OfficeService) Reconcile(ctx context.Context, params ReconcileOfficeParams) (result Result[Office]) {
	if s == nil || s.offices == nil || s.catalog == nil {
		return BadRequest[Office]("office repository not configured")
	}

	creating := strings.TrimSpace(params.OfficeID) == ""
	cityName := strings.TrimSpace(params.City)
	address := strings.TrimSpace(params.Address)

	var err error
	logger := s.loggerWith(ctx, "Reconcile",
		"office_id", params.OfficeID,
		"actor_email", params.ActorEmail,
		"create", creating,
	)
	defer func() {
		logOutcome(ctx, logger.With("result_office_id", result.Data.ID), result, err, "failed to reconcile office", "office reconciled")
	}()

	cityFound := true
	var city City
	city, err = s.catalog.GetCityByName(ctx, cityName)
	if err != nil {
		if !isNotFound(err) {
			return BadRequest[Office](msgReadFailed)
		}
		cityFound = false
		err = nil
	}

	var sameAddress []Office
	sameAddress, err = s.offices.FindOfficesByAddress(ctx, address)
	if err != nil {
		return BadRequest[Office](msgReadFailed)
	}

	var existing Office
	if !creating {
		existing, err = s.offices.GetOffice(ctx, params.OfficeID)
		if err != nil {
			if isNotFound(err) {
				err = nil
				return NotFoundID[Office](params.OfficeID)
			}
			return BadRequest[Office](msgReadFailed)
		}
		if !sameEmail(existing.AuthorEmail, params.ActorEmail) {
			return Forbidden[Office](fmt.Sprintf("user with %s email can not edit this office", params.ActorEmail))
		}
	}

	if vErr := validateOfficeParams(params, cityName, cityFound, sameAddress, existing.ID); vErr.HasErrors() {
		return BadRequest[Office](vErr.Messages...)
	}

	officeDiff := DiffZones(officeZonesToZones(existing.OfficeZones), params.OfficeZones, s.idGenerator)
	parkingDiff := DiffZones(parkingZonesToZones(existing.ParkingZones), params.ParkingZones, s.idGenerator)

	now := s.now()
	office := existing
	if creating {
		office = Office{ID: s.idGenerator(), CreatedAt: now}
	}
	office.City = city
	office.Address = address
	office.PostCode = strings.TrimSpace(params.PostCode)
	office.OfficeMapURL = normalizeOptionalString(params.OfficeMapURL)
	office.AuthorEmail = params.ActorEmail
	office.UpdatedAt = now
	office.OfficeZones = zonesToOfficeZones(officeDiff.Result())
	office.ParkingZones = zonesToParkingZones(parkingDiff.Result())

	err = s.offices.SaveOffice(ctx, OfficeChanges{
		Office:               office,
		Create:               creating,
		DeleteOfficeZoneIDs:  zoneIDs(officeDiff.Delete),
		DeleteParkingZoneIDs: zoneIDs(parkingDiff.Delete),
		UpdateOfficeZones:    zonesToOfficeZones(officeDiff.Update),
		CreateOfficeZones:    zonesToOfficeZones(officeDiff.Create),
		UpdateParkingZones:   zonesToParkingZones(parkingDiff.Update),
		CreateParkingZones:   zonesToParkingZones(parkingDiff.Create),
	})
	if err != nil {
		return BadRequest[Office](msgSaveFailed)
	}

	if saved, loadErr := s.offices.GetOffice(ctx, office.ID); loadErr == nil {
		office = saved
	} else {
		logger.WarnContext(ctx, "failed to reload office after save", "error", loadErr)
	}

	eventType := events.OfficeUpdated
	if creating {
		eventType = events.OfficeCreated
	}
	s.publish(ctx, logger, events.Event{
		Type:        eventType,
		AggregateID: office.ID,
		ActorEmail:  params.ActorEmail,
		OccurredAt:  now,
		Payload:     newOfficePayload(office),
	})
	return Ok(cloneOffice(office))
}

// Delete removes an office on behalf of its author.
func (s *OfficeService) Delete(ctx context.Context, id, actorEmail string) (result Result[struct{}]) {
	if s == nil || s.offices == nil {
		return BadRequest[struct{}]("office repository not configured")
	}

	var err error
	logger := s.loggerWith(ctx, "Delete", "office_id", id, "actor_email", actorEmail)
	defer func() {
		logOutcome(ctx, logger, result, err, "failed to delete office", "office deleted")
	}()

	var existing Office
	existing, err = s.offices.GetOffice(ctx, id)
	if err != nil {
		if isNotFound(err) {
			err = nil
			return NotFoundID[struct{}](id)
		}
		return BadRequest[struct{}](msgReadFailed)
	}
	if !sameEmail(existing.AuthorEmail, actorEmail) {
		return Forbidden[struct{}](fmt.Sprintf("user with %s email can not delete this office", actorEmail))
	}

	if err = s.offices.DeleteOffice(ctx, id); err != nil {
		if isNotFound(err) {
			err = nil
			return NotFoundID[struct{}](id)
		}
		return BadRequest[struct{}](msgSaveFailed)
	}

	s.publish(ctx, logger, events.Event{
		Type:        events.OfficeDeleted,
		AggregateID: id,
		ActorEmail:  actorEmail,
		OccurredAt:  s.now(),
	})
	return Ok(struct{}{})
}

func (s *OfficeService) publish(ctx context.Context, logger *slog.Logger, event events.Event) {
	publishEvent(ctx, s.publisher, logger, event)
}

func validateOfficeParams(params ReconcileOfficeParams, cityName string, cityFound bool, sameAddress []Office, editedID string) *ValidationError {
	vErr := &ValidationError{}

	if hasDuplicateNames(params.OfficeZones) {
		vErr.add("office zones must have different name")
	}
	if hasDuplicateNames(params.ParkingZones) {
		vErr.add("parking zones must have different name")
	}
	if hasEmptyName(params.OfficeZones) {
		vErr.add("office zone name can not be empty")
	}
	if hasEmptyName(params.ParkingZones) {
		vErr.add("parking zone name can not be empty")
	}

	address := strings.TrimSpace(params.Address)
	for _, other := range sameAddress {
		if other.ID != editedID && other.City.Name == cityName {
			vErr.add(fmt.Sprintf("address %s already taken", address))
			break
		}
	}

	if !cityFound {
		vErr.add(fmt.Sprintf("can not find city %s", cityName))
	}
	return vErr
}

func hasDuplicateNames(zones []ZoneInput) bool {
	seen := make(map[string]struct{}, len(zones))
	for _, zone := range zones {
		name := strings.TrimSpace(zone.Name)
		if _, ok := seen[name]; ok {
			return true
		}
		seen[name] = struct{}{}
	}
	return false
}

func hasEmptyName(zones []ZoneInput) bool {
	for _, zone := range zones {
		if strings.TrimSpace(zone.Name) == "" {
			return true
		}
	}
	return false
}

func cloneOffice(office Office) Office {
	out := office
	if office.OfficeMapURL != nil {
		url := *office.OfficeMapURL
		out.OfficeMapURL = &url
	}
	if office.OfficeZones != nil {
		out.OfficeZones = append([]OfficeZone(nil), office.OfficeZones...)
	}
	if office.ParkingZones != nil {
		out.ParkingZones = append([]ParkingZone(nil), office.ParkingZones...)
	}
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func normalizeOptionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
