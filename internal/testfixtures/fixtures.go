package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/desk-reservation/internal/application"
	"github.com/example/desk-reservation/internal/persistence"
)

// Seeded reference data shipped with both storage backends.
const (
	PolandCountryID  = "0b6e1f3a-5c2d-4a8e-9f10-3c4d5e6f7a01"
	GermanyCountryID = "0b6e1f3a-5c2d-4a8e-9f10-3c4d5e6f7a02"
	OlsztynCityID    = "7d2c9e4b-1a3f-4b6c-8d9e-0f1a2b3c4d01"
	WarszawaCityID   = "7d2c9e4b-1a3f-4b6c-8d9e-0f1a2b3c4d02"
	BerlinCityID     = "7d2c9e4b-1a3f-4b6c-8d9e-0f1a2b3c4d04"
)

var (
	officeCounter      uint64
	reservationCounter uint64
	accountCounter     uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns ReferenceTime truncated to a reservation date.
func ReferenceDate() time.Time {
	return time.Date(referenceTime.Year(), referenceTime.Month(), referenceTime.Day(), 0, 0, 0, 0, time.UTC)
}

// Olsztyn returns the seeded Polish city as an application value.
func Olsztyn() application.City {
	return application.City{ID: OlsztynCityID, Name: "Olsztyn", Country: application.Country{ID: PolandCountryID, Name: "Poland", Symbol: "PL"}}
}

// Berlin returns the seeded German city as an application value.
func Berlin() application.City {
	return application.City{ID: BerlinCityID, Name: "Berlin", Country: application.Country{ID: GermanyCountryID, Name: "Germany", Symbol: "DE"}}
}

// ----------------------------- Office fixtures -----------------------------

// ZoneFixture is a named zone with a capacity, used for desk and parking zones.
type ZoneFixture struct {
	ID       string
	Name     string
	Capacity int
}

// OfficeFixture represents a deterministic office with its zones.
type OfficeFixture struct {
	ID           string
	Address      string
	PostCode     string
	OfficeMapURL *string
	City         application.City
	AuthorEmail  string
	OfficeZones  []ZoneFixture
	ParkingZones []ZoneFixture
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OfficeOption configures the generated office fixture.
type OfficeOption func(*OfficeFixture)

// NewOfficeFixture returns an office in Olsztyn with one desk zone.
func NewOfficeFixture(opts ...OfficeOption) OfficeFixture {
	idx := atomic.AddUint64(&officeCounter, 1)
	id := fixtureUUID(1, idx)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := OfficeFixture{
		ID:          id,
		Address:     fmt.Sprintf("Street %03d", idx),
		PostCode:    "10-001",
		City:        Olsztyn(),
		AuthorEmail: "reception@example.com",
		OfficeZones: []ZoneFixture{{ID: fixtureUUID(2, idx), Name: "Open space", Capacity: 10}},
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithOfficeID overrides the generated office ID.
func WithOfficeID(id string) OfficeOption {
	return func(f *OfficeFixture) {
		f.ID = id
	}
}

// WithOfficeAddress overrides the generated address.
func WithOfficeAddress(address string) OfficeOption {
	return func(f *OfficeFixture) {
		f.Address = address
	}
}

// WithOfficeCity places the office in another seeded city.
func WithOfficeCity(city application.City) OfficeOption {
	return func(f *OfficeFixture) {
		f.City = city
	}
}

// WithOfficeAuthor sets the receptionist who owns the office.
func WithOfficeAuthor(email string) OfficeOption {
	return func(f *OfficeFixture) {
		f.AuthorEmail = email
	}
}

// WithOfficeMapURL sets the optional floor plan link.
func WithOfficeMapURL(url string) OfficeOption {
	return func(f *OfficeFixture) {
		value := url
		f.OfficeMapURL = &value
	}
}

// WithOfficeZones replaces the desk zones.
func WithOfficeZones(zones ...ZoneFixture) OfficeOption {
	return func(f *OfficeFixture) {
		f.OfficeZones = append([]ZoneFixture(nil), zones...)
	}
}

// WithParkingZones replaces the parking zones.
func WithParkingZones(zones ...ZoneFixture) OfficeOption {
	return func(f *OfficeFixture) {
		f.ParkingZones = append([]ZoneFixture(nil), zones...)
	}
}

// Application returns the fixture as an application.Office value.
func (f OfficeFixture) Application() application.Office {
	office := application.Office{
		ID:           f.ID,
		Address:      f.Address,
		PostCode:     f.PostCode,
		OfficeMapURL: copyStringPtr(f.OfficeMapURL),
		City:         f.City,
		AuthorEmail:  f.AuthorEmail,
		OfficeZones:  make([]application.OfficeZone, len(f.OfficeZones)),
		ParkingZones: make([]application.ParkingZone, len(f.ParkingZones)),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
	for i, z := range f.OfficeZones {
		office.OfficeZones[i] = application.OfficeZone{ID: z.ID, Name: z.Name, Desks: z.Capacity}
	}
	for i, z := range f.ParkingZones {
		office.ParkingZones[i] = application.ParkingZone{ID: z.ID, Name: z.Name, Spaces: z.Capacity}
	}
	return office
}

// Persistence returns the fixture as a persistence.Office value.
func (f OfficeFixture) Persistence() persistence.Office {
	office := persistence.Office{
		ID:           f.ID,
		Address:      f.Address,
		PostCode:     f.PostCode,
		OfficeMapURL: copyStringPtr(f.OfficeMapURL),
		CityID:       f.City.ID,
		AuthorEmail:  f.AuthorEmail,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
	for _, z := range f.OfficeZones {
		office.OfficeZones = append(office.OfficeZones, persistence.OfficeZone{ID: z.ID, OfficeID: f.ID, Name: z.Name, Desks: z.Capacity})
	}
	for _, z := range f.ParkingZones {
		office.ParkingZones = append(office.ParkingZones, persistence.ParkingZone{ID: z.ID, OfficeID: f.ID, Name: z.Name, Spaces: z.Capacity})
	}
	return office
}

// CreateChanges returns the write that inserts the office with all its zones.
func (f OfficeFixture) CreateChanges() persistence.OfficeChanges {
	office := f.Persistence()
	changes := persistence.OfficeChanges{
		Office:             office,
		Create:             true,
		CreateOfficeZones:  office.OfficeZones,
		CreateParkingZones: office.ParkingZones,
	}
	changes.Office.OfficeZones = nil
	changes.Office.ParkingZones = nil
	return changes
}

// Params returns the desired-state request that would produce the fixture.
func (f OfficeFixture) Params(actorEmail string) application.ReconcileOfficeParams {
	params := application.ReconcileOfficeParams{
		City:         f.City.Name,
		Address:      f.Address,
		PostCode:     f.PostCode,
		OfficeMapURL: copyStringPtr(f.OfficeMapURL),
		ActorEmail:   actorEmail,
	}
	for _, z := range f.OfficeZones {
		params.OfficeZones = append(params.OfficeZones, application.ZoneInput{Name: z.Name, Capacity: z.Capacity})
	}
	for _, z := range f.ParkingZones {
		params.ParkingZones = append(params.ParkingZones, application.ZoneInput{Name: z.Name, Capacity: z.Capacity})
	}
	return params
}

// -------------------------- Reservation fixtures --------------------------

// ReservationFixture represents a deterministic reservation record.
type ReservationFixture struct {
	ID            string
	Date          time.Time
	OfficeID      string
	OfficeZoneID  string
	ParkingZoneID *string
	OfficeDesk    string
	ParkingSpace  *string
	UserEmail     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReservationOption configures the generated reservation fixture.
type ReservationOption func(*ReservationFixture)

// NewReservationFixture returns a desk reservation in the given office zone.
func NewReservationFixture(officeID, officeZoneID string, opts ...ReservationOption) ReservationFixture {
	idx := atomic.AddUint64(&reservationCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ReservationFixture{
		ID:           fixtureUUID(3, idx),
		Date:         ReferenceDate(),
		OfficeID:     officeID,
		OfficeZoneID: officeZoneID,
		OfficeDesk:   fmt.Sprintf("D%d", idx),
		UserEmail:    "anna@example.com",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithReservationID overrides the generated reservation ID.
func WithReservationID(id string) ReservationOption {
	return func(f *ReservationFixture) {
		f.ID = id
	}
}

// WithReservationDate overrides the reserved day.
func WithReservationDate(date time.Time) ReservationOption {
	return func(f *ReservationFixture) {
		f.Date = date
	}
}

// WithReservationDesk overrides the desk label.
func WithReservationDesk(desk string) ReservationOption {
	return func(f *ReservationFixture) {
		f.OfficeDesk = desk
	}
}

// WithReservationParking attaches a parking zone and space.
func WithReservationParking(zoneID, space string) ReservationOption {
	return func(f *ReservationFixture) {
		id, label := zoneID, space
		f.ParkingZoneID = &id
		f.ParkingSpace = &label
	}
}

// WithReservationUser sets the owner email.
func WithReservationUser(email string) ReservationOption {
	return func(f *ReservationFixture) {
		f.UserEmail = email
	}
}

// Record returns the fixture as an application.ReservationRecord value.
func (f ReservationFixture) Record() application.ReservationRecord {
	return application.ReservationRecord{
		ID:            f.ID,
		Date:          f.Date,
		OfficeID:      f.OfficeID,
		OfficeZoneID:  f.OfficeZoneID,
		ParkingZoneID: copyStringPtr(f.ParkingZoneID),
		OfficeDesk:    f.OfficeDesk,
		ParkingSpace:  copyStringPtr(f.ParkingSpace),
		UserEmail:     f.UserEmail,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Reservation value.
func (f ReservationFixture) Persistence() persistence.Reservation {
	return persistence.Reservation{
		ID:            f.ID,
		Date:          f.Date,
		OfficeID:      f.OfficeID,
		OfficeZoneID:  f.OfficeZoneID,
		ParkingZoneID: copyStringPtr(f.ParkingZoneID),
		OfficeDesk:    f.OfficeDesk,
		ParkingSpace:  copyStringPtr(f.ParkingSpace),
		UserEmail:     f.UserEmail,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// Params returns the request that would create the fixture.
func (f ReservationFixture) Params() application.ReconcileReservationParams {
	return application.ReconcileReservationParams{
		OfficeID:      f.OfficeID,
		OfficeZoneID:  f.OfficeZoneID,
		ParkingZoneID: copyStringPtr(f.ParkingZoneID),
		Date:          f.Date,
		OfficeDesk:    f.OfficeDesk,
		ParkingSpace:  copyStringPtr(f.ParkingSpace),
		UserEmail:     f.UserEmail,
	}
}

// ---------------------------- Account fixtures ----------------------------

// AccountFixture represents a registered user.
type AccountFixture struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountOption configures the generated account fixture.
type AccountOption func(*AccountFixture)

// NewAccountFixture returns a deterministic account.
func NewAccountFixture(opts ...AccountOption) AccountFixture {
	idx := atomic.AddUint64(&accountCounter, 1)
	fixture := AccountFixture{
		ID:           fixtureUUID(4, idx),
		UserName:     fmt.Sprintf("User %03d", idx),
		Email:        fmt.Sprintf("user-%03d@example.com", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAccountEmail overrides the generated email.
func WithAccountEmail(email string) AccountOption {
	return func(f *AccountFixture) {
		f.Email = email
	}
}

// WithAccountPasswordHash overrides the stored hash.
func WithAccountPasswordHash(hash string) AccountOption {
	return func(f *AccountFixture) {
		f.PasswordHash = hash
	}
}

// Application returns the fixture as an application.Account value.
func (f AccountFixture) Application() application.Account {
	return application.Account{ID: f.ID, UserName: f.UserName, Email: f.Email, PasswordHash: f.PasswordHash, CreatedAt: f.CreatedAt}
}

// Persistence returns the fixture as a persistence.Account value.
func (f AccountFixture) Persistence() persistence.Account {
	return persistence.Account{ID: f.ID, UserName: f.UserName, Email: f.Email, PasswordHash: f.PasswordHash, CreatedAt: f.CreatedAt}
}

// fixtureUUID renders a version 4 shaped id so fixtures pass path validation.
func fixtureUUID(kind, idx uint64) string {
	return fmt.Sprintf("00000000-0000-4%03d-8000-%012d", kind, idx)
}

func copyStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
