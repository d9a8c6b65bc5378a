package application

import "time"

// Country is reference data shown to clients.
type Country struct {
	ID     string
	Name   string
	Symbol string
}

// City belongs to exactly one country.
type City struct {
	ID      string
	Name    string
	Country Country
}

// OfficeZone is a named desk area with a capacity.
type OfficeZone struct {
	ID    string
	Name  string
	Desks int
}

// ParkingZone is a named parking area with a capacity.
type ParkingZone struct {
	ID     string
	Name   string
	Spaces int
}

// Office is the projection returned to callers.
type Office struct {
	ID           string
	Address      string
	PostCode     string
	OfficeMapURL *string
	City         City
	AuthorEmail  string
	OfficeZones  []OfficeZone
	ParkingZones []ParkingZone
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OfficeChanges is a single atomic write of an office and its zones.
type OfficeChanges struct {
	Office               Office
	Create               bool
	DeleteOfficeZoneIDs  []string
	DeleteParkingZoneIDs []string
	UpdateOfficeZones    []OfficeZone
	CreateOfficeZones    []OfficeZone
	UpdateParkingZones   []ParkingZone
	CreateParkingZones   []ParkingZone
}

// ZoneInput is a desired zone: a name and a capacity.
type ZoneInput struct {
	Name     string
	Capacity int
}

// ReconcileOfficeParams describes the desired state of an office. An empty
// OfficeID creates a new office.
type ReconcileOfficeParams struct {
	OfficeID     string
	City         string
	Address      string
	PostCode     string
	OfficeMapURL *string
	OfficeZones  []ZoneInput
	ParkingZones []ZoneInput
	ActorEmail   string
}

// ReservationRecord is the stored shape of a reservation.
type ReservationRecord struct {
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

// ConflictQuery narrows the stored reservations that may collide with a
// candidate.
type ConflictQuery struct {
	Date         time.Time
	OfficeID     string
	OfficeZoneID string
	OfficeDesk   string
}

// Reservation is the projection returned to callers.
type Reservation struct {
	ID           string
	Date         time.Time
	Office       Office
	OfficeZone   OfficeZone
	ParkingZone  *ParkingZone
	OfficeDesk   string
	ParkingSpace *string
	UserEmail    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReconcileReservationParams describes a reservation to create or edit. An
// empty ReservationID creates a new reservation.
type ReconcileReservationParams struct {
	ReservationID string
	OfficeID      string
	OfficeZoneID  string
	ParkingZoneID *string
	Date          time.Time
	OfficeDesk    string
	ParkingSpace  *string
	UserEmail     string
}

// Account is a registered user.
type Account struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AuthToken is returned by register and login.
type AuthToken struct {
	Token          string
	ExpiresAt      time.Time
	UserName       string
	Email          string
	IsReceptionist bool
}

// RegisterParams carries a new account request.
type RegisterParams struct {
	UserName string
	Email    string
	Password string
}

// LoginParams carries a credential check.
type LoginParams struct {
	Email    string
	Password string
}
