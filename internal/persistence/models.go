package persistence

import "time"

// Country is seeded reference data.
type Country struct {
	ID     string
	Name   string
	Symbol string
}

// City belongs to exactly one country.
type City struct {
	ID        string
	Name      string
	CountryID string
	Country   Country
}

// Office is the aggregate root for office and parking zones.
type Office struct {
	ID           string
	Address      string
	PostCode     string
	OfficeMapURL *string
	CityID       string
	City         City
	AuthorEmail  string
	OfficeZones  []OfficeZone
	ParkingZones []ParkingZone
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OfficeZone is a named desk area with a desk capacity.
type OfficeZone struct {
	ID       string
	OfficeID string
	Name     string
	Desks    int
}

// ParkingZone is a named parking area with a space capacity.
type ParkingZone struct {
	ID       string
	OfficeID string
	Name     string
	Spaces   int
}

// OfficeChanges describes one atomic write of an office aggregate. When Create
// is set the office row is inserted, otherwise it is updated in place.
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

// Reservation books a desk (and optionally a parking space) for one day.
type Reservation struct {
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

// ConflictQuery narrows the reservations that may collide with a candidate.
type ConflictQuery struct {
	Date         time.Time
	OfficeID     string
	OfficeZoneID string
	OfficeDesk   string
}

// Account is a registered user with an argon2id password hash.
type Account struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
