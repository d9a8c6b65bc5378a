package persistence

import "context"

// CatalogRepository reads seeded countries and cities.
type CatalogRepository interface {
	ListCountries(ctx context.Context) ([]Country, error)
	ListCities(ctx context.Context) ([]City, error)
	GetCityByName(ctx context.Context, name string) (City, error)
}

// OfficeRepository persists office aggregates together with their zones.
type OfficeRepository interface {
	GetOffice(ctx context.Context, id string) (Office, error)
	ListOffices(ctx context.Context) ([]Office, error)
	FindOfficesByAddress(ctx context.Context, address string) ([]Office, error)
	SaveOffice(ctx context.Context, changes OfficeChanges) error
	DeleteOffice(ctx context.Context, id string) error
	GetOfficeZone(ctx context.Context, id string) (OfficeZone, error)
	GetParkingZone(ctx context.Context, id string) (ParkingZone, error)
}

// ReservationRepository stores desk reservations.
type ReservationRepository interface {
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListReservations(ctx context.Context) ([]Reservation, error)
	FindReservationConflicts(ctx context.Context, query ConflictQuery) ([]Reservation, error)
	CreateReservation(ctx context.Context, reservation Reservation) error
	UpdateReservation(ctx context.Context, reservation Reservation) error
	DeleteReservation(ctx context.Context, id string) error
}

// AccountRepository stores registered accounts and the receptionist role.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account Account) error
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	IsReceptionist(ctx context.Context, email string) (bool, error)
	AddReceptionist(ctx context.Context, email string) error
}

// Pinger reports store health.
type Pinger interface {
	Ping(ctx context.Context) error
}
