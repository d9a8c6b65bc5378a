package main

import (
	"context"

	"github.com/example/desk-reservation/internal/application"
	"github.com/example/desk-reservation/internal/persistence"
)

type catalogRepositoryAdapter struct {
	repo persistence.CatalogRepository
}

func newCatalogRepositoryAdapter(repo persistence.CatalogRepository) *catalogRepositoryAdapter {
	return &catalogRepositoryAdapter{repo: repo}
}

func (a *catalogRepositoryAdapter) ListCountries(ctx context.Context) ([]application.Country, error) {
	stored, err := a.repo.ListCountries(ctx)
	if err != nil {
		return nil, err
	}
	countries := make([]application.Country, len(stored))
	for i, country := range stored {
		countries[i] = toApplicationCountry(country)
	}
	return countries, nil
}

func (a *catalogRepositoryAdapter) ListCities(ctx context.Context) ([]application.City, error) {
	stored, err := a.repo.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	cities := make([]application.City, len(stored))
	for i, city := range stored {
		cities[i] = toApplicationCity(city)
	}
	return cities, nil
}

func (a *catalogRepositoryAdapter) GetCityByName(ctx context.Context, name string) (application.City, error) {
	stored, err := a.repo.GetCityByName(ctx, name)
	if err != nil {
		return application.City{}, err
	}
	return toApplicationCity(stored), nil
}

// officeRepositoryAdapter serves both the office service and the reservation
// service's lookups.
type officeRepositoryAdapter struct {
	repo persistence.OfficeRepository
}

func newOfficeRepositoryAdapter(repo persistence.OfficeRepository) *officeRepositoryAdapter {
	return &officeRepositoryAdapter{repo: repo}
}

func (a *officeRepositoryAdapter) GetOffice(ctx context.Context, id string) (application.Office, error) {
	stored, err := a.repo.GetOffice(ctx, id)
	if err != nil {
		return application.Office{}, err
	}
	return toApplicationOffice(stored), nil
}

func (a *officeRepositoryAdapter) ListOffices(ctx context.Context) ([]application.Office, error) {
	stored, err := a.repo.ListOffices(ctx)
	if err != nil {
		return nil, err
	}
	return toApplicationOffices(stored), nil
}

func (a *officeRepositoryAdapter) FindOfficesByAddress(ctx context.Context, address string) ([]application.Office, error) {
	stored, err := a.repo.FindOfficesByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	return toApplicationOffices(stored), nil
}

func (a *officeRepositoryAdapter) SaveOffice(ctx context.Context, changes application.OfficeChanges) error {
	officeID := changes.Office.ID
	return a.repo.SaveOffice(ctx, persistence.OfficeChanges{
		Office:               toPersistenceOffice(changes.Office),
		Create:               changes.Create,
		DeleteOfficeZoneIDs:  changes.DeleteOfficeZoneIDs,
		DeleteParkingZoneIDs: changes.DeleteParkingZoneIDs,
		UpdateOfficeZones:    toPersistenceOfficeZones(officeID, changes.UpdateOfficeZones),
		CreateOfficeZones:    toPersistenceOfficeZones(officeID, changes.CreateOfficeZones),
		UpdateParkingZones:   toPersistenceParkingZones(officeID, changes.UpdateParkingZones),
		CreateParkingZones:   toPersistenceParkingZones(officeID, changes.CreateParkingZones),
	})
}

func (a *officeRepositoryAdapter) DeleteOffice(ctx context.Context, id string) error {
	return a.repo.DeleteOffice(ctx, id)
}

func (a *officeRepositoryAdapter) GetOfficeZone(ctx context.Context, id string) (application.OfficeZone, error) {
	stored, err := a.repo.GetOfficeZone(ctx, id)
	if err != nil {
		return application.OfficeZone{}, err
	}
	return application.OfficeZone{ID: stored.ID, Name: stored.Name, Desks: stored.Desks}, nil
}

func (a *officeRepositoryAdapter) GetParkingZone(ctx context.Context, id string) (application.ParkingZone, error) {
	stored, err := a.repo.GetParkingZone(ctx, id)
	if err != nil {
		return application.ParkingZone{}, err
	}
	return application.ParkingZone{ID: stored.ID, Name: stored.Name, Spaces: stored.Spaces}, nil
}

type reservationRepositoryAdapter struct {
	repo persistence.ReservationRepository
}

func newReservationRepositoryAdapter(repo persistence.ReservationRepository) *reservationRepositoryAdapter {
	return &reservationRepositoryAdapter{repo: repo}
}

func (a *reservationRepositoryAdapter) GetReservation(ctx context.Context, id string) (application.ReservationRecord, error) {
	stored, err := a.repo.GetReservation(ctx, id)
	if err != nil {
		return application.ReservationRecord{}, err
	}
	return toApplicationReservation(stored), nil
}

func (a *reservationRepositoryAdapter) ListReservations(ctx context.Context) ([]application.ReservationRecord, error) {
	stored, err := a.repo.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(stored), nil
}

func (a *reservationRepositoryAdapter) FindReservationConflicts(ctx context.Context, query application.ConflictQuery) ([]application.ReservationRecord, error) {
	stored, err := a.repo.FindReservationConflicts(ctx, persistence.ConflictQuery{
		Date:         query.Date,
		OfficeID:     query.OfficeID,
		OfficeZoneID: query.OfficeZoneID,
		OfficeDesk:   query.OfficeDesk,
	})
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(stored), nil
}

func (a *reservationRepositoryAdapter) CreateReservation(ctx context.Context, record application.ReservationRecord) error {
	return a.repo.CreateReservation(ctx, toPersistenceReservation(record))
}

func (a *reservationRepositoryAdapter) UpdateReservation(ctx context.Context, record application.ReservationRecord) error {
	return a.repo.UpdateReservation(ctx, toPersistenceReservation(record))
}

func (a *reservationRepositoryAdapter) DeleteReservation(ctx context.Context, id string) error {
	return a.repo.DeleteReservation(ctx, id)
}

type accountRepositoryAdapter struct {
	repo persistence.AccountRepository
}

func newAccountRepositoryAdapter(repo persistence.AccountRepository) *accountRepositoryAdapter {
	return &accountRepositoryAdapter{repo: repo}
}

func (a *accountRepositoryAdapter) CreateAccount(ctx context.Context, account application.Account) error {
	return a.repo.CreateAccount(ctx, persistence.Account{
		ID:           account.ID,
		UserName:     account.UserName,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt,
	})
}

func (a *accountRepositoryAdapter) GetAccountByEmail(ctx context.Context, email string) (application.Account, error) {
	stored, err := a.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return application.Account{}, err
	}
	return application.Account{
		ID:           stored.ID,
		UserName:     stored.UserName,
		Email:        stored.Email,
		PasswordHash: stored.PasswordHash,
		CreatedAt:    stored.CreatedAt,
	}, nil
}

func (a *accountRepositoryAdapter) IsReceptionist(ctx context.Context, email string) (bool, error) {
	return a.repo.IsReceptionist(ctx, email)
}

func (a *accountRepositoryAdapter) AddReceptionist(ctx context.Context, email string) error {
	return a.repo.AddReceptionist(ctx, email)
}

func toApplicationCountry(model persistence.Country) application.Country {
	return application.Country{ID: model.ID, Name: model.Name, Symbol: model.Symbol}
}

func toApplicationCity(model persistence.City) application.City {
	country := toApplicationCountry(model.Country)
	if country.ID == "" {
		country.ID = model.CountryID
	}
	return application.City{ID: model.ID, Name: model.Name, Country: country}
}

func toApplicationOffice(model persistence.Office) application.Office {
	city := toApplicationCity(model.City)
	if city.ID == "" {
		city.ID = model.CityID
	}
	office := application.Office{
		ID:           model.ID,
		Address:      model.Address,
		PostCode:     model.PostCode,
		OfficeMapURL: cloneString(model.OfficeMapURL),
		City:         city,
		AuthorEmail:  model.AuthorEmail,
		OfficeZones:  make([]application.OfficeZone, len(model.OfficeZones)),
		ParkingZones: make([]application.ParkingZone, len(model.ParkingZones)),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
	for i, zone := range model.OfficeZones {
		office.OfficeZones[i] = application.OfficeZone{ID: zone.ID, Name: zone.Name, Desks: zone.Desks}
	}
	for i, zone := range model.ParkingZones {
		office.ParkingZones[i] = application.ParkingZone{ID: zone.ID, Name: zone.Name, Spaces: zone.Spaces}
	}
	return office
}

func toApplicationOffices(models []persistence.Office) []application.Office {
	offices := make([]application.Office, len(models))
	for i, model := range models {
		offices[i] = toApplicationOffice(model)
	}
	return offices
}

// toPersistenceOffice drops the zones; they travel in the change lists.
func toPersistenceOffice(office application.Office) persistence.Office {
	return persistence.Office{
		ID:           office.ID,
		Address:      office.Address,
		PostCode:     office.PostCode,
		OfficeMapURL: cloneString(office.OfficeMapURL),
		CityID:       office.City.ID,
		AuthorEmail:  office.AuthorEmail,
		CreatedAt:    office.CreatedAt,
		UpdatedAt:    office.UpdatedAt,
	}
}

func toPersistenceOfficeZones(officeID string, zones []application.OfficeZone) []persistence.OfficeZone {
	if len(zones) == 0 {
		return nil
	}
	out := make([]persistence.OfficeZone, len(zones))
	for i, zone := range zones {
		out[i] = persistence.OfficeZone{ID: zone.ID, OfficeID: officeID, Name: zone.Name, Desks: zone.Desks}
	}
	return out
}

func toPersistenceParkingZones(officeID string, zones []application.ParkingZone) []persistence.ParkingZone {
	if len(zones) == 0 {
		return nil
	}
	out := make([]persistence.ParkingZone, len(zones))
	for i, zone := range zones {
		out[i] = persistence.ParkingZone{ID: zone.ID, OfficeID: officeID, Name: zone.Name, Spaces: zone.Spaces}
	}
	return out
}

func toApplicationReservation(model persistence.Reservation) application.ReservationRecord {
	return application.ReservationRecord{
		ID:            model.ID,
		Date:          model.Date,
		OfficeID:      model.OfficeID,
		OfficeZoneID:  model.OfficeZoneID,
		ParkingZoneID: cloneString(model.ParkingZoneID),
		OfficeDesk:    model.OfficeDesk,
		ParkingSpace:  cloneString(model.ParkingSpace),
		UserEmail:     model.UserEmail,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toApplicationReservations(models []persistence.Reservation) []application.ReservationRecord {
	records := make([]application.ReservationRecord, len(models))
	for i, model := range models {
		records[i] = toApplicationReservation(model)
	}
	return records
}

func toPersistenceReservation(record application.ReservationRecord) persistence.Reservation {
	return persistence.Reservation{
		ID:            record.ID,
		Date:          record.Date,
		OfficeID:      record.OfficeID,
		OfficeZoneID:  record.OfficeZoneID,
		ParkingZoneID: cloneString(record.ParkingZoneID),
		OfficeDesk:    record.OfficeDesk,
		ParkingSpace:  cloneString(record.ParkingSpace),
		UserEmail:     record.UserEmail,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
