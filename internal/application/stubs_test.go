package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	testCountry = Country{ID: "country-pl", Name: "Poland", Symbol: "PL"}
	olsztyn     = City{ID: "city-olsztyn", Name: "Olsztyn", Country: testCountry}
	warsaw      = City{ID: "city-warsaw", Name: "Warszawa", Country: testCountry}
)

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func fixedNow() func() time.Time {
	return func() time.Time { return time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC) }
}

// officeStore keeps offices in memory and applies OfficeChanges the way a
// transactional store would.
type officeStore struct {
	cities  []City
	offices map[string]Office

	saveErr   error
	deleteErr error
	getErr    error
	listErr   error
	saves     int
}

func newOfficeStore(cities ...City) *officeStore {
	if len(cities) == 0 {
		cities = []City{olsztyn, warsaw}
	}
	return &officeStore{cities: cities, offices: make(map[string]Office)}
}

func (s *officeStore) ListCountries(ctx context.Context) ([]Country, error) {
	return []Country{testCountry}, nil
}

func (s *officeStore) ListCities(ctx context.Context) ([]City, error) {
	return append([]City(nil), s.cities...), nil
}

func (s *officeStore) GetCityByName(ctx context.Context, name string) (City, error) {
	for _, c := range s.cities {
		if c.Name == name {
			return c, nil
		}
	}
	return City{}, ErrNotFound
}

func (s *officeStore) GetOffice(ctx context.Context, id string) (Office, error) {
	if s.getErr != nil {
		return Office{}, s.getErr
	}
	office, ok := s.offices[id]
	if !ok {
		return Office{}, ErrNotFound
	}
	return cloneOffice(office), nil
}

func (s *officeStore) ListOffices(ctx context.Context) ([]Office, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]Office, 0, len(s.offices))
	for _, office := range s.offices {
		out = append(out, cloneOffice(office))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *officeStore) FindOfficesByAddress(ctx context.Context, address string) ([]Office, error) {
	var out []Office
	for _, office := range s.offices {
		if office.Address == address {
			out = append(out, cloneOffice(office))
		}
	}
	return out, nil
}

func (s *officeStore) SaveOffice(ctx context.Context, changes OfficeChanges) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if !changes.Create {
		if _, ok := s.offices[changes.Office.ID]; !ok {
			return ErrNotFound
		}
	}
	s.saves++
	s.offices[changes.Office.ID] = cloneOffice(changes.Office)
	return nil
}

func (s *officeStore) DeleteOffice(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.offices[id]; !ok {
		return ErrNotFound
	}
	delete(s.offices, id)
	return nil
}

func (s *officeStore) GetOfficeZone(ctx context.Context, id string) (OfficeZone, error) {
	for _, office := range s.offices {
		for _, zone := range office.OfficeZones {
			if zone.ID == id {
				return zone, nil
			}
		}
	}
	return OfficeZone{}, ErrNotFound
}

func (s *officeStore) GetParkingZone(ctx context.Context, id string) (ParkingZone, error) {
	for _, office := range s.offices {
		for _, zone := range office.ParkingZones {
			if zone.ID == id {
				return zone, nil
			}
		}
	}
	return ParkingZone{}, ErrNotFound
}

// reservationStore mirrors the SQL conflict query: same desk anywhere, or the
// same date, office and zone.
type reservationStore struct {
	records map[string]ReservationRecord

	conflictErr error
	createErr   error
	updateErr   error
	deleteErr   error
}

func newReservationStore(records ...ReservationRecord) *reservationStore {
	s := &reservationStore{records: make(map[string]ReservationRecord)}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return s
}

func (s *reservationStore) GetReservation(ctx context.Context, id string) (ReservationRecord, error) {
	r, ok := s.records[id]
	if !ok {
		return ReservationRecord{}, ErrNotFound
	}
	return r, nil
}

func (s *reservationStore) ListReservations(ctx context.Context) ([]ReservationRecord, error) {
	out := make([]ReservationRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *reservationStore) FindReservationConflicts(ctx context.Context, q ConflictQuery) ([]ReservationRecord, error) {
	if s.conflictErr != nil {
		return nil, s.conflictErr
	}
	var out []ReservationRecord
	for _, r := range s.records {
		sameSlot := r.Date.Equal(q.Date) && r.OfficeID == q.OfficeID && r.OfficeZoneID == q.OfficeZoneID
		if r.OfficeDesk == q.OfficeDesk || sameSlot {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *reservationStore) CreateReservation(ctx context.Context, r ReservationRecord) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.records[r.ID] = r
	return nil
}

func (s *reservationStore) UpdateReservation(ctx context.Context, r ReservationRecord) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.records[r.ID]; !ok {
		return ErrNotFound
	}
	s.records[r.ID] = r
	return nil
}

func (s *reservationStore) DeleteReservation(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

type accountStore struct {
	accounts      map[string]Account
	receptionists map[string]bool

	createErr error
	getErr    error
	roleErr   error
}

func newAccountStore() *accountStore {
	return &accountStore{accounts: make(map[string]Account), receptionists: make(map[string]bool)}
}

func (s *accountStore) CreateAccount(ctx context.Context, account Account) error {
	if s.createErr != nil {
		return s.createErr
	}
	key := strings.ToLower(account.Email)
	if _, ok := s.accounts[key]; ok {
		return ErrAlreadyExists
	}
	s.accounts[key] = account
	return nil
}

func (s *accountStore) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	if s.getErr != nil {
		return Account{}, s.getErr
	}
	account, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		return Account{}, ErrNotFound
	}
	return account, nil
}

func (s *accountStore) IsReceptionist(ctx context.Context, email string) (bool, error) {
	if s.roleErr != nil {
		return false, s.roleErr
	}
	return s.receptionists[strings.ToLower(email)], nil
}

func (s *accountStore) AddReceptionist(ctx context.Context, email string) error {
	if s.roleErr != nil {
		return s.roleErr
	}
	s.receptionists[strings.ToLower(email)] = true
	return nil
}

type tokenIssuerStub struct {
	err      error
	subjects []string
}

func (t *tokenIssuerStub) IssueToken(subject, email, name string) (string, time.Time, error) {
	if t.err != nil {
		return "", time.Time{}, t.err
	}
	t.subjects = append(t.subjects, subject)
	return "token-" + subject, time.Date(2024, time.May, 7, 9, 0, 0, 0, time.UTC), nil
}
