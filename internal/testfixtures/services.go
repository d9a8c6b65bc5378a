package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/desk-reservation/internal/application"
	"github.com/example/desk-reservation/internal/events"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Events      *events.Recorder
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults. Services built
// by the factory publish into the shared Events recorder.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		Events:      &events.Recorder{},
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	if factory.Events == nil {
		factory.Events = &events.Recorder{}
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

func (f *ServiceFactory) defaults(idGen func() string, now func() time.Time, publisher events.Publisher) (func() string, func() time.Time, events.Publisher) {
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	if now == nil {
		now = f.Clock.NowFunc()
	}
	if publisher == nil {
		publisher = f.Events
	}
	return idGen, now, publisher
}

// OfficeServiceDeps captures dependencies for constructing an office service.
type OfficeServiceDeps struct {
	Offices     application.OfficeRepository
	Catalog     application.CatalogRepository
	Publisher   events.Publisher
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewOfficeService builds an office service from deps and the factory defaults.
func (f *ServiceFactory) NewOfficeService(deps OfficeServiceDeps) *application.OfficeService {
	idGen, now, publisher := f.defaults(deps.IDGenerator, deps.Now, deps.Publisher)
	return application.NewOfficeServiceWithLogger(deps.Offices, deps.Catalog, publisher, idGen, now, deps.Logger)
}

// ReservationServiceDeps captures dependencies for constructing a reservation service.
type ReservationServiceDeps struct {
	Reservations application.ReservationRepository
	Offices      application.OfficeLookup
	Publisher    events.Publisher
	IDGenerator  func() string
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewReservationService builds a reservation service from deps and the factory defaults.
func (f *ServiceFactory) NewReservationService(deps ReservationServiceDeps) *application.ReservationService {
	idGen, now, publisher := f.defaults(deps.IDGenerator, deps.Now, deps.Publisher)
	return application.NewReservationServiceWithLogger(deps.Reservations, deps.Offices, publisher, idGen, now, deps.Logger)
}

// AccountServiceDeps captures dependencies for constructing an account service.
// Nil Hash and Verify fall back to argon2id.
type AccountServiceDeps struct {
	Accounts    application.AccountRepository
	Tokens      application.TokenIssuer
	Hash        application.PasswordHasher
	Verify      application.PasswordVerifier
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewAccountService builds an account service from deps and the factory defaults.
func (f *ServiceFactory) NewAccountService(deps AccountServiceDeps) *application.AccountService {
	idGen, now, _ := f.defaults(deps.IDGenerator, deps.Now, nil)
	return application.NewAccountServiceWithLogger(deps.Accounts, deps.Tokens, deps.Hash, deps.Verify, idGen, now, deps.Logger)
}

// NewCatalogService builds a catalog service with a real-time cache.
func (f *ServiceFactory) NewCatalogService(catalog application.CatalogRepository, ttl time.Duration, logger *slog.Logger) *application.CatalogService {
	return application.NewCatalogServiceWithLogger(catalog, ttl, logger)
}
