package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/desk-reservation/internal/application"
	"github.com/example/desk-reservation/internal/auth"
	"github.com/example/desk-reservation/internal/config"
	"github.com/example/desk-reservation/internal/events"
	httptransport "github.com/example/desk-reservation/internal/http"
	"github.com/example/desk-reservation/internal/logging"
	"github.com/example/desk-reservation/internal/persistence"
	"github.com/example/desk-reservation/internal/persistence/postgres"
	"github.com/example/desk-reservation/internal/persistence/sqlite"
	"github.com/example/desk-reservation/internal/persistence/sqlite/migration"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWithDotenv()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("desk reservation API stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("desk reservation API listening", "addr", server.Addr, "storage", cfg.StorageDriver, "kafka", cfg.KafkaEnabled())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server encountered error: %w", err)
	}
	return nil
}

// app is the wired service graph behind the HTTP handler.
type app struct {
	handler  http.Handler
	accounts *application.AccountService
	closers  []func() error
	logger   *slog.Logger
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("failed to release resource", "error", err)
		}
	}
	a.closers = nil
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{logger: logger}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaEnabled() {
		kafkaPublisher, err := events.NewKafkaPublisher(events.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic}, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		a.closers = append(a.closers, kafkaPublisher.Close)
		dispatcher := events.NewAsyncPublisher(kafkaPublisher, events.AsyncConfig{}, logger)
		a.closers = append(a.closers, dispatcher.Close)
		publisher = dispatcher
	}

	tokens, err := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	idGenerator := uuid.NewString
	now := time.Now

	catalogRepo := newCatalogRepositoryAdapter(store.catalog)
	officeRepo := newOfficeRepositoryAdapter(store.offices)
	reservationRepo := newReservationRepositoryAdapter(store.reservations)
	accountRepo := newAccountRepositoryAdapter(store.accounts)

	catalogService := application.NewCatalogServiceWithLogger(catalogRepo, cfg.CatalogCacheTTL, logger)
	officeService := application.NewOfficeServiceWithLogger(officeRepo, catalogRepo, publisher, idGenerator, now, logger)
	reservationService := application.NewReservationServiceWithLogger(reservationRepo, officeRepo, publisher, idGenerator, now, logger)
	accountService := application.NewAccountServiceWithLogger(accountRepo, tokens, nil, nil, idGenerator, now, logger)
	a.accounts = accountService

	for _, email := range cfg.Receptionists {
		if err := accountService.GrantReceptionist(ctx, email); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to grant receptionist role to %s: %w", email, err)
		}
	}

	a.handler = httptransport.NewRouter(httptransport.RouterConfig{
		Accounts:     httptransport.NewAccountHandler(accountService, logger),
		Catalog:      httptransport.NewCatalogHandler(catalogService, logger),
		Offices:      httptransport.NewOfficeHandler(officeService, logger),
		Reservations: httptransport.NewReservationHandler(reservationService, logger),
		Health:       httptransport.NewHealthHandler(store.pinger, logger),
		Tokens:       tokens,
		Roles:        accountService,
		Logger:       logger,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.Recovery(logger),
			httptransport.RequestLogger(logger),
			httptransport.RequestTimeout(cfg.RequestTimeout),
		},
	})
	return a, nil
}

// store is the storage backend selected by configuration.
type store struct {
	catalog      persistence.CatalogRepository
	offices      persistence.OfficeRepository
	reservations persistence.ReservationRepository
	accounts     persistence.AccountRepository
	pinger       persistence.Pinger
	close        func() error
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*store, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pg, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		return &store{
			catalog:      pg.Catalog,
			offices:      pg.Offices,
			reservations: pg.Reservations,
			accounts:     pg.Accounts,
			pinger:       pg,
			close:        pg.Close,
		}, nil
	default:
		storage, err := sqlite.Open(migration.DefaultSQLiteConfig(cfg.SQLitePath), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		if err := storage.Migrate(ctx); err != nil {
			_ = storage.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		return &store{
			catalog:      storage.Catalog,
			offices:      storage.Offices,
			reservations: storage.Reservations,
			accounts:     storage.Accounts,
			pinger:       storage,
			close:        storage.Close,
		}, nil
	}
}
