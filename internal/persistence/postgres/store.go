// Package postgres implements the persistence repositories on PostgreSQL
// through a pgx connection pool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/desk-reservation/internal/persistence/postgres/migrations"
)

// Store bundles the PostgreSQL repositories over one pool.
type Store struct {
	pool *pgxpool.Pool

	Catalog      *CatalogRepository
	Offices      *OfficeRepository
	Reservations *ReservationRepository
	Accounts     *AccountRepository
}

// Open parses dsn, connects and pings the database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	if cfg.MaxConns < 4 {
		cfg.MaxConns = 4
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return NewStore(pool), nil
}

// NewStore wraps an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:         pool,
		Catalog:      NewCatalogRepository(pool),
		Offices:      NewOfficeRepository(pool),
		Reservations: NewReservationRepository(pool),
		Accounts:     NewAccountRepository(pool),
	}
}

// Migrate applies the embedded schema and seed data.
func (s *Store) Migrate(ctx context.Context) error {
	if err := migrations.Apply(ctx, s.pool); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
