package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/desk-reservation/internal/persistence"
	"github.com/example/desk-reservation/internal/persistence/sqlite"
	"github.com/example/desk-reservation/internal/persistence/sqlite/migration"
)

// SQLiteHarness provides repository access backed by a temporary, migrated
// SQLite database seeded with the reference countries and cities.
type SQLiteHarness struct {
	Catalog      persistence.CatalogRepository
	Offices      persistence.OfficeRepository
	Reservations persistence.ReservationRepository
	Accounts     persistence.AccountRepository
	Storage      *sqlite.Storage

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a temporary database file and migrates it. Close is
// also registered with tb.Cleanup.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "desks.db")
	storage, err := sqlite.Open(migration.TempFileTestSQLiteConfig(path), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Catalog:      storage.Catalog,
		Offices:      storage.Offices,
		Reservations: storage.Reservations,
		Accounts:     storage.Accounts,
		Storage:      storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedOffice stores an office fixture with its zones.
func (h *SQLiteHarness) SeedOffice(tb testing.TB, fixture OfficeFixture) persistence.Office {
	tb.Helper()
	if err := h.Offices.SaveOffice(context.Background(), fixture.CreateChanges()); err != nil {
		tb.Fatalf("failed to seed office %s: %v", fixture.ID, err)
	}
	office, err := h.Offices.GetOffice(context.Background(), fixture.ID)
	if err != nil {
		tb.Fatalf("failed to reload office %s: %v", fixture.ID, err)
	}
	return office
}
