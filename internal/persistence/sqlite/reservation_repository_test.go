package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/desk-reservation/internal/persistence"
)

func seedOfficeWithZones(t *testing.T, storage *Storage) {
	t.Helper()
	err := storage.Offices.SaveOffice(context.Background(), persistence.OfficeChanges{
		Office: testOffice("office-1", olsztynCityID, "Warszawa"),
		Create: true,
		CreateOfficeZones: []persistence.OfficeZone{
			{ID: "oz-1", Name: "A", Desks: 10},
			{ID: "oz-2", Name: "B", Desks: 10},
		},
		CreateParkingZones: []persistence.ParkingZone{{ID: "pz-1", Name: "Garage", Spaces: 5}},
	})
	if err != nil {
		t.Fatalf("failed to seed office: %v", err)
	}
}

func testReservation(id, zoneID, desk string, day int) persistence.Reservation {
	stamp := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	return persistence.Reservation{
		ID:           id,
		Date:         time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC),
		OfficeID:     "office-1",
		OfficeZoneID: zoneID,
		OfficeDesk:   desk,
		UserEmail:    "worker@example.com",
		CreatedAt:    stamp,
		UpdatedAt:    stamp,
	}
}

func TestReservationRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)
	seedOfficeWithZones(t, storage)

	parkingZone := "pz-1"
	space := "P-7"
	reservation := testReservation("res-1", "oz-1", "A-1", 10)
	reservation.ParkingZoneID = &parkingZone
	reservation.ParkingSpace = &space

	if err := storage.Reservations.CreateReservation(ctx, reservation); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}

	stored, err := storage.Reservations.GetReservation(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetReservation failed: %v", err)
	}
	if !stored.Date.Equal(reservation.Date) {
		t.Fatalf("expected date %v, got %v", reservation.Date, stored.Date)
	}
	if stored.ParkingZoneID == nil || *stored.ParkingZoneID != "pz-1" || stored.ParkingSpace == nil || *stored.ParkingSpace != "P-7" {
		t.Fatalf("expected parking fields to round-trip, got %+v", stored)
	}

	stored.OfficeZoneID = "oz-2"
	stored.OfficeDesk = "B-4"
	stored.ParkingZoneID = nil
	stored.ParkingSpace = nil
	if err := storage.Reservations.UpdateReservation(ctx, stored); err != nil {
		t.Fatalf("UpdateReservation failed: %v", err)
	}
	updated, err := storage.Reservations.GetReservation(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetReservation after update failed: %v", err)
	}
	if updated.OfficeZoneID != "oz-2" || updated.OfficeDesk != "B-4" || updated.ParkingZoneID != nil {
		t.Fatalf("unexpected reservation after update: %+v", updated)
	}

	if err := storage.Reservations.DeleteReservation(ctx, "res-1"); err != nil {
		t.Fatalf("DeleteReservation failed: %v", err)
	}
	if err := storage.Reservations.DeleteReservation(ctx, "res-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := storage.Reservations.UpdateReservation(ctx, stored); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestReservationRepository_FindReservationConflicts(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)
	seedOfficeWithZones(t, storage)

	for _, reservation := range []persistence.Reservation{
		testReservation("res-same-slot", "oz-1", "A-1", 10),
		testReservation("res-same-desk", "oz-2", "B-2", 12),
		testReservation("res-other-zone", "oz-2", "B-3", 10),
		testReservation("res-other-day", "oz-1", "A-5", 11),
	} {
		if err := storage.Reservations.CreateReservation(ctx, reservation); err != nil {
			t.Fatalf("CreateReservation %s failed: %v", reservation.ID, err)
		}
	}

	candidates, err := storage.Reservations.FindReservationConflicts(ctx, persistence.ConflictQuery{
		Date:         time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		OfficeID:     "office-1",
		OfficeZoneID: "oz-1",
		OfficeDesk:   "B-2",
	})
	if err != nil {
		t.Fatalf("FindReservationConflicts failed: %v", err)
	}

	got := map[string]bool{}
	for _, candidate := range candidates {
		got[candidate.ID] = true
	}
	if len(got) != 2 || !got["res-same-slot"] || !got["res-same-desk"] {
		t.Fatalf("unexpected candidates: %v", got)
	}
}

func TestReservationRepository_OfficeDeleteCascades(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)
	seedOfficeWithZones(t, storage)

	if err := storage.Reservations.CreateReservation(ctx, testReservation("res-1", "oz-1", "A-1", 10)); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}
	if err := storage.Offices.DeleteOffice(ctx, "office-1"); err != nil {
		t.Fatalf("DeleteOffice failed: %v", err)
	}

	reservations, err := storage.Reservations.ListReservations(ctx)
	if err != nil {
		t.Fatalf("ListReservations failed: %v", err)
	}
	if len(reservations) != 0 {
		t.Fatalf("expected reservations to cascade, got %d", len(reservations))
	}
}

func TestReservationRepository_RejectsUnknownZone(t *testing.T) {
	storage := newTestStorage(t)
	seedOfficeWithZones(t, storage)

	err := storage.Reservations.CreateReservation(context.Background(), testReservation("res-1", "missing", "A-1", 10))
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}
