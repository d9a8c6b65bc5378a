package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/example/desk-reservation/internal/persistence"
)

func TestOfficeRepository_SaveOffice(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an office with zones", func(t *testing.T) {
		storage := newTestStorage(t)
		mapURL := "https://maps.example.com/o1"
		office := testOffice("office-1", olsztynCityID, "Warszawa")
		office.OfficeMapURL = &mapURL

		err := storage.Offices.SaveOffice(ctx, persistence.OfficeChanges{
			Office: office,
			Create: true,
			CreateOfficeZones: []persistence.OfficeZone{
				{ID: "oz-1", Name: "OfficeZone2", Desks: 5},
				{ID: "oz-2", Name: "OfficeZone3", Desks: 15},
			},
			CreateParkingZones: []persistence.ParkingZone{
				{ID: "pz-1", Name: "Garage", Spaces: 20},
			},
		})
		if err != nil {
			t.Fatalf("SaveOffice failed: %v", err)
		}

		stored, err := storage.Offices.GetOffice(ctx, "office-1")
		if err != nil {
			t.Fatalf("GetOffice failed: %v", err)
		}
		if stored.City.Name != "Olsztyn" || stored.City.Country.Name != "Poland" {
			t.Fatalf("expected hydrated city, got %+v", stored.City)
		}
		if stored.OfficeMapURL == nil || *stored.OfficeMapURL != mapURL {
			t.Fatalf("expected map URL to round-trip, got %v", stored.OfficeMapURL)
		}
		if len(stored.OfficeZones) != 2 || stored.OfficeZones[0].Name != "OfficeZone2" || stored.OfficeZones[1].Desks != 15 {
			t.Fatalf("unexpected office zones: %+v", stored.OfficeZones)
		}
		if len(stored.ParkingZones) != 1 || stored.ParkingZones[0].OfficeID != "office-1" {
			t.Fatalf("unexpected parking zones: %+v", stored.ParkingZones)
		}
	})

	t.Run("applies zone deletes, updates and creates together", func(t *testing.T) {
		storage := newTestStorage(t)
		office := testOffice("office-1", olsztynCityID, "Warszawa")
		if err := storage.Offices.SaveOffice(ctx, persistence.OfficeChanges{
			Office: office,
			Create: true,
			CreateOfficeZones: []persistence.OfficeZone{
				{ID: "oz-1", Name: "A", Desks: 1},
				{ID: "oz-2", Name: "B", Desks: 2},
			},
		}); err != nil {
			t.Fatalf("SaveOffice create failed: %v", err)
		}

		office.Address = "Olsztyn"
		err := storage.Offices.SaveOffice(ctx, persistence.OfficeChanges{
			Office:              office,
			DeleteOfficeZoneIDs: []string{"oz-1"},
			UpdateOfficeZones:   []persistence.OfficeZone{{ID: "oz-2", Name: "B", Desks: 9}},
			CreateOfficeZones:   []persistence.OfficeZone{{ID: "oz-3", Name: "C", Desks: 3}},
		})
		if err != nil {
			t.Fatalf("SaveOffice update failed: %v", err)
		}

		stored, err := storage.Offices.GetOffice(ctx, "office-1")
		if err != nil {
			t.Fatalf("GetOffice failed: %v", err)
		}
		if stored.Address != "Olsztyn" {
			t.Fatalf("expected address update, got %q", stored.Address)
		}
		if len(stored.OfficeZones) != 2 {
			t.Fatalf("expected 2 zones, got %+v", stored.OfficeZones)
		}
		if stored.OfficeZones[0].ID != "oz-2" || stored.OfficeZones[0].Desks != 9 || stored.OfficeZones[1].ID != "oz-3" {
			t.Fatalf("unexpected zones after update: %+v", stored.OfficeZones)
		}
	})

	t.Run("rolls back the whole change set on failure", func(t *testing.T) {
		storage := newTestStorage(t)
		office := testOffice("office-1", olsztynCityID, "Warszawa")
		err := storage.Offices.SaveOffice(ctx, persistence.OfficeChanges{
			Office: office,
			Create: true,
			CreateOfficeZones: []persistence.OfficeZone{
				{ID: "oz-1", Name: "Same", Desks: 1},
				{ID: "oz-2", Name: "Same", Desks: 2},
			},
		})
		if !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
		if _, err := storage.Offices.GetOffice(ctx, "office-1"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected office insert to be rolled back, got %v", err)
		}
	})

	t.Run("rejects unknown city", func(t *testing.T) {
		storage := newTestStorage(t)
		err := storage.Offices.SaveOffice(ctx, persistence.OfficeChanges{
			Office: testOffice("office-1", "missing-city", "Warszawa"),
			Create: true,
		})
		if !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})

	t.Run("update of missing office returns not found", func(t *testing.T) {
		storage := newTestStorage(t)
		err := storage.Offices.SaveOffice(ctx, persistence.OfficeChanges{
			Office: testOffice("ghost", olsztynCityID, "Warszawa"),
		})
		if !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestOfficeRepository_Queries(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)

	for _, office := range []persistence.Office{
		testOffice("office-b", berlinCityID, "Main 1"),
		testOffice("office-o2", olsztynCityID, "Zielona 3"),
		testOffice("office-o1", olsztynCityID, "Main 1"),
	} {
		if err := storage.Offices.SaveOffice(ctx, persistence.OfficeChanges{Office: office, Create: true}); err != nil {
			t.Fatalf("SaveOffice %s failed: %v", office.ID, err)
		}
	}

	offices, err := storage.Offices.ListOffices(ctx)
	if err != nil {
		t.Fatalf("ListOffices failed: %v", err)
	}
	got := make([]string, 0, len(offices))
	for _, office := range offices {
		got = append(got, office.ID)
	}
	want := []string{"office-b", "office-o1", "office-o2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}

	sameAddress, err := storage.Offices.FindOfficesByAddress(ctx, "Main 1")
	if err != nil {
		t.Fatalf("FindOfficesByAddress failed: %v", err)
	}
	if len(sameAddress) != 2 {
		t.Fatalf("expected 2 offices at Main 1, got %d", len(sameAddress))
	}
}

func TestOfficeRepository_DeleteOffice(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)

	office := testOffice("office-1", olsztynCityID, "Warszawa")
	if err := storage.Offices.SaveOffice(ctx, persistence.OfficeChanges{
		Office:             office,
		Create:             true,
		CreateOfficeZones:  []persistence.OfficeZone{{ID: "oz-1", Name: "A", Desks: 1}},
		CreateParkingZones: []persistence.ParkingZone{{ID: "pz-1", Name: "P", Spaces: 1}},
	}); err != nil {
		t.Fatalf("SaveOffice failed: %v", err)
	}

	if err := storage.Offices.DeleteOffice(ctx, "office-1"); err != nil {
		t.Fatalf("DeleteOffice failed: %v", err)
	}
	if _, err := storage.Offices.GetOfficeZone(ctx, "oz-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected zones to cascade, got %v", err)
	}
	if _, err := storage.Offices.GetParkingZone(ctx, "pz-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected parking zones to cascade, got %v", err)
	}
	if err := storage.Offices.DeleteOffice(ctx, "office-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestOfficeRepository_ListOfficesAcrossZoneBatches(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)

	previous := zoneLookupBatch
	zoneLookupBatch = 2
	t.Cleanup(func() { zoneLookupBatch = previous })

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("office-%d", i)
		if err := storage.Offices.SaveOffice(ctx, persistence.OfficeChanges{
			Office:             testOffice(id, olsztynCityID, fmt.Sprintf("Street %d", i)),
			Create:             true,
			CreateOfficeZones:  []persistence.OfficeZone{{ID: id + "-oz", Name: "Open space", Desks: i}},
			CreateParkingZones: []persistence.ParkingZone{{ID: id + "-pz", Name: "Garage", Spaces: i}},
		}); err != nil {
			t.Fatalf("SaveOffice %s failed: %v", id, err)
		}
	}

	offices, err := storage.Offices.ListOffices(ctx)
	if err != nil {
		t.Fatalf("ListOffices failed: %v", err)
	}
	if len(offices) != 5 {
		t.Fatalf("expected 5 offices, got %d", len(offices))
	}
	for _, office := range offices {
		if len(office.OfficeZones) != 1 || office.OfficeZones[0].ID != office.ID+"-oz" {
			t.Fatalf("office %s has office zones %+v", office.ID, office.OfficeZones)
		}
		if len(office.ParkingZones) != 1 || office.ParkingZones[0].ID != office.ID+"-pz" {
			t.Fatalf("office %s has parking zones %+v", office.ID, office.ParkingZones)
		}
	}
}

func TestOfficeRepository_SaveOfficeHonoursCancellation(t *testing.T) {
	storage := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := storage.Offices.SaveOffice(ctx, persistence.OfficeChanges{
		Office:            testOffice("office-1", olsztynCityID, "Warszawa"),
		Create:            true,
		CreateOfficeZones: []persistence.OfficeZone{{ID: "oz-1", Name: "A", Desks: 1}},
	})
	if err == nil {
		t.Fatal("expected SaveOffice to fail on a cancelled context")
	}

	if _, err := storage.Offices.GetOffice(context.Background(), "office-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected nothing stored, got %v", err)
	}
}
