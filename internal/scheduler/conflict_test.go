package scheduler

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestCollides(t *testing.T) {
	base := Slot{
		ID:           "res-1",
		Date:         day(10),
		OfficeID:     "office-1",
		OfficeZoneID: "zone-1",
		OfficeDesk:   "A-1",
	}

	tests := []struct {
		name      string
		candidate Slot
		want      bool
	}{
		{
			name:      "same desk label on another day collides",
			candidate: Slot{Date: day(11), OfficeID: "office-2", OfficeZoneID: "zone-9", OfficeDesk: "A-1"},
			want:      true,
		},
		{
			name:      "same date office and zone without parking collides",
			candidate: Slot{Date: day(10), OfficeID: "office-1", OfficeZoneID: "zone-1", OfficeDesk: "A-2"},
			want:      true,
		},
		{
			name:      "same slot with a parking zone only on one side does not collide",
			candidate: Slot{Date: day(10), OfficeID: "office-1", OfficeZoneID: "zone-1", OfficeDesk: "A-2", ParkingZoneID: strPtr("pz-1")},
			want:      false,
		},
		{
			name:      "different zone does not collide",
			candidate: Slot{Date: day(10), OfficeID: "office-1", OfficeZoneID: "zone-2", OfficeDesk: "A-2"},
			want:      false,
		},
		{
			name:      "different date does not collide",
			candidate: Slot{Date: day(12), OfficeID: "office-1", OfficeZoneID: "zone-1", OfficeDesk: "A-2"},
			want:      false,
		},
		{
			name:      "time of day is ignored",
			candidate: Slot{Date: day(10).Add(15 * time.Hour), OfficeID: "office-1", OfficeZoneID: "zone-1", OfficeDesk: "A-3"},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Collides(base, tt.candidate); got != tt.want {
				t.Fatalf("Collides() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollides_ParkingFieldsCompareByValue(t *testing.T) {
	existing := Slot{
		Date: day(10), OfficeID: "o", OfficeZoneID: "z", OfficeDesk: "D-1",
		ParkingZoneID: strPtr("pz"), ParkingSpace: strPtr("P-1"),
	}
	same := Slot{
		Date: day(10), OfficeID: "o", OfficeZoneID: "z", OfficeDesk: "D-2",
		ParkingZoneID: strPtr("pz"), ParkingSpace: strPtr("P-1"),
	}
	otherSpace := same
	otherSpace.ParkingSpace = strPtr("P-2")

	if !Collides(existing, same) {
		t.Fatal("expected identical parking assignment to collide")
	}
	if Collides(existing, otherSpace) {
		t.Fatal("expected different parking space not to collide")
	}
}

func TestDetectConflicts(t *testing.T) {
	existing := []Slot{
		{ID: "res-desk", Date: day(1), OfficeID: "o", OfficeZoneID: "z", OfficeDesk: "A-1"},
		{ID: "res-slot", Date: day(5), OfficeID: "o", OfficeZoneID: "z", OfficeDesk: "B-1"},
		{ID: "res-free", Date: day(6), OfficeID: "o", OfficeZoneID: "z", OfficeDesk: "C-1"},
	}

	t.Run("reports each clash with its reason", func(t *testing.T) {
		got := DetectConflicts(existing, Slot{Date: day(5), OfficeID: "o", OfficeZoneID: "z", OfficeDesk: "A-1"})
		if len(got) != 2 {
			t.Fatalf("expected 2 conflicts, got %+v", got)
		}
		if got[0].WithReservationID != "res-desk" || got[0].Type != ConflictTypeDesk {
			t.Fatalf("unexpected first conflict: %+v", got[0])
		}
		if got[1].WithReservationID != "res-slot" || got[1].Type != ConflictTypeSlot {
			t.Fatalf("unexpected second conflict: %+v", got[1])
		}
	})

	t.Run("skips the candidate itself", func(t *testing.T) {
		got := DetectConflicts(existing, Slot{ID: "res-free", Date: day(6), OfficeID: "o", OfficeZoneID: "z", OfficeDesk: "C-1"})
		if len(got) != 0 {
			t.Fatalf("expected no conflicts, got %+v", got)
		}
	})

	t.Run("no clash yields nil", func(t *testing.T) {
		if got := DetectConflicts(existing, Slot{Date: day(9), OfficeID: "o", OfficeZoneID: "z", OfficeDesk: "Z-9"}); got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})
}
