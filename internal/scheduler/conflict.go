// Package scheduler holds the desk collision rule shared by every store.
package scheduler

import "time"

// Slot is the part of a reservation that decides whether two bookings clash.
type Slot struct {
	ID            string
	Date          time.Time
	OfficeID      string
	OfficeZoneID  string
	ParkingZoneID *string
	ParkingSpace  *string
	OfficeDesk    string
}

// ConflictType describes why two slots collide.
type ConflictType string

const (
	// ConflictTypeDesk means the desk label is already booked. Labels are
	// compared across all offices and dates.
	ConflictTypeDesk ConflictType = "desk"
	// ConflictTypeSlot means the same date, office, zone and parking
	// assignment is already taken.
	ConflictTypeSlot ConflictType = "slot"
)

// Conflict names the existing reservation a candidate clashes with.
type Conflict struct {
	WithReservationID string
	Type              ConflictType
}

// Collides reports whether candidate clashes with existing.
func Collides(existing, candidate Slot) bool {
	_, ok := collision(existing, candidate)
	return ok
}

// DetectConflicts returns every existing slot that clashes with candidate,
// in input order. A slot with the candidate's own id is skipped.
func DetectConflicts(existing []Slot, candidate Slot) []Conflict {
	var conflicts []Conflict
	for _, slot := range existing {
		if candidate.ID != "" && slot.ID == candidate.ID {
			continue
		}
		if kind, ok := collision(slot, candidate); ok {
			conflicts = append(conflicts, Conflict{WithReservationID: slot.ID, Type: kind})
		}
	}
	return conflicts
}

func collision(a, b Slot) (ConflictType, bool) {
	if a.OfficeDesk == b.OfficeDesk {
		return ConflictTypeDesk, true
	}
	if sameDay(a.Date, b.Date) &&
		a.OfficeID == b.OfficeID &&
		a.OfficeZoneID == b.OfficeZoneID &&
		equalOptional(a.ParkingZoneID, b.ParkingZoneID) &&
		equalOptional(a.ParkingSpace, b.ParkingSpace) {
		return ConflictTypeSlot, true
	}
	return "", false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// equalOptional treats two absent values as equal.
func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
