package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/desk-reservation/internal/events"
)

type zonePayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type officePayload struct {
	Address      string        `json:"address"`
	PostCode     string        `json:"post_code"`
	City         string        `json:"city"`
	OfficeZones  []zonePayload `json:"office_zones"`
	ParkingZones []zonePayload `json:"parking_zones"`
}

func newOfficePayload(office Office) officePayload {
	payload := officePayload{
		Address:      office.Address,
		PostCode:     office.PostCode,
		City:         office.City.Name,
		OfficeZones:  make([]zonePayload, 0, len(office.OfficeZones)),
		ParkingZones: make([]zonePayload, 0, len(office.ParkingZones)),
	}
	for _, z := range office.OfficeZones {
		payload.OfficeZones = append(payload.OfficeZones, zonePayload{ID: z.ID, Name: z.Name, Capacity: z.Desks})
	}
	for _, z := range office.ParkingZones {
		payload.ParkingZones = append(payload.ParkingZones, zonePayload{ID: z.ID, Name: z.Name, Capacity: z.Spaces})
	}
	return payload
}

type reservationPayload struct {
	Date          string  `json:"date"`
	OfficeID      string  `json:"office_id"`
	OfficeZoneID  string  `json:"office_zone_id"`
	ParkingZoneID *string `json:"parking_zone_id,omitempty"`
	OfficeDesk    string  `json:"office_desk"`
	ParkingSpace  *string `json:"parking_space,omitempty"`
}

func newReservationPayload(record ReservationRecord) reservationPayload {
	return reservationPayload{
		Date:          record.Date.Format(DateLayout),
		OfficeID:      record.OfficeID,
		OfficeZoneID:  record.OfficeZoneID,
		ParkingZoneID: record.ParkingZoneID,
		OfficeDesk:    record.OfficeDesk,
		ParkingSpace:  record.ParkingSpace,
	}
}

// publishTimeout bounds a synchronous publisher. Production wraps the broker
// in events.AsyncPublisher so this only limits enqueueing.
const publishTimeout = 2 * time.Second

// publishEvent never fails the calling operation. The write it reports has
// already been committed, so the caller's cancellation is not propagated.
func publishEvent(ctx context.Context, publisher events.Publisher, logger *slog.Logger, event events.Event) {
	if publisher == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := publisher.Publish(publishCtx, event); err != nil {
		logger.WarnContext(ctx, "failed to publish event",
			"event_type", string(event.Type),
			"aggregate_id", event.AggregateID,
			"error", err,
		)
	}
}
