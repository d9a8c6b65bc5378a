package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/desk-reservation/internal/persistence"
)

type ReservationRepository struct {
	q querier
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{q: querier{pool: pool}}
}

const reservationSelect = `
SELECT id, date, office_id, office_zone_id, parking_zone_id, office_desk, parking_space,
       user_email, created_at, updated_at
FROM reservations`

func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	res, err := scanReservation(r.q.queryRow(ctx, reservationSelect+` WHERE id = $1`, id))
	if err != nil {
		return persistence.Reservation{}, mapError("get reservation", err)
	}
	return res, nil
}

func (r *ReservationRepository) ListReservations(ctx context.Context) ([]persistence.Reservation, error) {
	return r.list(ctx, reservationSelect+` ORDER BY date, id`)
}

// FindReservationConflicts returns reservations sharing the desk label or the
// date, office and zone of q.
func (r *ReservationRepository) FindReservationConflicts(ctx context.Context, q persistence.ConflictQuery) ([]persistence.Reservation, error) {
	const where = `
WHERE office_desk = $1
   OR (date = $2 AND office_id = $3 AND office_zone_id = $4)
ORDER BY date, id`
	return r.list(ctx, reservationSelect+where, q.OfficeDesk, dateOnly(q.Date), q.OfficeID, q.OfficeZoneID)
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res persistence.Reservation) error {
	const stmt = `
INSERT INTO reservations (id, date, office_id, office_zone_id, parking_zone_id, office_desk,
                          parking_space, user_email, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.exec(ctx, stmt,
		res.ID, dateOnly(res.Date), res.OfficeID, res.OfficeZoneID, res.ParkingZoneID,
		res.OfficeDesk, res.ParkingSpace, res.UserEmail, res.CreatedAt, res.UpdatedAt,
	)
	return mapError("create reservation", err)
}

func (r *ReservationRepository) UpdateReservation(ctx context.Context, res persistence.Reservation) error {
	const stmt = `
UPDATE reservations
SET date = $2, office_id = $3, office_zone_id = $4, parking_zone_id = $5, office_desk = $6,
    parking_space = $7, user_email = $8, updated_at = $9
WHERE id = $1`
	tag, err := r.q.exec(ctx, stmt,
		res.ID, dateOnly(res.Date), res.OfficeID, res.OfficeZoneID, res.ParkingZoneID,
		res.OfficeDesk, res.ParkingSpace, res.UserEmail, res.UpdatedAt,
	)
	if err != nil {
		return mapError("update reservation", err)
	}
	return requireRow(tag)
}

func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	tag, err := r.q.exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return mapError("delete reservation", err)
	}
	return requireRow(tag)
}

func (r *ReservationRepository) list(ctx context.Context, sql string, args ...any) ([]persistence.Reservation, error) {
	rows, err := r.q.query(ctx, sql, args...)
	if err != nil {
		return nil, mapError("list reservations", err)
	}
	defer rows.Close()

	var out []persistence.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func scanReservation(row pgx.Row) (persistence.Reservation, error) {
	var res persistence.Reservation
	if err := row.Scan(
		&res.ID, &res.Date, &res.OfficeID, &res.OfficeZoneID, &res.ParkingZoneID,
		&res.OfficeDesk, &res.ParkingSpace, &res.UserEmail, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return persistence.Reservation{}, err
	}
	res.Date = dateOnly(res.Date)
	res.CreatedAt = res.CreatedAt.UTC()
	res.UpdatedAt = res.UpdatedAt.UTC()
	return res, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
