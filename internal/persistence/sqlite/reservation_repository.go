package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/desk-reservation/internal/persistence"
)

// ReservationRepository stores desk reservations in SQLite.
type ReservationRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewReservationRepository creates a new SQLite reservation repository
func NewReservationRepository(pool *ConnectionPool) *ReservationRepository {
	return &ReservationRepository{
		pool:   pool,
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

const reservationSelect = `
	SELECT id, date, office_id, office_zone_id, parking_zone_id, office_desk, parking_space,
	       user_email, created_at, updated_at
	FROM reservations`

// GetReservation loads one reservation by id.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}
	reservation, err := scanReservation(r.pool.DB().QueryRowContext(ctx, reservationSelect+` WHERE id = ?`, id))
	if err != nil {
		return persistence.Reservation{}, r.mapper.MapError(err)
	}
	return reservation, nil
}

// ListReservations returns all reservations ordered by date then id.
func (r *ReservationRepository) ListReservations(ctx context.Context) ([]persistence.Reservation, error) {
	return r.query(ctx, reservationSelect+` ORDER BY date, id`)
}

// FindReservationConflicts returns every reservation sharing the desk label
// or the date, office and office zone of the query. Callers apply the exact
// collision rule to this superset.
func (r *ReservationRepository) FindReservationConflicts(ctx context.Context, q persistence.ConflictQuery) ([]persistence.Reservation, error) {
	return r.query(ctx, reservationSelect+`
		WHERE office_desk = ?
		   OR (date = ? AND office_id = ? AND office_zone_id = ?)
		ORDER BY date, id`,
		q.OfficeDesk, formatDate(q.Date), q.OfficeID, q.OfficeZoneID,
	)
}

// CreateReservation inserts a new reservation.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" {
		return persistence.ErrConstraintViolation
	}
	const stmt = `
		INSERT INTO reservations (id, date, office_id, office_zone_id, parking_zone_id, office_desk,
		                          parking_space, user_email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return r.retry.WithRetry(ctx, func() error {
		_, err := r.pool.DB().ExecContext(ctx, stmt,
			reservation.ID,
			formatDate(reservation.Date),
			reservation.OfficeID,
			reservation.OfficeZoneID,
			nullString(reservation.ParkingZoneID),
			reservation.OfficeDesk,
			nullString(reservation.ParkingSpace),
			reservation.UserEmail,
			formatTimestamp(reservation.CreatedAt),
			formatTimestamp(reservation.UpdatedAt),
		)
		return err
	})
}

// UpdateReservation overwrites a stored reservation.
func (r *ReservationRepository) UpdateReservation(ctx context.Context, reservation persistence.Reservation) error {
	const stmt = `
		UPDATE reservations
		SET date = ?, office_id = ?, office_zone_id = ?, parking_zone_id = ?, office_desk = ?,
		    parking_space = ?, user_email = ?, updated_at = ?
		WHERE id = ?`
	return r.retry.WithRetry(ctx, func() error {
		result, err := r.pool.DB().ExecContext(ctx, stmt,
			formatDate(reservation.Date),
			reservation.OfficeID,
			reservation.OfficeZoneID,
			nullString(reservation.ParkingZoneID),
			reservation.OfficeDesk,
			nullString(reservation.ParkingSpace),
			reservation.UserEmail,
			formatTimestamp(reservation.UpdatedAt),
			reservation.ID,
		)
		if err != nil {
			return err
		}
		return requireRow(result)
	})
}

// DeleteReservation removes a reservation by id.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	return r.retry.WithRetry(ctx, func() error {
		result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireRow(result)
	})
}

func (r *ReservationRepository) query(ctx context.Context, query string, args ...any) ([]persistence.Reservation, error) {
	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	return reservations, rows.Err()
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var (
		reservation                 persistence.Reservation
		date, createdAt, updatedAt  string
		parkingZoneID, parkingSpace sql.NullString
	)
	if err := row.Scan(
		&reservation.ID, &date, &reservation.OfficeID, &reservation.OfficeZoneID, &parkingZoneID,
		&reservation.OfficeDesk, &parkingSpace, &reservation.UserEmail, &createdAt, &updatedAt,
	); err != nil {
		return persistence.Reservation{}, err
	}

	var err error
	if reservation.Date, err = parseDate(date); err != nil {
		return persistence.Reservation{}, err
	}
	if reservation.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Reservation{}, err
	}
	if reservation.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Reservation{}, err
	}
	reservation.ParkingZoneID = stringPtr(parkingZoneID)
	reservation.ParkingSpace = stringPtr(parkingSpace)
	return reservation, nil
}
