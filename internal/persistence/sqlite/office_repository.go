package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/desk-reservation/internal/persistence"
)

// OfficeRepository persists offices with their office and parking zones.
type OfficeRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewOfficeRepository creates a new SQLite office repository
func NewOfficeRepository(pool *ConnectionPool) *OfficeRepository {
	return &OfficeRepository{
		pool:   pool,
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

const officeSelect = `
	SELECT o.id, o.address, o.post_code, o.office_map_url, o.city_id, o.author_email,
	       o.created_at, o.updated_at, ci.name, ci.country_id, co.name, co.symbol
	FROM offices o
	JOIN cities ci ON ci.id = o.city_id
	JOIN countries co ON co.id = ci.country_id`

// GetOffice loads one office with its zones.
func (r *OfficeRepository) GetOffice(ctx context.Context, id string) (persistence.Office, error) {
	if id == "" {
		return persistence.Office{}, persistence.ErrNotFound
	}

	office, err := scanOffice(r.pool.DB().QueryRowContext(ctx, officeSelect+` WHERE o.id = ?`, id))
	if err != nil {
		return persistence.Office{}, r.mapper.MapError(err)
	}

	offices := []persistence.Office{office}
	if err := r.attachZones(ctx, offices); err != nil {
		return persistence.Office{}, err
	}
	return offices[0], nil
}

// ListOffices returns every office ordered by city name, address and id.
func (r *OfficeRepository) ListOffices(ctx context.Context) ([]persistence.Office, error) {
	offices, err := r.queryOffices(ctx, officeSelect+` ORDER BY ci.name, o.address, o.id`)
	if err != nil {
		return nil, err
	}
	if err := r.attachZones(ctx, offices); err != nil {
		return nil, err
	}
	return offices, nil
}

// FindOfficesByAddress returns offices with the given address in any city.
// Zones are not loaded.
func (r *OfficeRepository) FindOfficesByAddress(ctx context.Context, address string) ([]persistence.Office, error) {
	return r.queryOffices(ctx, officeSelect+` WHERE o.address = ? ORDER BY o.id`, address)
}

// SaveOffice applies an office change set in a single transaction.
func (r *OfficeRepository) SaveOffice(ctx context.Context, changes persistence.OfficeChanges) error {
	office := changes.Office
	if office.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.retry.WithRetry(ctx, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if changes.Create {
				const insert = `
					INSERT INTO offices (id, address, post_code, office_map_url, city_id, author_email, created_at, updated_at)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
				if _, err := tx.ExecContext(ctx, insert,
					office.ID, office.Address, office.PostCode, nullString(office.OfficeMapURL),
					office.CityID, office.AuthorEmail, formatTimestamp(office.CreatedAt), formatTimestamp(office.UpdatedAt),
				); err != nil {
					return r.mapper.MapError(err)
				}
			} else {
				const update = `
					UPDATE offices
					SET address = ?, post_code = ?, office_map_url = ?, city_id = ?, author_email = ?, updated_at = ?
					WHERE id = ?`
				result, err := tx.ExecContext(ctx, update,
					office.Address, office.PostCode, nullString(office.OfficeMapURL),
					office.CityID, office.AuthorEmail, formatTimestamp(office.UpdatedAt), office.ID,
				)
				if err != nil {
					return r.mapper.MapError(err)
				}
				if err := requireRow(result); err != nil {
					return err
				}
			}

			for _, id := range changes.DeleteOfficeZoneIDs {
				if _, err := tx.ExecContext(ctx, `DELETE FROM office_zones WHERE id = ? AND office_id = ?`, id, office.ID); err != nil {
					return r.mapper.MapError(err)
				}
			}
			for _, id := range changes.DeleteParkingZoneIDs {
				if _, err := tx.ExecContext(ctx, `DELETE FROM parking_zones WHERE id = ? AND office_id = ?`, id, office.ID); err != nil {
					return r.mapper.MapError(err)
				}
			}

			for _, zone := range changes.UpdateOfficeZones {
				if _, err := tx.ExecContext(ctx, `UPDATE office_zones SET name = ?, desks = ? WHERE id = ? AND office_id = ?`,
					zone.Name, zone.Desks, zone.ID, office.ID); err != nil {
					return r.mapper.MapError(err)
				}
			}
			for _, zone := range changes.UpdateParkingZones {
				if _, err := tx.ExecContext(ctx, `UPDATE parking_zones SET name = ?, spaces = ? WHERE id = ? AND office_id = ?`,
					zone.Name, zone.Spaces, zone.ID, office.ID); err != nil {
					return r.mapper.MapError(err)
				}
			}

			for _, zone := range changes.CreateOfficeZones {
				if _, err := tx.ExecContext(ctx, `INSERT INTO office_zones (id, office_id, name, desks) VALUES (?, ?, ?, ?)`,
					zone.ID, office.ID, zone.Name, zone.Desks); err != nil {
					return r.mapper.MapError(err)
				}
			}
			for _, zone := range changes.CreateParkingZones {
				if _, err := tx.ExecContext(ctx, `INSERT INTO parking_zones (id, office_id, name, spaces) VALUES (?, ?, ?, ?)`,
					zone.ID, office.ID, zone.Name, zone.Spaces); err != nil {
					return r.mapper.MapError(err)
				}
			}
			return nil
		})
	})
}

// DeleteOffice removes an office. Zones and reservations cascade.
func (r *OfficeRepository) DeleteOffice(ctx context.Context, id string) error {
	return r.retry.WithRetry(ctx, func() error {
		result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM offices WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireRow(result)
	})
}

// GetOfficeZone loads one office zone by id.
func (r *OfficeRepository) GetOfficeZone(ctx context.Context, id string) (persistence.OfficeZone, error) {
	var zone persistence.OfficeZone
	err := r.pool.DB().QueryRowContext(ctx, `SELECT id, office_id, name, desks FROM office_zones WHERE id = ?`, id).
		Scan(&zone.ID, &zone.OfficeID, &zone.Name, &zone.Desks)
	if err != nil {
		return persistence.OfficeZone{}, r.mapper.MapError(err)
	}
	return zone, nil
}

// GetParkingZone loads one parking zone by id.
func (r *OfficeRepository) GetParkingZone(ctx context.Context, id string) (persistence.ParkingZone, error) {
	var zone persistence.ParkingZone
	err := r.pool.DB().QueryRowContext(ctx, `SELECT id, office_id, name, spaces FROM parking_zones WHERE id = ?`, id).
		Scan(&zone.ID, &zone.OfficeID, &zone.Name, &zone.Spaces)
	if err != nil {
		return persistence.ParkingZone{}, r.mapper.MapError(err)
	}
	return zone, nil
}

func (r *OfficeRepository) queryOffices(ctx context.Context, query string, args ...any) ([]persistence.Office, error) {
	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var offices []persistence.Office
	for rows.Next() {
		office, err := scanOffice(rows)
		if err != nil {
			return nil, err
		}
		offices = append(offices, office)
	}
	return offices, rows.Err()
}

// zoneLookupBatch keeps each IN list well below SQLite's bound parameter limit.
var zoneLookupBatch = 500

// attachZones loads zones for the given offices in insertion order.
func (r *OfficeRepository) attachZones(ctx context.Context, offices []persistence.Office) error {
	index := make(map[string]int, len(offices))
	for i, office := range offices {
		index[office.ID] = i
	}
	for start := 0; start < len(offices); start += zoneLookupBatch {
		end := min(start+zoneLookupBatch, len(offices))
		if err := r.attachZoneBatch(ctx, offices, index, offices[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *OfficeRepository) attachZoneBatch(ctx context.Context, offices []persistence.Office, index map[string]int, batch []persistence.Office) error {
	args := make([]any, 0, len(batch))
	for _, office := range batch {
		args = append(args, office.ID)
	}
	in := "(?" + strings.Repeat(", ?", len(args)-1) + ")"

	rows, err := r.pool.DB().QueryContext(ctx, `SELECT id, office_id, name, desks FROM office_zones WHERE office_id IN `+in+` ORDER BY rowid`, args...)
	if err != nil {
		return r.mapper.MapError(err)
	}
	for rows.Next() {
		var zone persistence.OfficeZone
		if err := rows.Scan(&zone.ID, &zone.OfficeID, &zone.Name, &zone.Desks); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan office zone: %w", err)
		}
		if i, ok := index[zone.OfficeID]; ok {
			offices[i].OfficeZones = append(offices[i].OfficeZones, zone)
		}
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = r.pool.DB().QueryContext(ctx, `SELECT id, office_id, name, spaces FROM parking_zones WHERE office_id IN `+in+` ORDER BY rowid`, args...)
	if err != nil {
		return r.mapper.MapError(err)
	}
	for rows.Next() {
		var zone persistence.ParkingZone
		if err := rows.Scan(&zone.ID, &zone.OfficeID, &zone.Name, &zone.Spaces); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan parking zone: %w", err)
		}
		if i, ok := index[zone.OfficeID]; ok {
			offices[i].ParkingZones = append(offices[i].ParkingZones, zone)
		}
	}
	return closeRows(rows)
}

func scanOffice(row rowScanner) (persistence.Office, error) {
	var (
		office               persistence.Office
		mapURL               sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&office.ID, &office.Address, &office.PostCode, &mapURL, &office.CityID, &office.AuthorEmail,
		&createdAt, &updatedAt, &office.City.Name, &office.City.CountryID, &office.City.Country.Name, &office.City.Country.Symbol,
	); err != nil {
		return persistence.Office{}, err
	}

	var err error
	if office.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Office{}, err
	}
	if office.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Office{}, err
	}
	office.OfficeMapURL = stringPtr(mapURL)
	office.City.ID = office.CityID
	office.City.Country.ID = office.City.CountryID
	return office, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func closeRows(rows *sql.Rows) error {
	iterErr := rows.Err()
	closeErr := rows.Close()
	if iterErr != nil {
		return iterErr
	}
	return closeErr
}
