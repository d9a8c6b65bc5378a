package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/desk-reservation/internal/persistence"
)

type OfficeRepository struct {
	pool *pgxpool.Pool
	q    querier
}

func NewOfficeRepository(pool *pgxpool.Pool) *OfficeRepository {
	return &OfficeRepository{pool: pool, q: querier{pool: pool}}
}

// WithTx runs fn inside one transaction shared by every repository call
// made with the derived context.
func (r *OfficeRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const officeSelect = `
SELECT o.id, o.address, o.post_code, o.office_map_url, o.city_id, o.author_email,
       o.created_at, o.updated_at, ci.name, ci.country_id, co.name, co.symbol
FROM offices o
JOIN cities ci ON ci.id = o.city_id
JOIN countries co ON co.id = ci.country_id`

func (r *OfficeRepository) GetOffice(ctx context.Context, id string) (persistence.Office, error) {
	office, err := scanOffice(r.q.queryRow(ctx, officeSelect+` WHERE o.id = $1`, id))
	if err != nil {
		return persistence.Office{}, mapError("get office", err)
	}
	offices := []persistence.Office{office}
	if err := r.attachZones(ctx, offices); err != nil {
		return persistence.Office{}, err
	}
	return offices[0], nil
}

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

func (r *OfficeRepository) FindOfficesByAddress(ctx context.Context, address string) ([]persistence.Office, error) {
	return r.queryOffices(ctx, officeSelect+` WHERE o.address = $1 ORDER BY o.id`, address)
}

func (r *OfficeRepository) SaveOffice(ctx context.Context, changes persistence.OfficeChanges) error {
	office := changes.Office
	if office.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return withTx(ctx, r.pool, func(ctx context.Context) error {
		if changes.Create {
			const stmt = `
INSERT INTO offices (id, address, post_code, office_map_url, city_id, author_email, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
			if _, err := r.q.exec(ctx, stmt,
				office.ID, office.Address, office.PostCode, office.OfficeMapURL,
				office.CityID, office.AuthorEmail, office.CreatedAt, office.UpdatedAt,
			); err != nil {
				return mapError("insert office", err)
			}
		} else {
			const stmt = `
UPDATE offices
SET address = $2, post_code = $3, office_map_url = $4, city_id = $5, author_email = $6, updated_at = $7
WHERE id = $1`
			tag, err := r.q.exec(ctx, stmt,
				office.ID, office.Address, office.PostCode, office.OfficeMapURL,
				office.CityID, office.AuthorEmail, office.UpdatedAt,
			)
			if err != nil {
				return mapError("update office", err)
			}
			if err := requireRow(tag); err != nil {
				return err
			}
		}

		if len(changes.DeleteOfficeZoneIDs) > 0 {
			if _, err := r.q.exec(ctx, `DELETE FROM office_zones WHERE office_id = $1 AND id = ANY($2)`,
				office.ID, changes.DeleteOfficeZoneIDs); err != nil {
				return mapError("delete office zones", err)
			}
		}
		if len(changes.DeleteParkingZoneIDs) > 0 {
			if _, err := r.q.exec(ctx, `DELETE FROM parking_zones WHERE office_id = $1 AND id = ANY($2)`,
				office.ID, changes.DeleteParkingZoneIDs); err != nil {
				return mapError("delete parking zones", err)
			}
		}

		for _, zone := range changes.UpdateOfficeZones {
			if _, err := r.q.exec(ctx, `UPDATE office_zones SET name = $3, desks = $4 WHERE id = $1 AND office_id = $2`,
				zone.ID, office.ID, zone.Name, zone.Desks); err != nil {
				return mapError("update office zone", err)
			}
		}
		for _, zone := range changes.UpdateParkingZones {
			if _, err := r.q.exec(ctx, `UPDATE parking_zones SET name = $3, spaces = $4 WHERE id = $1 AND office_id = $2`,
				zone.ID, office.ID, zone.Name, zone.Spaces); err != nil {
				return mapError("update parking zone", err)
			}
		}

		for _, zone := range changes.CreateOfficeZones {
			if _, err := r.q.exec(ctx, `INSERT INTO office_zones (id, office_id, name, desks) VALUES ($1, $2, $3, $4)`,
				zone.ID, office.ID, zone.Name, zone.Desks); err != nil {
				return mapError("insert office zone", err)
			}
		}
		for _, zone := range changes.CreateParkingZones {
			if _, err := r.q.exec(ctx, `INSERT INTO parking_zones (id, office_id, name, spaces) VALUES ($1, $2, $3, $4)`,
				zone.ID, office.ID, zone.Name, zone.Spaces); err != nil {
				return mapError("insert parking zone", err)
			}
		}
		return nil
	})
}

func (r *OfficeRepository) DeleteOffice(ctx context.Context, id string) error {
	tag, err := r.q.exec(ctx, `DELETE FROM offices WHERE id = $1`, id)
	if err != nil {
		return mapError("delete office", err)
	}
	return requireRow(tag)
}

func (r *OfficeRepository) GetOfficeZone(ctx context.Context, id string) (persistence.OfficeZone, error) {
	var z persistence.OfficeZone
	err := r.q.queryRow(ctx, `SELECT id, office_id, name, desks FROM office_zones WHERE id = $1`, id).
		Scan(&z.ID, &z.OfficeID, &z.Name, &z.Desks)
	if err != nil {
		return persistence.OfficeZone{}, mapError("get office zone", err)
	}
	return z, nil
}

func (r *OfficeRepository) GetParkingZone(ctx context.Context, id string) (persistence.ParkingZone, error) {
	var z persistence.ParkingZone
	err := r.q.queryRow(ctx, `SELECT id, office_id, name, spaces FROM parking_zones WHERE id = $1`, id).
		Scan(&z.ID, &z.OfficeID, &z.Name, &z.Spaces)
	if err != nil {
		return persistence.ParkingZone{}, mapError("get parking zone", err)
	}
	return z, nil
}

func (r *OfficeRepository) queryOffices(ctx context.Context, sql string, args ...any) ([]persistence.Office, error) {
	rows, err := r.q.query(ctx, sql, args...)
	if err != nil {
		return nil, mapError("list offices", err)
	}
	defer rows.Close()

	var offices []persistence.Office
	for rows.Next() {
		office, err := scanOffice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan office: %w", err)
		}
		offices = append(offices, office)
	}
	return offices, rows.Err()
}

// attachZones loads zones for offices in creation order.
func (r *OfficeRepository) attachZones(ctx context.Context, offices []persistence.Office) error {
	if len(offices) == 0 {
		return nil
	}
	index := make(map[string]int, len(offices))
	ids := make([]string, 0, len(offices))
	for i, office := range offices {
		index[office.ID] = i
		ids = append(ids, office.ID)
	}

	rows, err := r.q.query(ctx, `SELECT id, office_id, name, desks FROM office_zones WHERE office_id = ANY($1) ORDER BY seq`, ids)
	if err != nil {
		return mapError("list office zones", err)
	}
	for rows.Next() {
		var z persistence.OfficeZone
		if err := rows.Scan(&z.ID, &z.OfficeID, &z.Name, &z.Desks); err != nil {
			rows.Close()
			return fmt.Errorf("scan office zone: %w", err)
		}
		offices[index[z.OfficeID]].OfficeZones = append(offices[index[z.OfficeID]].OfficeZones, z)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.q.query(ctx, `SELECT id, office_id, name, spaces FROM parking_zones WHERE office_id = ANY($1) ORDER BY seq`, ids)
	if err != nil {
		return mapError("list parking zones", err)
	}
	defer rows.Close()
	for rows.Next() {
		var z persistence.ParkingZone
		if err := rows.Scan(&z.ID, &z.OfficeID, &z.Name, &z.Spaces); err != nil {
			return fmt.Errorf("scan parking zone: %w", err)
		}
		offices[index[z.OfficeID]].ParkingZones = append(offices[index[z.OfficeID]].ParkingZones, z)
	}
	return rows.Err()
}

func scanOffice(row pgx.Row) (persistence.Office, error) {
	var o persistence.Office
	if err := row.Scan(
		&o.ID, &o.Address, &o.PostCode, &o.OfficeMapURL, &o.CityID, &o.AuthorEmail,
		&o.CreatedAt, &o.UpdatedAt, &o.City.Name, &o.City.CountryID, &o.City.Country.Name, &o.City.Country.Symbol,
	); err != nil {
		return persistence.Office{}, err
	}
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	o.City.ID = o.CityID
	o.City.Country.ID = o.City.CountryID
	return o, nil
}
