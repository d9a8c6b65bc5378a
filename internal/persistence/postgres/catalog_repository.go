package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/desk-reservation/internal/persistence"
)

type CatalogRepository struct {
	q querier
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{q: querier{pool: pool}}
}

const citySelect = `
SELECT ci.id, ci.name, ci.country_id, co.name, co.symbol
FROM cities ci
JOIN countries co ON co.id = ci.country_id`

func (r *CatalogRepository) ListCountries(ctx context.Context) ([]persistence.Country, error) {
	rows, err := r.q.query(ctx, `SELECT id, name, symbol FROM countries ORDER BY name, id`)
	if err != nil {
		return nil, mapError("list countries", err)
	}
	defer rows.Close()

	var countries []persistence.Country
	for rows.Next() {
		var c persistence.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Symbol); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

func (r *CatalogRepository) ListCities(ctx context.Context) ([]persistence.City, error) {
	rows, err := r.q.query(ctx, citySelect+` ORDER BY ci.name, ci.id`)
	if err != nil {
		return nil, mapError("list cities", err)
	}
	defer rows.Close()

	var cities []persistence.City
	for rows.Next() {
		city, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

func (r *CatalogRepository) GetCityByName(ctx context.Context, name string) (persistence.City, error) {
	city, err := scanCity(r.q.queryRow(ctx, citySelect+` WHERE ci.name = $1`, name))
	if err != nil {
		return persistence.City{}, mapError("get city", err)
	}
	return city, nil
}

func scanCity(row pgx.Row) (persistence.City, error) {
	var c persistence.City
	if err := row.Scan(&c.ID, &c.Name, &c.CountryID, &c.Country.Name, &c.Country.Symbol); err != nil {
		return persistence.City{}, err
	}
	c.Country.ID = c.CountryID
	return c, nil
}
