package sqlite

import (
	"context"
	"fmt"

	"github.com/example/desk-reservation/internal/persistence"
)

// CatalogRepository reads countries and cities.
type CatalogRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewCatalogRepository creates a new SQLite catalog repository
func NewCatalogRepository(pool *ConnectionPool) *CatalogRepository {
	return &CatalogRepository{pool: pool, mapper: NewErrorMapper()}
}

const citySelect = `
	SELECT ci.id, ci.name, ci.country_id, co.name, co.symbol
	FROM cities ci
	JOIN countries co ON co.id = ci.country_id`

// ListCountries returns all countries ordered by name.
func (r *CatalogRepository) ListCountries(ctx context.Context) ([]persistence.Country, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `SELECT id, name, symbol FROM countries ORDER BY name, id`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var countries []persistence.Country
	for rows.Next() {
		var country persistence.Country
		if err := rows.Scan(&country.ID, &country.Name, &country.Symbol); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, country)
	}
	return countries, rows.Err()
}

// ListCities returns all cities with their country ordered by name.
func (r *CatalogRepository) ListCities(ctx context.Context) ([]persistence.City, error) {
	rows, err := r.pool.DB().QueryContext(ctx, citySelect+` ORDER BY ci.name, ci.id`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var cities []persistence.City
	for rows.Next() {
		city, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

// GetCityByName looks up a city by its exact name.
func (r *CatalogRepository) GetCityByName(ctx context.Context, name string) (persistence.City, error) {
	row := r.pool.DB().QueryRowContext(ctx, citySelect+` WHERE ci.name = ?`, name)
	city, err := scanCity(row)
	if err != nil {
		return persistence.City{}, r.mapper.MapError(err)
	}
	return city, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCity(row rowScanner) (persistence.City, error) {
	var city persistence.City
	if err := row.Scan(&city.ID, &city.Name, &city.CountryID, &city.Country.Name, &city.Country.Symbol); err != nil {
		return persistence.City{}, err
	}
	city.Country.ID = city.CountryID
	return city, nil
}
