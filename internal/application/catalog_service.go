package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CatalogRepository reads seeded countries and cities.
type CatalogRepository interface {
	ListCountries(ctx context.Context) ([]Country, error)
	ListCities(ctx context.Context) ([]City, error)
	GetCityByName(ctx context.Context, name string) (City, error)
}

const catalogCacheKey = "all"

// CatalogService serves reference data through a TTL cache.
type CatalogService struct {
	catalog   CatalogRepository
	countries *catalogCache[Country]
	cities    *catalogCache[City]
	logger    *slog.Logger
}

// NewCatalogService constructs a catalog service. A non-positive ttl uses
// the cache default.
func NewCatalogService(catalog CatalogRepository, ttl time.Duration) *CatalogService {
	return NewCatalogServiceWithLogger(catalog, ttl, nil)
}

// NewCatalogServiceWithLogger constructs a catalog service with a specified logger.
func NewCatalogServiceWithLogger(catalog CatalogRepository, ttl time.Duration, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		catalog:   catalog,
		countries: newCatalogCache[Country](ttl, 1),
		cities:    newCatalogCache[City](ttl, 1),
		logger:    defaultLogger(logger),
	}
}

func (s *CatalogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CatalogService", operation, attrs...)
}

// ListCountries returns every country ordered by name.
func (s *CatalogService) ListCountries(ctx context.Context) (result Result[[]Country]) {
	if s == nil || s.catalog == nil {
		return BadRequest[[]Country]("catalog repository not configured")
	}

	var err error
	logger := s.loggerWith(ctx, "ListCountries")
	defer func() {
		logOutcome(ctx, logger.With("result_count", len(result.Data)), result, err, "failed to list countries", "countries listed")
	}()

	if cached, ok := s.countries.Get(catalogCacheKey); ok {
		return Ok(cached)
	}

	var countries []Country
	countries, err = s.catalog.ListCountries(ctx)
	if err != nil {
		return BadRequest[[]Country](fmt.Sprintf("failed to list countries: %v", err))
	}
	s.countries.Store(catalogCacheKey, countries)
	return Ok(cloneItems(countries))
}

// ListCities returns every city with its country ordered by name.
func (s *CatalogService) ListCities(ctx context.Context) (result Result[[]City]) {
	if s == nil || s.catalog == nil {
		return BadRequest[[]City]("catalog repository not configured")
	}

	var err error
	logger := s.loggerWith(ctx, "ListCities")
	defer func() {
		logOutcome(ctx, logger.With("result_count", len(result.Data)), result, err, "failed to list cities", "cities listed")
	}()

	if cached, ok := s.cities.Get(catalogCacheKey); ok {
		return Ok(cached)
	}

	var cities []City
	cities, err = s.catalog.ListCities(ctx)
	if err != nil {
		return BadRequest[[]City](fmt.Sprintf("failed to list cities: %v", err))
	}
	s.cities.Store(catalogCacheKey, cities)
	return Ok(cloneItems(cities))
}

// Invalidate drops cached lists.
func (s *CatalogService) Invalidate() {
	if s == nil {
		return
	}
	s.countries.Invalidate()
	s.cities.Invalidate()
}
