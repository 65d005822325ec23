package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
)

type geoRepository struct {
	db *sqlx.DB
}

func NewGeoRepository(db *sqlx.DB) repository.GeoRepository {
	return &geoRepository{db: db}
}

func (r *geoRepository) ListCounties(ctx context.Context) ([]*model.County, error) {
	query := `SELECT * FROM counties ORDER BY name`
	var counties []*model.County
	if err := r.db.SelectContext(ctx, &counties, query); err != nil {
		return nil, fmt.Errorf("failed to list counties: %w", err)
	}
	return counties, nil
}

func (r *geoRepository) ListSubCounties(ctx context.Context, countyID uuid.UUID) ([]*model.SubCounty, error) {
	query := `SELECT * FROM sub_counties WHERE county_id = $1 ORDER BY name`
	var subCounties []*model.SubCounty
	if err := r.db.SelectContext(ctx, &subCounties, query, countyID); err != nil {
		return nil, fmt.Errorf("failed to list sub-counties: %w", err)
	}
	return subCounties, nil
}

func (r *geoRepository) CreateCounty(ctx context.Context, county *model.County) error {
	query := `INSERT INTO counties (id, name, code) VALUES ($1, $2, $3)`
	county.ID = uuid.New()
	if _, err := r.db.ExecContext(ctx, query, county.ID, county.Name, county.Code); err != nil {
		return fmt.Errorf("failed to create county: %w", err)
	}
	return nil
}

func (r *geoRepository) CreateSubCounty(ctx context.Context, subCounty *model.SubCounty) error {
	query := `INSERT INTO sub_counties (id, county_id, name) VALUES ($1, $2, $3)`
	subCounty.ID = uuid.New()
	if _, err := r.db.ExecContext(ctx, query, subCounty.ID, subCounty.CountyID, subCounty.Name); err != nil {
		return fmt.Errorf("failed to create sub-county: %w", err)
	}
	return nil
}
