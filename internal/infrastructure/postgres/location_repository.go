package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo dimensión dim_location, única por provincia.
type LocationRepo struct {
	q Querier
}

func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	const query = `
		INSERT INTO dim_location (region, province, district, created_date, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING location_key`
	err := r.q.QueryRow(ctx, query, l.Region, l.Province, l.District, l.CreatedAt, l.CreatedBy).Scan(&l.Key)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *LocationRepo) GetByProvince(ctx context.Context, province string) (*entity.Location, error) {
	const query = `
		SELECT location_key, region, province, district, created_date, created_by
		FROM dim_location WHERE province = $1`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, province).Scan(&l.Key, &l.Region, &l.Province, &l.District, &l.CreatedAt, &l.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}
