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

var _ repository.ExecutiveRepository = (*ExecutiveRepo)(nil)

// ExecutiveRepo dimensión dim_executive.
type ExecutiveRepo struct {
	q Querier
}

func NewExecutiveRepository(q Querier) *ExecutiveRepo {
	return &ExecutiveRepo{q: q}
}

func (r *ExecutiveRepo) Create(ctx context.Context, e *entity.Executive) error {
	const query = `
		INSERT INTO dim_executive (executive_id, executive_name, title, region, email, phone_number,
		                           is_active, batch_id, created_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING executive_key`
	err := r.q.QueryRow(ctx, query,
		e.ExecutiveID, e.Name, e.Title, e.Region, e.Email, e.PhoneNumber,
		e.IsActive, e.BatchID, e.CreatedAt, e.CreatedBy,
	).Scan(&e.Key)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert executive: %w", err)
	}
	return nil
}

func (r *ExecutiveRepo) GetByExecutiveID(ctx context.Context, executiveID string) (*entity.Executive, error) {
	const query = `
		SELECT executive_key, executive_id, executive_name, title, region, email, phone_number,
		       is_active, batch_id, created_date, created_by, modified_date, modified_by
		FROM dim_executive WHERE executive_id = $1`
	var e entity.Executive
	err := r.q.QueryRow(ctx, query, executiveID).Scan(
		&e.Key, &e.ExecutiveID, &e.Name, &e.Title, &e.Region, &e.Email, &e.PhoneNumber,
		&e.IsActive, &e.BatchID, &e.CreatedAt, &e.CreatedBy, &e.ModifiedAt, &e.ModifiedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get executive: %w", err)
	}
	return &e, nil
}

func (r *ExecutiveRepo) Update(ctx context.Context, e *entity.Executive) error {
	const query = `
		UPDATE dim_executive
		SET executive_name = $2, title = $3, region = $4, email = $5, phone_number = $6,
		    is_active = $7, modified_date = $8, modified_by = $9
		WHERE executive_key = $1`
	cmd, err := r.q.Exec(ctx, query,
		e.Key, e.Name, e.Title, e.Region, e.Email, e.PhoneNumber, e.IsActive, e.ModifiedAt, e.ModifiedBy,
	)
	if err != nil {
		return fmt.Errorf("update executive: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
