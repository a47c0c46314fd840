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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo dimensión dim_customer (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	const query = `
		INSERT INTO dim_customer (customer_id, customer_name, region, province, district, industry,
		                          executive_name, email, phone_number, is_active, batch_id, created_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING customer_key`
	err := r.q.QueryRow(ctx, query,
		c.CustomerID, c.Name, c.Region, c.Province, c.District, c.Industry,
		c.ExecutiveName, c.Email, c.PhoneNumber, c.IsActive, c.BatchID, c.CreatedAt, c.CreatedBy,
	).Scan(&c.Key)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) GetByCustomerID(ctx context.Context, customerID string) (*entity.Customer, error) {
	const query = `
		SELECT customer_key, customer_id, customer_name, region, province, district, industry,
		       executive_name, email, phone_number, is_active, batch_id,
		       created_date, created_by, modified_date, modified_by
		FROM dim_customer WHERE customer_id = $1`
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, customerID).Scan(
		&c.Key, &c.CustomerID, &c.Name, &c.Region, &c.Province, &c.District, &c.Industry,
		&c.ExecutiveName, &c.Email, &c.PhoneNumber, &c.IsActive, &c.BatchID,
		&c.CreatedAt, &c.CreatedBy, &c.ModifiedAt, &c.ModifiedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	const query = `
		UPDATE dim_customer
		SET customer_name = $2, region = $3, province = $4, district = $5, industry = $6,
		    executive_name = $7, email = $8, phone_number = $9, is_active = $10,
		    modified_date = $11, modified_by = $12
		WHERE customer_key = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.Key, c.Name, c.Region, c.Province, c.District, c.Industry,
		c.ExecutiveName, c.Email, c.PhoneNumber, c.IsActive, c.ModifiedAt, c.ModifiedBy,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
