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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo dimensión dim_product (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create inserta el producto y asigna product.Key.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	const query = `
		INSERT INTO dim_product (product_id, product_name, bu, division, industry, is_active, batch_id, created_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING product_key`
	err := r.q.QueryRow(ctx, query,
		p.ProductID, p.Name, p.BU, p.Division, p.Industry, p.IsActive, p.BatchID, p.CreatedAt, p.CreatedBy,
	).Scan(&p.Key)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByProductID busca por clave natural; (nil, nil) si no existe.
func (r *ProductRepo) GetByProductID(ctx context.Context, productID string) (*entity.Product, error) {
	const query = `
		SELECT product_key, product_id, product_name, bu, division, industry, is_active, batch_id,
		       created_date, created_by, modified_date, modified_by
		FROM dim_product WHERE product_id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&p.Key, &p.ProductID, &p.Name, &p.BU, &p.Division, &p.Industry, &p.IsActive, &p.BatchID,
		&p.CreatedAt, &p.CreatedBy, &p.ModifiedAt, &p.ModifiedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza atributos descriptivos y sello de modificación. La clave no cambia.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	const query = `
		UPDATE dim_product
		SET product_name = $2, bu = $3, division = $4, industry = $5, is_active = $6,
		    modified_date = $7, modified_by = $8
		WHERE product_key = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.Key, p.Name, p.BU, p.Division, p.Industry, p.IsActive, p.ModifiedAt, p.ModifiedBy,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
