package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo tabla de hechos fact_sales. gross_profit y gross_profit_margin_pct son
// columnas generadas por la base.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	const query = `
		INSERT INTO fact_sales (transaction_id, date_key, product_key, customer_key, executive_key,
		                        location_key, scenario_key, quantity, unit_price, revenue, cogs,
		                        batch_id, created_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING sales_key`
	err := r.q.QueryRow(ctx, query,
		s.TransactionID, int(s.DateKey), s.ProductKey, s.CustomerKey, s.ExecutiveKey,
		s.LocationKey, s.ScenarioKey, s.Quantity, s.UnitPrice, s.Revenue, s.COGS,
		s.BatchID, s.CreatedAt, s.CreatedBy,
	).Scan(&s.Key)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) SumRevenueByBatch(ctx context.Context, batchID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(revenue), 0) FROM fact_sales WHERE batch_id = $1`, batchID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum revenue by batch: %w", err)
	}
	return total, nil
}

func (r *SaleRepo) CountByBatch(ctx context.Context, batchID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM fact_sales WHERE batch_id = $1`, batchID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales by batch: %w", err)
	}
	return n, nil
}
