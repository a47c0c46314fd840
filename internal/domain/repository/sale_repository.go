package repository

import (
	"context"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleRepository puerto de la tabla de hechos. Solo inserción: los hechos son inmutables.
type SaleRepository interface {
	// Create inserta el hecho y asigna sale.Key.
	Create(ctx context.Context, sale *entity.Sale) error
	// SumRevenueByBatch suma Revenue de los hechos del lote (cero si no hay filas).
	SumRevenueByBatch(ctx context.Context, batchID int64) (decimal.Decimal, error)
	CountByBatch(ctx context.Context, batchID int64) (int, error)
}
