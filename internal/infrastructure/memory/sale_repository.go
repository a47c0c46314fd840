package memory

import (
	"context"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SaleRepository implementación en memoria de la tabla de hechos.
type SaleRepository struct{ s *Store }

var _ repository.SaleRepository = (*SaleRepository)(nil)

func NewSaleRepository(s *Store) *SaleRepository { return &SaleRepository{s: s} }

func (r *SaleRepository) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale.Key = r.s.sales.insert(func(key int64) entity.Sale {
		row := *sale
		row.Key = key
		return row
	})
	return nil
}

func (r *SaleRepository) SumRevenueByBatch(_ context.Context, batchID int64) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	r.s.sales.each(func(sale entity.Sale) {
		if sale.BatchID == batchID {
			total = total.Add(sale.Revenue)
		}
	})
	return total, nil
}

func (r *SaleRepository) CountByBatch(_ context.Context, batchID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	r.s.sales.each(func(sale entity.Sale) {
		if sale.BatchID == batchID {
			n++
		}
	})
	return n, nil
}
