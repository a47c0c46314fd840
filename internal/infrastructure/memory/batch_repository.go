package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
)

// BatchRepository implementación en memoria de repository.BatchRepository.
type BatchRepository struct{ s *Store }

var _ repository.BatchRepository = (*BatchRepository)(nil)

func NewBatchRepository(s *Store) *BatchRepository { return &BatchRepository{s: s} }

func (r *BatchRepository) Create(_ context.Context, b *entity.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = r.s.batches.insert(func(key int64) entity.Batch {
		row := *b
		row.ID = key
		return row
	})
	return nil
}

func (r *BatchRepository) GetByID(_ context.Context, id int64) (*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.batches.get(id)
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BatchRepository) Update(_ context.Context, b *entity.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.batches.get(b.ID); !ok {
		return domain.ErrNotFound
	}
	r.s.batches.rows[b.ID] = *b
	return nil
}

// List del más reciente al más antiguo (por ID descendente ante fechas iguales).
func (r *BatchRepository) List(_ context.Context, f repository.BatchFilter) ([]*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Batch
	for _, id := range slices.Backward(r.s.batches.order) {
		b := r.s.batches.rows[id]
		if b.IsDeleted || (f.UploadedBy != "" && b.UploadedBy != f.UploadedBy) {
			continue
		}
		out = append(out, &b)
	}
	slices.SortStableFunc(out, func(a, b *entity.Batch) int {
		return b.UploadDate.Compare(a.UploadDate)
	})
	if f.Offset >= len(out) {
		return []*entity.Batch{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}
