package repository

import (
	"context"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
)

// BatchFilter filtros del historial de cargas. UploadedBy vacío = todos los usuarios.
type BatchFilter struct {
	UploadedBy string
	Limit      int
	Offset     int
}

// BatchRepository puerto de persistencia para UploadBatch.
type BatchRepository interface {
	// Create inserta el lote y asigna batch.ID.
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id int64) (*entity.Batch, error)
	// Update persiste estado, totales, tiempos y campos de borrado lógico.
	Update(ctx context.Context, batch *entity.Batch) error
	// List devuelve los lotes no eliminados, del más reciente al más antiguo.
	List(ctx context.Context, filter BatchFilter) ([]*entity.Batch, error)
}
