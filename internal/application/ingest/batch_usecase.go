package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
)

// BatchUseCase historial de cargas: listado, detalle y borrado lógico.
type BatchUseCase struct {
	batches repository.BatchRepository
	now     func() time.Time
}

// NewBatchUseCase construye el caso de uso del historial.
func NewBatchUseCase(batches repository.BatchRepository) *BatchUseCase {
	return &BatchUseCase{batches: batches, now: time.Now}
}

// List devuelve los lotes no eliminados. uploadedBy vacío = lotes de todos los usuarios.
func (uc *BatchUseCase) List(ctx context.Context, uploadedBy string, page dto.PageRequest) (*dto.BatchListResponse, error) {
	page.DefaultPage()
	filter := repository.BatchFilter{UploadedBy: uploadedBy, Limit: page.Limit, Offset: page.Offset}
	list, err := uc.batches.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar lotes: %w", err)
	}
	items := make([]dto.BatchDTO, 0, len(list))
	for _, b := range list {
		items = append(items, toBatchDTO(b))
	}
	return &dto.BatchListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Get devuelve el detalle de un lote. Los lotes eliminados, o de otro usuario cuando
// uploadedBy no está vacío, responden ErrNotFound.
func (uc *BatchUseCase) Get(ctx context.Context, id int64, uploadedBy string) (*dto.BatchDTO, error) {
	b, err := uc.find(ctx, id, uploadedBy)
	if err != nil {
		return nil, err
	}
	out := toBatchDTO(b)
	return &out, nil
}

// Delete marca el lote como eliminado por actorID. El llamador ya verificó el permiso.
func (uc *BatchUseCase) Delete(ctx context.Context, id int64, actorID string) error {
	b, err := uc.find(ctx, id, "")
	if err != nil {
		return err
	}
	if b.Status == entity.BatchProcessing {
		return fmt.Errorf("%w: el lote %d sigue en proceso", domain.ErrInvalidTransition, id)
	}
	if err := b.SoftDelete(actorID, uc.now()); err != nil {
		return err
	}
	if err := uc.batches.Update(ctx, b); err != nil {
		return fmt.Errorf("eliminar lote: %w", err)
	}
	return nil
}

func (uc *BatchUseCase) find(ctx context.Context, id int64, uploadedBy string) (*entity.Batch, error) {
	b, err := uc.batches.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar lote: %w", err)
	}
	if b == nil || b.IsDeleted {
		return nil, domain.ErrNotFound
	}
	if uploadedBy != "" && b.UploadedBy != uploadedBy {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func toBatchDTO(b *entity.Batch) dto.BatchDTO {
	return dto.BatchDTO{
		ID:                b.ID,
		Name:              b.Name,
		FileName:          b.FileName,
		FileSize:          b.FileSize,
		UploadedBy:        b.UploadedBy,
		UploadDate:        b.UploadDate,
		Status:            string(b.Status),
		TotalProducts:     b.TotalProducts,
		TotalCustomers:    b.TotalCustomers,
		TotalTransactions: b.TotalTransactions,
		TotalRevenue:      b.TotalRevenue,
		ErrorMessage:      b.ErrorMessage,
		ProcessingTimeMs:  b.ProcessingTime.Milliseconds(),
		Notes:             b.Notes,
	}
}
