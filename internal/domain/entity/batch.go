package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/shopspring/decimal"
)

// BatchStatus estado del ciclo de vida de un lote de carga.
type BatchStatus string

// Created → Processing → {Success | Failed}.
const (
	BatchCreated    BatchStatus = "Created"
	BatchProcessing BatchStatus = "Processing"
	BatchSuccess    BatchStatus = "Success"
	BatchFailed     BatchStatus = "Failed"
)

// Batch registro de una ejecución de carga (UploadBatch).
type Batch struct {
	ID         int64
	Name       string
	FileName   string
	FileSize   int64
	FilePath   string
	UploadedBy string
	UploadDate time.Time

	TotalProducts     int
	TotalCustomers    int
	TotalTransactions int
	TotalRevenue      decimal.Decimal

	Status         BatchStatus
	ErrorMessage   string
	ProcessingTime time.Duration
	Notes          string

	IsDeleted bool
	DeletedAt *time.Time
	DeletedBy *string
}

// FileMeta metadatos del archivo subido.
type FileMeta struct {
	FileName string
	FileSize int64
	FilePath string
}

// BatchTotals totales que se fijan al cerrar el lote con éxito.
type BatchTotals struct {
	Products     int
	Customers    int
	Transactions int
	Revenue      decimal.Decimal
}

// NewBatch crea un lote en estado Created. UploadDate marca el inicio para ProcessingTime.
func NewBatch(meta FileMeta, actorID string, now time.Time) *Batch {
	return &Batch{
		Name:         meta.FileName,
		FileName:     meta.FileName,
		FileSize:     meta.FileSize,
		FilePath:     meta.FilePath,
		UploadedBy:   actorID,
		UploadDate:   now,
		TotalRevenue: decimal.Zero,
		Status:       BatchCreated,
	}
}

// Start pasa el lote de Created a Processing.
func (b *Batch) Start() error {
	if b.Status != BatchCreated {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, b.Status, BatchProcessing)
	}
	b.Status = BatchProcessing
	return nil
}

// Complete fija los totales y cierra el lote en Success.
func (b *Batch) Complete(t BatchTotals, now time.Time) error {
	if b.Status != BatchProcessing {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, b.Status, BatchSuccess)
	}
	b.TotalProducts = t.Products
	b.TotalCustomers = t.Customers
	b.TotalTransactions = t.Transactions
	b.TotalRevenue = t.Revenue
	b.ProcessingTime = now.Sub(b.UploadDate)
	b.Status = BatchSuccess
	return nil
}

// Fail cierra el lote en Failed guardando el mensaje de error.
func (b *Batch) Fail(message string, now time.Time) error {
	if b.Status == BatchSuccess || b.Status == BatchFailed {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, b.Status, BatchFailed)
	}
	b.ErrorMessage = message
	b.ProcessingTime = now.Sub(b.UploadDate)
	b.Status = BatchFailed
	return nil
}

// SoftDelete marca el lote como eliminado. Sus hechos dejan de contar en la analítica.
func (b *Batch) SoftDelete(actorID string, now time.Time) error {
	if b.IsDeleted {
		return domain.ErrNotFound
	}
	b.IsDeleted = true
	b.DeletedAt = &now
	b.DeletedBy = &actorID
	return nil
}
