package entity

import (
	"testing"
	"time"

	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_CicloDeVidaExitoso(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	b := NewBatch(FileMeta{FileName: "ventas.xlsx", FileSize: 42}, "ana", start)
	assert.Equal(t, BatchCreated, b.Status)
	assert.Equal(t, "ventas.xlsx", b.Name)

	require.NoError(t, b.Start())
	require.NoError(t, b.Complete(BatchTotals{Products: 2, Customers: 3, Transactions: 4, Revenue: decimal.NewFromInt(330)}, start.Add(1500*time.Millisecond)))

	assert.Equal(t, BatchSuccess, b.Status)
	assert.Equal(t, 1500*time.Millisecond, b.ProcessingTime)
	assert.Equal(t, 4, b.TotalTransactions)

	assert.ErrorIs(t, b.Fail("tarde", start), domain.ErrInvalidTransition, "Success es terminal")
	assert.ErrorIs(t, b.Start(), domain.ErrInvalidTransition)
}

func TestBatch_Fail(t *testing.T) {
	start := time.Now()
	b := NewBatch(FileMeta{}, "ana", start)
	require.NoError(t, b.Start())

	require.NoError(t, b.Fail("conexión perdida", start.Add(time.Second)))
	assert.Equal(t, BatchFailed, b.Status)
	assert.Equal(t, "conexión perdida", b.ErrorMessage)
	assert.ErrorIs(t, b.Complete(BatchTotals{}, start), domain.ErrInvalidTransition)
	assert.ErrorIs(t, b.Fail("otra vez", start), domain.ErrInvalidTransition)
}

func TestBatch_SoftDelete(t *testing.T) {
	b := NewBatch(FileMeta{}, "ana", time.Now())
	now := time.Now()

	require.NoError(t, b.SoftDelete("admin", now))
	assert.True(t, b.IsDeleted)
	assert.Equal(t, "admin", *b.DeletedBy)
	assert.Equal(t, now, *b.DeletedAt)
	assert.ErrorIs(t, b.SoftDelete("admin", now), domain.ErrNotFound)
}
