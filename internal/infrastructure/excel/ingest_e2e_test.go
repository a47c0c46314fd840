package excel_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jhoicas/rentabilidad-api/internal/application/ingest"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/infrastructure/excel"
	"github.com/jhoicas/rentabilidad-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeRows(t *testing.T, f *excelize.File, sheet string, rows [][]any) {
	t.Helper()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
}

// TestIngestFile_LibroReal recorre el camino completo: archivo en disco → excelize →
// pipeline de carga → store en memoria.
func TestIngestFile_LibroReal(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", ingest.SheetProducts))
	writeRows(t, f, ingest.SheetProducts, [][]any{
		{"ProductID", "ProductName", "BU", "Division", "Industry"},
		{"P1", "Widget", "BU1", "Div1", "Ind1"},
	})
	for _, name := range []string{ingest.SheetCustomers, ingest.SheetSales} {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}
	writeRows(t, f, ingest.SheetCustomers, [][]any{
		{"CustomerID", "CustomerName", "Region", "Province", "District", "Industry", "ExecutiveName", "Email", "PhoneNumber"},
		{"C1", "Acme", "North", "Hanoi", "Ba Dinh", "Retail", "Ana", "a@acme.com", "111"},
	})
	writeRows(t, f, ingest.SheetSales, [][]any{
		{"TransactionID", "Date", "ProductID", "CustomerID", "ExecutiveID", "ScenarioName", "Quantity", "UnitPrice", "Revenue", "COGS"},
		{"T1", "2024-01-15", "P1", "C1", "", "Actual", 10, 5, 50, 30},
		{"T2", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "P1", "C1", "", "Actual", 1, 20, 20, 5},
	})
	path := filepath.Join(t.TempDir(), "carga.xlsx")
	require.NoError(t, f.SaveAs(path))
	info, err := os.Stat(path)
	require.NoError(t, err)

	s := memory.NewStore()
	resolver := ingest.NewIdentityResolver(
		memory.NewProductRepository(s),
		memory.NewCustomerRepository(s),
		memory.NewExecutiveRepository(s),
		memory.NewLocationRepository(s),
		memory.NewScenarioRepository(s),
	)
	_, err = resolver.EnsureScenario(context.Background(), entity.ScenarioActual, "")
	require.NoError(t, err)
	uc := ingest.NewIngestUseCase(
		resolver,
		ingest.NewFactLoader(resolver, memory.NewSaleRepository(s)),
		memory.NewBatchRepository(s),
		memory.NewTxRunner(s),
		memory.NewLocker(),
		excel.NewReader(),
		nil,
		ingest.Limits{MaxFileBytes: 10 << 20, MaxRows: 100},
		nil,
	)

	summary, err := uc.IngestFile(context.Background(), ingest.IngestRequest{
		FileName: "carga.xlsx",
		FileSize: info.Size(),
		FilePath: path,
		Caller:   entity.Caller{ActorID: "ana"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Products)
	assert.Equal(t, 1, summary.Customers)
	assert.Equal(t, 0, summary.Employees, "hoja Employees ausente")
	assert.Equal(t, 2, summary.Transactions, "la fecha con formato de Excel también se reconoce")
	assert.True(t, decimal.NewFromInt(70).Equal(summary.Revenue), "revenue %s", summary.Revenue)
}

func TestIngestFile_ArchivoCorruptoEsValidacion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roto.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("no es un zip"), 0o600))

	s := memory.NewStore()
	resolver := ingest.NewIdentityResolver(
		memory.NewProductRepository(s), memory.NewCustomerRepository(s), memory.NewExecutiveRepository(s),
		memory.NewLocationRepository(s), memory.NewScenarioRepository(s),
	)
	uc := ingest.NewIngestUseCase(resolver, ingest.NewFactLoader(resolver, memory.NewSaleRepository(s)),
		memory.NewBatchRepository(s), memory.NewTxRunner(s), memory.NewLocker(), excel.NewReader(),
		nil, ingest.Limits{}, nil)

	_, err := uc.IngestFile(context.Background(), ingest.IngestRequest{FileName: "roto.xlsx", FileSize: 12, FilePath: path})
	require.Error(t, err)
	assert.True(t, ingest.IsRejected(err))
}
