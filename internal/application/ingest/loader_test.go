package ingest_test

import (
	"context"
	"testing"

	"github.com/jhoicas/rentabilidad-api/internal/application/ingest"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDimensions crea P1, C1 y E1 mediante el resolvedor, como lo haría la carga de hojas.
func seedDimensions(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	_, err := f.resolver.ResolveProduct(ctx, "P1", entity.ProductAttributes{Name: "Widget"}, 1, "user-1")
	require.NoError(t, err)
	_, err = f.resolver.ResolveCustomer(ctx, "C1", entity.CustomerAttributes{Name: "Acme", Region: "North", Province: "Hanoi"}, 1, "user-1")
	require.NoError(t, err)
	_, err = f.resolver.ResolveExecutive(ctx, "E1", entity.ExecutiveAttributes{Name: "Ana"}, 1, "user-1")
	require.NoError(t, err)
}

func saleRow(txID, executiveID string) ingest.SaleRow {
	return ingest.SaleRow{
		TransactionID: txID, Date: "2024-01-15", ProductID: "P1", CustomerID: "C1",
		ExecutiveID: executiveID, Scenario: "Actual",
		Quantity: "10", UnitPrice: "5.00", Revenue: "50.00", COGS: "30.00",
	}
}

func TestLoadRow_CargaConMedidasDerivadas(t *testing.T) {
	f := newFixture(t)
	seedDimensions(t, f)

	res := f.loader.LoadRow(context.Background(), saleRow("T1", "E1"), 7, "user-1")

	require.Equal(t, ingest.RowLoaded, res.Status)
	sale := res.Sale
	require.NotNil(t, sale)
	assert.NotZero(t, sale.Key)
	assert.Equal(t, entity.DateKey(20240115), sale.DateKey)
	assert.Equal(t, int64(7), sale.BatchID)
	require.NotNil(t, sale.ExecutiveKey)
	assert.NotZero(t, sale.LocationKey)
	assert.True(t, decimal.NewFromInt(20).Equal(sale.GrossProfit()))
	assert.True(t, decimal.NewFromInt(40).Equal(sale.GrossProfitMarginPct()))
	assert.Empty(t, res.CoercedMeasures)
}

func TestLoadRow_EjecutivoFaltanteNoOmiteLaFila(t *testing.T) {
	f := newFixture(t)
	seedDimensions(t, f)

	for _, executiveID := range []string{"", "E404"} {
		res := f.loader.LoadRow(context.Background(), saleRow("T-"+executiveID, executiveID), 1, "user-1")
		require.Equal(t, ingest.RowLoaded, res.Status, "ejecutivo %q", executiveID)
		assert.Nil(t, res.Sale.ExecutiveKey)
	}
}

func TestLoadRow_MotivosDeOmision(t *testing.T) {
	f := newFixture(t)
	seedDimensions(t, f)

	cases := []struct {
		name   string
		mutate func(*ingest.SaleRow)
		reason ingest.SkipReason
	}{
		{"sin transacción", func(r *ingest.SaleRow) { r.TransactionID = "" }, ingest.SkipEmptyTransactionID},
		{"fecha inválida", func(r *ingest.SaleRow) { r.Date = "31/31/2024" }, ingest.SkipInvalidDate},
		{"producto desconocido", func(r *ingest.SaleRow) { r.ProductID = "P404" }, ingest.SkipUnknownProduct},
		{"cliente desconocido", func(r *ingest.SaleRow) { r.CustomerID = "C404" }, ingest.SkipUnknownCustomer},
		{"escenario con otra capitalización", func(r *ingest.SaleRow) { r.Scenario = "actual" }, ingest.SkipUnknownScenario},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := saleRow("T1", "")
			tc.mutate(&row)
			res := f.loader.LoadRow(context.Background(), row, 1, "user-1")
			assert.Equal(t, ingest.RowSkipped, res.Status)
			assert.Equal(t, tc.reason, res.Reason)
			assert.Nil(t, res.Sale)
		})
	}
}

func TestLoadRow_MedidaInvalidaSeFuerzaACero(t *testing.T) {
	f := newFixture(t)
	seedDimensions(t, f)
	row := saleRow("T1", "")
	row.Revenue = "n/a"

	res := f.loader.LoadRow(context.Background(), row, 1, "user-1")

	require.Equal(t, ingest.RowLoaded, res.Status)
	assert.Equal(t, []string{"revenue"}, res.CoercedMeasures)
	assert.True(t, res.Sale.Revenue.IsZero())
	assert.True(t, res.Sale.GrossProfitMarginPct().IsZero(), "margen 0 cuando revenue ≤ 0")
}

// ──────────────────────────────────────────────────────────────────────────────
// IdentityResolver
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveProduct_Idempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	attrs := entity.ProductAttributes{Name: "Widget", BU: "BU1"}

	k1, err := f.resolver.ResolveProduct(ctx, "P1", attrs, 1, "user-1")
	require.NoError(t, err)
	k2, err := f.resolver.ResolveProduct(ctx, "P1", attrs, 2, "user-2")
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	p, err := f.resolver.LookupProduct(ctx, "P1")
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Equal(t, "user-1", p.CreatedBy)
	require.NotNil(t, p.ModifiedBy)
	assert.Equal(t, "user-2", *p.ModifiedBy)
}

func TestResolveLocation_NoSeActualiza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	k1, err := f.resolver.ResolveLocation(ctx, &entity.Customer{Region: "North", Province: "Hue", District: "D1"}, "user-1")
	require.NoError(t, err)
	k2, err := f.resolver.ResolveLocation(ctx, &entity.Customer{Region: "South", Province: "Hue", District: "D2"}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	loc, err := memoryLocation(f, "Hue")
	require.NoError(t, err)
	assert.Equal(t, "North", loc.Region)
	assert.Equal(t, "D1", loc.District)
}

func TestEnsureScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	actual, err := f.resolver.LookupScenario(ctx, entity.ScenarioActual)
	require.NoError(t, err)
	k, err := f.resolver.EnsureScenario(ctx, entity.ScenarioActual, "Datos reales")
	require.NoError(t, err)
	assert.Equal(t, actual.Key, k)

	updated, err := f.resolver.LookupScenario(ctx, entity.ScenarioActual)
	require.NoError(t, err)
	assert.Equal(t, "Datos reales", updated.Description)
}
