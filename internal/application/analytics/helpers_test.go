package analytics_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jhoicas/rentabilidad-api/internal/application/analytics"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sembrado del esquema estrella en memoria
// ──────────────────────────────────────────────────────────────────────────────

type seeder struct {
	t         *testing.T
	ctx       context.Context
	store     *memory.Store
	batchID   int64
	scenarios map[string]int64
	products  map[string]int64
	customers map[string]*entity.Customer
	txSeq     int
}

func newSeeder(t *testing.T) *seeder {
	t.Helper()
	sd := &seeder{
		t:         t,
		ctx:       context.Background(),
		store:     memory.NewStore(),
		scenarios: map[string]int64{},
		products:  map[string]int64{},
		customers: map[string]*entity.Customer{},
	}
	for _, name := range []string{entity.ScenarioActual, entity.ScenarioBudget} {
		sc := &entity.Scenario{Name: name}
		require.NoError(t, memory.NewScenarioRepository(sd.store).Create(sd.ctx, sc))
		sd.scenarios[name] = sc.Key
	}
	sd.batchID = sd.newBatch()
	return sd
}

// newBatch crea un lote Success y lo usa para las ventas siguientes.
func (sd *seeder) newBatch() int64 {
	b := entity.NewBatch(entity.FileMeta{FileName: "seed.xlsx"}, "seed", time.Now())
	require.NoError(sd.t, b.Start())
	require.NoError(sd.t, b.Complete(entity.BatchTotals{}, time.Now()))
	require.NoError(sd.t, memory.NewBatchRepository(sd.store).Create(sd.ctx, b))
	sd.batchID = b.ID
	return b.ID
}

func (sd *seeder) product(id, name string) {
	p := &entity.Product{ProductID: id, Name: name, IsActive: true}
	require.NoError(sd.t, memory.NewProductRepository(sd.store).Create(sd.ctx, p))
	sd.products[id] = p.Key
}

func (sd *seeder) customer(id, region, province string, active bool) {
	c := &entity.Customer{CustomerID: id, Name: id, Region: region, Province: province, IsActive: active}
	require.NoError(sd.t, memory.NewCustomerRepository(sd.store).Create(sd.ctx, c))
	sd.customers[id] = c
}

// sale inserta un hecho; la ubicación se resuelve por la provincia del cliente.
func (sd *seeder) sale(dateKey int, productID, customerID, scenario, revenue, cogs string) {
	sd.t.Helper()
	locs := memory.NewLocationRepository(sd.store)
	c := sd.customers[customerID]
	loc, err := locs.GetByProvince(sd.ctx, c.Province)
	require.NoError(sd.t, err)
	if loc == nil {
		l := entity.LocationFromCustomer(c)
		require.NoError(sd.t, locs.Create(sd.ctx, &l))
		loc = &l
	}
	sd.txSeq++
	s := &entity.Sale{
		TransactionID: "T" + strconv.Itoa(sd.txSeq),
		DateKey:       entity.DateKey(dateKey),
		ProductKey:    sd.products[productID],
		CustomerKey:   c.Key,
		LocationKey:   loc.Key,
		ScenarioKey:   sd.scenarios[scenario],
		BatchID:       sd.batchID,
	}
	s.SetMeasures(entity.Measures{
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.RequireFromString(revenue),
		Revenue:   decimal.RequireFromString(revenue),
		COGS:      decimal.RequireFromString(cogs),
	})
	require.NoError(sd.t, memory.NewSaleRepository(sd.store).Create(sd.ctx, s))
}

func (sd *seeder) dashboard() *analytics.DashboardUseCase {
	return analytics.NewDashboardUseCase(memory.NewAnalyticsRepository(sd.store), analytics.Options{CurrencyLabel: "VND"})
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// baseline dataset pequeño con dos regiones, tres provincias y dos meses.
func baseline(t *testing.T) *seeder {
	sd := newSeeder(t)
	sd.product("P1", "Widget")
	sd.product("P2", "Gadget")
	sd.product("P3", "Gizmo")
	sd.customer("C1", "North", "Hanoi", true)
	sd.customer("C2", "South", "Saigon", true)
	sd.customer("C3", "South", "Can Tho", false)

	sd.sale(20240115, "P1", "C1", entity.ScenarioActual, "100", "60") // 40 %
	sd.sale(20240120, "P2", "C2", entity.ScenarioActual, "300", "150") // 50 %
	sd.sale(20240210, "P1", "C2", entity.ScenarioActual, "200", "180") // 10 %
	sd.sale(20240211, "P3", "C3", entity.ScenarioActual, "0", "20")    // revenue 0: fuera del margen
	sd.sale(20240115, "P1", "C1", entity.ScenarioBudget, "500", "300")
	return sd
}
