package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// RowStatus resultado de procesar una fila de ventas.
type RowStatus int

const (
	RowLoaded RowStatus = iota
	RowSkipped
)

// SkipReason motivo por el que una fila de ventas no se cargó.
type SkipReason string

const (
	SkipEmptyTransactionID SkipReason = "empty_transaction_id"
	SkipInvalidDate        SkipReason = "invalid_date"
	SkipUnknownProduct     SkipReason = "unknown_product"
	SkipUnknownCustomer    SkipReason = "unknown_customer"
	SkipUnknownScenario    SkipReason = "unknown_scenario"
	SkipRowError           SkipReason = "row_error"
)

// RowResult resultado explícito de LoadRow: Loaded con el hecho creado, o Skipped con motivo.
type RowResult struct {
	Status RowStatus
	Reason SkipReason
	Err    error // solo con SkipRowError
	Sale   *entity.Sale
	// CoercedMeasures nombres de las medidas que se forzaron a cero.
	CoercedMeasures []string
}

func loaded(sale *entity.Sale, coerced []string) RowResult {
	return RowResult{Status: RowLoaded, Sale: sale, CoercedMeasures: coerced}
}

func skipped(reason SkipReason) RowResult {
	return RowResult{Status: RowSkipped, Reason: reason}
}

// Tally acumula los resultados de las filas de una hoja de ventas.
type Tally struct {
	Loaded          int
	Skipped         map[SkipReason]int
	CoercedMeasures int
}

// NewTally crea un acumulador vacío.
func NewTally() *Tally {
	return &Tally{Skipped: make(map[SkipReason]int)}
}

// Add suma un resultado de fila.
func (t *Tally) Add(r RowResult) {
	if r.Status == RowLoaded {
		t.Loaded++
		t.CoercedMeasures += len(r.CoercedMeasures)
		return
	}
	t.Skipped[r.Reason]++
}

// SkippedTotal filas omitidas por cualquier motivo.
func (t *Tally) SkippedTotal() int {
	n := 0
	for _, c := range t.Skipped {
		n += c
	}
	return n
}

// SkippedByName mapa serializable motivo → filas.
func (t *Tally) SkippedByName() map[string]int {
	if len(t.Skipped) == 0 {
		return nil
	}
	out := make(map[string]int, len(t.Skipped))
	for reason, n := range t.Skipped {
		out[string(reason)] = n
	}
	return out
}

// SaleRow campos de texto de una fila de "Sales Transactions", en orden de columna.
type SaleRow struct {
	TransactionID string
	Date          string
	ProductID     string
	CustomerID    string
	ExecutiveID   string
	Scenario      string
	Quantity      string
	UnitPrice     string
	Revenue       string
	COGS          string
}

// saleRowAt extrae la fila i de la hoja por posición de columna.
func saleRowAt(sh Sheet, i int) SaleRow {
	return SaleRow{
		TransactionID: cell(sh, i, colSaleTransactionID),
		Date:          cell(sh, i, colSaleDate),
		ProductID:     cell(sh, i, colSaleProductID),
		CustomerID:    cell(sh, i, colSaleCustomerID),
		ExecutiveID:   cell(sh, i, colSaleExecutiveID),
		Scenario:      cell(sh, i, colSaleScenario),
		Quantity:      cell(sh, i, colSaleQuantity),
		UnitPrice:     cell(sh, i, colSaleUnitPrice),
		Revenue:       cell(sh, i, colSaleRevenue),
		COGS:          cell(sh, i, colSaleCOGS),
	}
}

// FactLoader convierte filas de ventas en hechos. Producto, cliente y escenario deben
// existir de antes; el ejecutivo es opcional y la ubicación se crea en el primer uso.
type FactLoader struct {
	resolver *IdentityResolver
	sales    repository.SaleRepository
	now      func() time.Time
}

// NewFactLoader construye el cargador de hechos.
func NewFactLoader(resolver *IdentityResolver, sales repository.SaleRepository) *FactLoader {
	return &FactLoader{resolver: resolver, sales: sales, now: time.Now}
}

// LoadRow procesa una fila. Nunca devuelve error: cualquier fallo queda como RowSkipped.
func (l *FactLoader) LoadRow(ctx context.Context, row SaleRow, batchID int64, actorID string) (res RowResult) {
	defer func() {
		if p := recover(); p != nil {
			res = RowResult{Status: RowSkipped, Reason: SkipRowError, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	if row.TransactionID == "" {
		return skipped(SkipEmptyTransactionID)
	}
	dateKey, ok := parseDateKey(row.Date)
	if !ok {
		return skipped(SkipInvalidDate)
	}

	product, err := l.resolver.LookupProduct(ctx, row.ProductID)
	if err != nil {
		return rowError(err)
	}
	customer, err := l.resolver.LookupCustomer(ctx, row.CustomerID)
	if err != nil {
		return rowError(err)
	}
	scenario, err := l.resolver.LookupScenario(ctx, row.Scenario)
	if err != nil {
		return rowError(err)
	}
	switch {
	case product == nil:
		return skipped(SkipUnknownProduct)
	case customer == nil:
		return skipped(SkipUnknownCustomer)
	case scenario == nil:
		return skipped(SkipUnknownScenario)
	}

	sale := &entity.Sale{
		TransactionID: row.TransactionID,
		DateKey:       dateKey,
		ProductKey:    product.Key,
		CustomerKey:   customer.Key,
		ScenarioKey:   scenario.Key,
		BatchID:       batchID,
		CreatedAt:     l.now(),
		CreatedBy:     actorID,
	}

	if row.ExecutiveID != "" {
		executive, err := l.resolver.LookupExecutive(ctx, row.ExecutiveID)
		if err != nil {
			return rowError(err)
		}
		if executive != nil {
			key := executive.Key
			sale.ExecutiveKey = &key
		}
	}

	sale.LocationKey, err = l.resolver.ResolveLocation(ctx, customer, actorID)
	if err != nil {
		return rowError(err)
	}

	measures, coerced := parseMeasures(row)
	sale.SetMeasures(measures)

	if err := l.sales.Create(ctx, sale); err != nil {
		return rowError(fmt.Errorf("guardar venta %q: %w", row.TransactionID, err))
	}
	return loaded(sale, coerced)
}

func rowError(err error) RowResult {
	return RowResult{Status: RowSkipped, Reason: SkipRowError, Err: err}
}

// parseMeasures parsea las cuatro medidas por separado; cada fallo se fuerza a cero.
func parseMeasures(row SaleRow) (entity.Measures, []string) {
	var coerced []string
	parse := func(name, raw string) decimal.Decimal {
		v, ok := parseMeasure(raw)
		if !ok {
			coerced = append(coerced, name)
		}
		return v
	}
	m := entity.Measures{
		Quantity:  parse("quantity", row.Quantity),
		UnitPrice: parse("unit_price", row.UnitPrice),
		Revenue:   parse("revenue", row.Revenue),
		COGS:      parse("cogs", row.COGS),
	}
	return m, coerced
}
