package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Sale fila de la tabla de hechos (FactSales). Inmutable una vez creada: no hay ruta de
// actualización, solo el borrado lógico del lote que la cargó.
//
// GrossProfit y GrossProfitMarginPct no se almacenan como entrada: se derivan de Revenue y COGS.
type Sale struct {
	Key           int64
	TransactionID string
	DateKey       DateKey
	ProductKey    int64
	CustomerKey   int64
	ExecutiveKey  *int64 // nil si la fila no trae un ejecutivo resuelto
	LocationKey   int64
	ScenarioKey   int64

	Quantity  decimal.Decimal // numeric(18,2)
	UnitPrice decimal.Decimal // numeric(18,4)
	Revenue   decimal.Decimal // numeric(18,2)
	COGS      decimal.Decimal // numeric(18,2)

	BatchID   int64
	CreatedAt time.Time
	CreatedBy string
}

// Measures medidas numéricas de una fila de venta, ya parseadas.
type Measures struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Revenue   decimal.Decimal
	COGS      decimal.Decimal
}

// SetMeasures asigna las medidas redondeadas a la precisión de la columna en BD.
func (s *Sale) SetMeasures(m Measures) {
	s.Quantity = m.Quantity.Round(2)
	s.UnitPrice = m.UnitPrice.Round(4)
	s.Revenue = m.Revenue.Round(2)
	s.COGS = m.COGS.Round(2)
}

// GrossProfit = Revenue − COGS.
func (s Sale) GrossProfit() decimal.Decimal {
	return s.Revenue.Sub(s.COGS)
}

// GrossProfitMarginPct = 0 si Revenue ≤ 0; si no (Revenue − COGS) / Revenue × 100,
// redondeado a 2 decimales igual que la columna calculada de la BD.
func (s Sale) GrossProfitMarginPct() decimal.Decimal {
	return MarginPct(s.Revenue, s.COGS)
}

// MarginPct aplica la fórmula del margen bruto porcentual.
func MarginPct(revenue, cogs decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return revenue.Sub(cogs).Div(revenue).Mul(hundred).Round(2)
}
