package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// FactFilter restringe los hechos sobre los que agrega una consulta.
// Los hechos de lotes eliminados (borrado lógico) nunca se incluyen.
type FactFilter struct {
	Scenario            string // "" = todos los escenarios
	PositiveRevenueOnly bool   // solo filas con Revenue > 0
}

// ScenarioSummary totales de un escenario.
type ScenarioSummary struct {
	Revenue      decimal.Decimal
	Transactions int
	AvgMarginPct decimal.Decimal // promedio de GrossProfitMarginPct sobre filas con Revenue > 0
}

// ProductScenarioRevenue ingreso agregado por (producto, escenario).
type ProductScenarioRevenue struct {
	ProductID   string
	ProductName string
	Scenario    string
	Revenue     decimal.Decimal
}

// MonthScenarioRevenue ingreso agregado por (año, mes, escenario), derivados del DateKey.
type MonthScenarioRevenue struct {
	Year     int
	Month    int
	Scenario string
	Revenue  decimal.Decimal
}

// GroupStats métricas de un grupo (producto, región o provincia).
type GroupStats struct {
	Key          string // ProductID, región o provincia
	Label        string // nombre visible (igual a Key salvo en productos)
	Revenue      decimal.Decimal
	Transactions int
	AvgMarginPct decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura sobre el esquema estrella.
// Todas las listas se devuelven ordenadas por su clave de agrupación (orden de entrada
// estable para los desempates del motor de agregación).
type AnalyticsRepository interface {
	// CountActiveCustomers cuenta clientes con IsActive = true.
	CountActiveCustomers(ctx context.Context) (int, error)

	// GetScenarioSummary ingreso, número de transacciones y margen promedio del escenario.
	GetScenarioSummary(ctx context.Context, scenario string) (ScenarioSummary, error)

	// GetRevenueByProductScenario ingreso de cada producto en cada escenario con filas.
	GetRevenueByProductScenario(ctx context.Context) ([]ProductScenarioRevenue, error)

	// GetRevenueByMonthScenario ingreso por año/mes/escenario, ordenado por año, mes y escenario.
	GetRevenueByMonthScenario(ctx context.Context) ([]MonthScenarioRevenue, error)

	// GetProductStats, GetRegionStats y GetProvinceStats agregan ingreso, transacciones y
	// margen promedio por grupo aplicando el filtro.
	GetProductStats(ctx context.Context, filter FactFilter) ([]GroupStats, error)
	GetRegionStats(ctx context.Context, filter FactFilter) ([]GroupStats, error)
	GetProvinceStats(ctx context.Context, filter FactFilter) ([]GroupStats, error)
}
