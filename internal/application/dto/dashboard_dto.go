package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPIDTO respuesta de GET /api/dashboard/kpis.
type KPIDTO struct {
	ActiveCustomers   int             `json:"active_customers"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`       // escenario Actual
	AvgMarginPct      decimal.Decimal `json:"avg_margin_pct"`      // filas Actual con revenue > 0
	TotalTransactions int             `json:"total_transactions"`  // filas Actual
	YoYGrowthPct      decimal.Decimal `json:"yoy_growth_pct"`      // contra el año anterior estimado
	PriorYearRevenue  decimal.Decimal `json:"prior_year_revenue"`  // TotalRevenue × factor
	PriorYearEstimate bool            `json:"prior_year_estimate"` // siempre true: no hay histórico real

	BudgetRevenue       decimal.Decimal `json:"budget_revenue"`
	BudgetAttainmentPct decimal.Decimal `json:"budget_attainment_pct"` // Actual / Budget × 100
}

// ProductRevenueDTO una fila de "revenue-by-product": un producto en un escenario.
type ProductRevenueDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Scenario    string          `json:"scenario"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// MonthRevenueDTO una fila de "revenue-by-month".
type MonthRevenueDTO struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Scenario string          `json:"scenario"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// ProductMarginDTO una fila de "margin-by-product".
type ProductMarginDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	AvgMarginPct decimal.Decimal `json:"avg_margin_pct"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
}

// RegionRevenueDTO una fila de "revenue-by-region" (escenario Actual).
type RegionRevenueDTO struct {
	Region       string          `json:"region"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
}

// ProvinceRevenueDTO una fila de "revenue-by-province" (todos los escenarios, top 20).
type ProvinceRevenueDTO struct {
	Province string          `json:"province"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// ChartResponse envoltorio de GET /api/dashboard/charts/:chart.
type ChartResponse struct {
	Success bool   `json:"success"`
	Chart   string `json:"chart,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// InsightDTO análisis narrativo de un gráfico.
type InsightDTO struct {
	Chart    string `json:"chart"`
	Insights string `json:"insights"`
	Source   string `json:"source"`             // "rules" o "ai"
	Fallback bool   `json:"fallback,omitempty"` // true si la IA falló y se devolvió el texto por reglas
}

// InsightResponse envoltorio de GET /api/dashboard/insights/:chart.
type InsightResponse struct {
	Success bool `json:"success"`
	InsightDTO
}

// DashboardReportDTO contenido del reporte PDF del dashboard.
type DashboardReportDTO struct {
	Title         string
	CurrencyLabel string
	GeneratedAt   time.Time
	KPIs          KPIDTO
	Regions       []RegionRevenueDTO
	Provinces     []ProvinceRevenueDTO
	TopMargins    []ProductMarginDTO
	Insights      []InsightDTO
}
