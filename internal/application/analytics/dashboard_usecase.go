// Package analytics contiene el motor de agregación del dashboard de rentabilidad:
// KPIs, desgloses por gráfico, insights por reglas, narrativa IA y reporte PDF.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DefaultPriorYearFactor el "año anterior" del KPI interanual es un estimado: ingreso
// actual × factor. No existe histórico real en el modelo de datos.
var DefaultPriorYearFactor = decimal.NewFromFloat(0.8)

// Options parámetros del motor.
type Options struct {
	PriorYearFactor decimal.Decimal
	CurrencyLabel   string
}

// DashboardUseCase motor de agregación de solo lectura sobre el esquema estrella.
// Es seguro ejecutarlo en paralelo con una carga en curso (sin garantía de leer
// un lote a medio cargar de forma consistente).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	opts          Options
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, opts Options) *DashboardUseCase {
	if !opts.PriorYearFactor.IsPositive() {
		opts.PriorYearFactor = DefaultPriorYearFactor
	}
	if opts.CurrencyLabel == "" {
		opts.CurrencyLabel = "VND"
	}
	return &DashboardUseCase{analyticsRepo: analyticsRepo, opts: opts}
}

// GetKPIs calcula los indicadores del escenario Actual más el ingreso Budget.
//
// Tres consultas en paralelo:
//  1. CountActiveCustomers          → ActiveCustomers
//  2. GetScenarioSummary(Actual)    → TotalRevenue, TotalTransactions, AvgMarginPct
//  3. GetScenarioSummary(Budget)    → BudgetRevenue
func (uc *DashboardUseCase) GetKPIs(ctx context.Context) (*dto.KPIDTO, error) {
	type countResult struct {
		n   int
		err error
	}
	type summaryResult struct {
		s   repository.ScenarioSummary
		err error
	}

	customersCh := make(chan countResult, 1)
	actualCh := make(chan summaryResult, 1)
	budgetCh := make(chan summaryResult, 1)

	go func() {
		n, err := uc.analyticsRepo.CountActiveCustomers(ctx)
		customersCh <- countResult{n, err}
	}()
	go func() {
		s, err := uc.analyticsRepo.GetScenarioSummary(ctx, entity.ScenarioActual)
		actualCh <- summaryResult{s, err}
	}()
	go func() {
		s, err := uc.analyticsRepo.GetScenarioSummary(ctx, entity.ScenarioBudget)
		budgetCh <- summaryResult{s, err}
	}()

	customers := <-customersCh
	actual := <-actualCh
	budget := <-budgetCh

	if customers.err != nil {
		return nil, fmt.Errorf("kpis (clientes activos): %w", customers.err)
	}
	if actual.err != nil {
		return nil, fmt.Errorf("kpis (actual): %w", actual.err)
	}
	if budget.err != nil {
		return nil, fmt.Errorf("kpis (budget): %w", budget.err)
	}

	priorYear := actual.s.Revenue.Mul(uc.opts.PriorYearFactor).Round(2)

	return &dto.KPIDTO{
		ActiveCustomers:     customers.n,
		TotalRevenue:        actual.s.Revenue,
		AvgMarginPct:        actual.s.AvgMarginPct,
		TotalTransactions:   actual.s.Transactions,
		YoYGrowthPct:        growthPct(actual.s.Revenue, priorYear),
		PriorYearRevenue:    priorYear,
		PriorYearEstimate:   true,
		BudgetRevenue:       budget.s.Revenue,
		BudgetAttainmentPct: sharePct(actual.s.Revenue, budget.s.Revenue),
	}, nil
}

// growthPct (current − previous) / previous × 100; 0 si previous ≤ 0.
func growthPct(current, previous decimal.Decimal) decimal.Decimal {
	if !previous.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

// sharePct part / total × 100; 0 si total ≤ 0.
func sharePct(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}
