package analytics

import (
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Gráficos del dashboard.
const (
	ChartRevenueByProduct  = "revenue-by-product"
	ChartRevenueByMonth    = "revenue-by-month"
	ChartMarginByProduct   = "margin-by-product"
	ChartRevenueByRegion   = "revenue-by-region"
	ChartRevenueByProvince = "revenue-by-province"
)

// Charts lista de gráficos en el orden en que aparecen en el dashboard y el PDF.
var Charts = []string{
	ChartRevenueByProduct,
	ChartRevenueByMonth,
	ChartMarginByProduct,
	ChartRevenueByRegion,
	ChartRevenueByProvince,
}

const (
	topProducts  = 10
	topMargins   = 10
	topProvinces = 20
)

// comparisonScenarios escenarios que se rellenan con cero en revenue-by-product.
var comparisonScenarios = []string{entity.ScenarioActual, entity.ScenarioBudget}

// Chart despacha por nombre de gráfico. Un nombre desconocido devuelve domain.ErrUnknownChart.
func (uc *DashboardUseCase) Chart(ctx context.Context, chart string) (any, error) {
	switch chart {
	case ChartRevenueByProduct:
		return uc.RevenueByProduct(ctx)
	case ChartRevenueByMonth:
		return uc.RevenueByMonth(ctx)
	case ChartMarginByProduct:
		return uc.MarginByProduct(ctx)
	case ChartRevenueByRegion:
		return uc.RevenueByRegion(ctx)
	case ChartRevenueByProvince:
		return uc.RevenueByProvince(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownChart, chart)
	}
}

// RevenueByProduct top 10 productos por ingreso total (todos los escenarios) y, para cada
// uno, una fila Actual y una Budget, rellenando con cero el escenario sin filas.
// Empates: el orden de entrada (ProductID ascendente) se conserva.
func (uc *DashboardUseCase) RevenueByProduct(ctx context.Context) ([]dto.ProductRevenueDTO, error) {
	rows, err := uc.analyticsRepo.GetRevenueByProductScenario(ctx)
	if err != nil {
		return nil, fmt.Errorf("revenue por producto: %w", err)
	}

	type productTotal struct {
		id, name   string
		total      decimal.Decimal
		byScenario map[string]decimal.Decimal
	}
	var products []*productTotal
	index := make(map[string]*productTotal)
	for _, r := range rows {
		p, ok := index[r.ProductID]
		if !ok {
			p = &productTotal{id: r.ProductID, name: r.ProductName, total: decimal.Zero, byScenario: make(map[string]decimal.Decimal)}
			index[r.ProductID] = p
			products = append(products, p)
		}
		p.total = p.total.Add(r.Revenue)
		p.byScenario[r.Scenario] = p.byScenario[r.Scenario].Add(r.Revenue)
	}

	slices.SortStableFunc(products, func(a, b *productTotal) int { return b.total.Cmp(a.total) })
	if len(products) > topProducts {
		products = products[:topProducts]
	}

	out := make([]dto.ProductRevenueDTO, 0, len(products)*len(comparisonScenarios))
	for _, p := range products {
		for _, sc := range comparisonScenarios {
			rev, ok := p.byScenario[sc]
			if !ok {
				rev = decimal.Zero
			}
			out = append(out, dto.ProductRevenueDTO{
				ProductID:   p.id,
				ProductName: p.name,
				Scenario:    sc,
				Revenue:     rev,
			})
		}
	}
	return out, nil
}

// RevenueByMonth ingreso por año/mes/escenario, ascendente por año y mes.
func (uc *DashboardUseCase) RevenueByMonth(ctx context.Context) ([]dto.MonthRevenueDTO, error) {
	rows, err := uc.analyticsRepo.GetRevenueByMonthScenario(ctx)
	if err != nil {
		return nil, fmt.Errorf("revenue por mes: %w", err)
	}
	out := make([]dto.MonthRevenueDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MonthRevenueDTO{Year: r.Year, Month: r.Month, Scenario: r.Scenario, Revenue: r.Revenue})
	}
	slices.SortStableFunc(out, func(a, b dto.MonthRevenueDTO) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return a.Month - b.Month
	})
	return out, nil
}

// MarginByProduct top 10 productos por margen promedio (Actual, filas con revenue > 0).
func (uc *DashboardUseCase) MarginByProduct(ctx context.Context) ([]dto.ProductMarginDTO, error) {
	stats, err := uc.analyticsRepo.GetProductStats(ctx, repository.FactFilter{
		Scenario:            entity.ScenarioActual,
		PositiveRevenueOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("margen por producto: %w", err)
	}
	slices.SortStableFunc(stats, func(a, b repository.GroupStats) int { return b.AvgMarginPct.Cmp(a.AvgMarginPct) })
	stats = topN(stats, topMargins)

	out := make([]dto.ProductMarginDTO, 0, len(stats))
	for _, s := range stats {
		out = append(out, dto.ProductMarginDTO{
			ProductID:    s.Key,
			ProductName:  s.Label,
			AvgMarginPct: s.AvgMarginPct,
			Revenue:      s.Revenue,
			Transactions: s.Transactions,
		})
	}
	return out, nil
}

// RevenueByRegion ingreso Actual por región, descendente.
func (uc *DashboardUseCase) RevenueByRegion(ctx context.Context) ([]dto.RegionRevenueDTO, error) {
	stats, err := uc.regionStats(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RegionRevenueDTO, 0, len(stats))
	for _, s := range stats {
		out = append(out, dto.RegionRevenueDTO{Region: s.Key, Revenue: s.Revenue, Transactions: s.Transactions})
	}
	return out, nil
}

// RevenueByProvince top 20 provincias por ingreso, todos los escenarios combinados.
func (uc *DashboardUseCase) RevenueByProvince(ctx context.Context) ([]dto.ProvinceRevenueDTO, error) {
	stats, err := uc.provinceStats(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProvinceRevenueDTO, 0, len(stats))
	for _, s := range stats {
		out = append(out, dto.ProvinceRevenueDTO{Province: s.Key, Revenue: s.Revenue})
	}
	return out, nil
}

func (uc *DashboardUseCase) regionStats(ctx context.Context) ([]repository.GroupStats, error) {
	stats, err := uc.analyticsRepo.GetRegionStats(ctx, repository.FactFilter{Scenario: entity.ScenarioActual})
	if err != nil {
		return nil, fmt.Errorf("revenue por región: %w", err)
	}
	sortByRevenue(stats)
	return stats, nil
}

func (uc *DashboardUseCase) provinceStats(ctx context.Context) ([]repository.GroupStats, error) {
	stats, err := uc.analyticsRepo.GetProvinceStats(ctx, repository.FactFilter{})
	if err != nil {
		return nil, fmt.Errorf("revenue por provincia: %w", err)
	}
	sortByRevenue(stats)
	return topN(stats, topProvinces), nil
}

// sortByRevenue orden descendente por ingreso, estable ante empates.
func sortByRevenue(stats []repository.GroupStats) {
	slices.SortStableFunc(stats, func(a, b repository.GroupStats) int { return b.Revenue.Cmp(a.Revenue) })
}

func topN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
