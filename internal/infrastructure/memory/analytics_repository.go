package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// AnalyticsRepository consultas agregadas recorriendo la tabla de hechos en memoria.
type AnalyticsRepository struct{ s *Store }

var _ repository.AnalyticsRepository = (*AnalyticsRepository)(nil)

func NewAnalyticsRepository(s *Store) *AnalyticsRepository { return &AnalyticsRepository{s: s} }

// acc acumulador de ingreso, filas y suma de márgenes de un grupo.
type acc struct {
	key, label   string
	revenue      decimal.Decimal
	rows         int
	marginSum    decimal.Decimal
	marginRows   int
	onlyPositive bool
}

func (a *acc) add(sale entity.Sale) {
	a.revenue = a.revenue.Add(sale.Revenue)
	a.rows++
	if !a.onlyPositive || sale.Revenue.IsPositive() {
		a.marginSum = a.marginSum.Add(sale.GrossProfitMarginPct())
		a.marginRows++
	}
}

func (a *acc) avgMargin() decimal.Decimal {
	if a.marginRows == 0 {
		return decimal.Zero
	}
	return a.marginSum.Div(decimal.NewFromInt(int64(a.marginRows))).Round(2)
}

// facts recorre los hechos visibles que cumplen el filtro. Requiere el lock de lectura.
func (r *AnalyticsRepository) facts(f repository.FactFilter, fn func(entity.Sale)) {
	r.s.sales.each(func(sale entity.Sale) {
		if !r.s.visible(sale) {
			return
		}
		if f.PositiveRevenueOnly && !sale.Revenue.IsPositive() {
			return
		}
		if f.Scenario != "" {
			sc, ok := r.s.scenarioOf(sale)
			if !ok || sc.Name != f.Scenario {
				return
			}
		}
		fn(sale)
	})
}

func (r *AnalyticsRepository) CountActiveCustomers(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	r.s.customers.each(func(c entity.Customer) {
		if c.IsActive {
			n++
		}
	})
	return n, nil
}

func (r *AnalyticsRepository) GetScenarioSummary(_ context.Context, scenario string) (repository.ScenarioSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a := &acc{revenue: decimal.Zero, marginSum: decimal.Zero, onlyPositive: true}
	r.facts(repository.FactFilter{Scenario: scenario}, a.add)
	return repository.ScenarioSummary{
		Revenue:      a.revenue,
		Transactions: a.rows,
		AvgMarginPct: a.avgMargin(),
	}, nil
}

func (r *AnalyticsRepository) GetRevenueByProductScenario(context.Context) ([]repository.ProductScenarioRevenue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	type key struct{ productKey, scenarioKey int64 }
	sums := make(map[key]*repository.ProductScenarioRevenue)
	r.facts(repository.FactFilter{}, func(sale entity.Sale) {
		k := key{sale.ProductKey, sale.ScenarioKey}
		row, ok := sums[k]
		if !ok {
			p, _ := r.s.productOf(sale)
			sc, _ := r.s.scenarioOf(sale)
			row = &repository.ProductScenarioRevenue{
				ProductID:   p.ProductID,
				ProductName: p.Name,
				Scenario:    sc.Name,
				Revenue:     decimal.Zero,
			}
			sums[k] = row
		}
		row.Revenue = row.Revenue.Add(sale.Revenue)
	})
	out := make([]repository.ProductScenarioRevenue, 0, len(sums))
	for _, row := range sums {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b repository.ProductScenarioRevenue) int {
		return cmp.Or(cmp.Compare(a.ProductID, b.ProductID), cmp.Compare(a.Scenario, b.Scenario))
	})
	return out, nil
}

func (r *AnalyticsRepository) GetRevenueByMonthScenario(context.Context) ([]repository.MonthScenarioRevenue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	type key struct {
		year, month int
		scenario    string
	}
	sums := make(map[key]decimal.Decimal)
	r.facts(repository.FactFilter{}, func(sale entity.Sale) {
		sc, _ := r.s.scenarioOf(sale)
		k := key{sale.DateKey.Year(), sale.DateKey.Month(), sc.Name}
		sums[k] = sums[k].Add(sale.Revenue)
	})
	out := make([]repository.MonthScenarioRevenue, 0, len(sums))
	for k, rev := range sums {
		out = append(out, repository.MonthScenarioRevenue{Year: k.year, Month: k.month, Scenario: k.scenario, Revenue: rev})
	}
	slices.SortFunc(out, func(a, b repository.MonthScenarioRevenue) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Month, b.Month), cmp.Compare(a.Scenario, b.Scenario))
	})
	return out, nil
}

func (r *AnalyticsRepository) GetProductStats(_ context.Context, f repository.FactFilter) ([]repository.GroupStats, error) {
	return r.groupStats(f, func(sale entity.Sale) (string, string) {
		p, _ := r.s.productOf(sale)
		return p.ProductID, p.Name
	}), nil
}

// GetRegionStats agrupa por la región de la dimensión Location del hecho.
func (r *AnalyticsRepository) GetRegionStats(_ context.Context, f repository.FactFilter) ([]repository.GroupStats, error) {
	return r.groupStats(f, func(sale entity.Sale) (string, string) {
		l, _ := r.s.locationOf(sale)
		return l.Region, l.Region
	}), nil
}

// GetProvinceStats agrupa por la provincia de la dimensión Location del hecho.
func (r *AnalyticsRepository) GetProvinceStats(_ context.Context, f repository.FactFilter) ([]repository.GroupStats, error) {
	return r.groupStats(f, func(sale entity.Sale) (string, string) {
		l, _ := r.s.locationOf(sale)
		return l.Province, l.Province
	}), nil
}

func (r *AnalyticsRepository) groupStats(f repository.FactFilter, groupOf func(entity.Sale) (key, label string)) []repository.GroupStats {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	groups := make(map[string]*acc)
	r.facts(f, func(sale entity.Sale) {
		key, label := groupOf(sale)
		a, ok := groups[key]
		if !ok {
			a = &acc{key: key, label: label, revenue: decimal.Zero, marginSum: decimal.Zero}
			groups[key] = a
		}
		a.add(sale)
	})
	out := make([]repository.GroupStats, 0, len(groups))
	for _, a := range groups {
		out = append(out, repository.GroupStats{
			Key:          a.key,
			Label:        a.label,
			Revenue:      a.revenue,
			Transactions: a.rows,
			AvgMarginPct: a.avgMargin(),
		})
	}
	slices.SortFunc(out, func(a, b repository.GroupStats) int { return cmp.Compare(a.Key, b.Key) })
	return out
}
