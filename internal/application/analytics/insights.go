package analytics

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Textos fijos de los insights.
const (
	insightNoData      = "Aún no hay datos para analizar."
	insightNoTrendData = "Aún no hay datos suficientes para analizar la tendencia."
	insightNoAnalysis  = "Aún no hay análisis para este gráfico."

	trendPositive  = "Crecimiento positivo: mantener el impulso."
	trendStable    = "Crecimiento estable: conviene reforzar la estrategia comercial."
	trendDeclining = "Ingresos en descenso: se requiere acción inmediata."
)

// Umbrales de la tendencia mes a mes (porcentaje de crecimiento).
var (
	trendPositiveThreshold = decimal.NewFromInt(5)
	trendStableThreshold   = decimal.Zero
)

var million = decimal.NewFromInt(1_000_000)

// group fila genérica sobre la que se eligen el mejor y el peor grupo.
type group struct {
	label        string
	revenue      decimal.Decimal
	transactions int
	margin       decimal.Decimal
}

func groupsFromStats(stats []repository.GroupStats) []group {
	out := make([]group, 0, len(stats))
	for _, s := range stats {
		out = append(out, group{label: s.Label, revenue: s.Revenue, transactions: s.Transactions, margin: s.AvgMarginPct})
	}
	return out
}

// bestWorst devuelve los índices del máximo y del mínimo según metric. Ante empates gana
// el primero en orden de entrada. Con la lista vacía devuelve -1, -1.
func bestWorst(groups []group, metric func(group) decimal.Decimal) (best, worst int) {
	if len(groups) == 0 {
		return -1, -1
	}
	best, worst = 0, 0
	for i := 1; i < len(groups); i++ {
		v := metric(groups[i])
		if v.GreaterThan(metric(groups[best])) {
			best = i
		}
		if v.LessThan(metric(groups[worst])) {
			worst = i
		}
	}
	return best, worst
}

func byRevenue(g group) decimal.Decimal { return g.revenue }
func byMargin(g group) decimal.Decimal  { return g.margin }

func totalRevenue(groups []group) decimal.Decimal {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.revenue)
	}
	return total
}

// trendStatement frase cualitativa según el crecimiento mes a mes:
// > 5 % positivo, > 0 % estable, en otro caso descenso.
func trendStatement(growth decimal.Decimal) string {
	switch {
	case growth.GreaterThan(trendPositiveThreshold):
		return trendPositive
	case growth.GreaterThan(trendStableThreshold):
		return trendStable
	default:
		return trendDeclining
	}
}

// narrator formatea números con separadores locales.
type narrator struct {
	p        *message.Printer
	currency string
	b        strings.Builder
}

func newNarrator(currency string) *narrator {
	return &narrator{p: message.NewPrinter(language.Spanish), currency: currency}
}

func (n *narrator) line(format string, args ...any) {
	n.b.WriteString(n.p.Sprintf(format, args...))
	n.b.WriteByte('\n')
}

func (n *narrator) millions(d decimal.Decimal) string {
	return n.p.Sprintf("%.2f M %s", d.Div(million).InexactFloat64(), n.currency)
}

func (n *narrator) pct(d decimal.Decimal) string {
	return n.p.Sprintf("%.1f%%", d.InexactFloat64())
}

func (n *narrator) String() string { return strings.TrimRight(n.b.String(), "\n") }

// Insights análisis por reglas del gráfico indicado. Un gráfico sin reglas devuelve un
// texto fijo, no un error.
func (uc *DashboardUseCase) Insights(ctx context.Context, chart string) (string, error) {
	switch chart {
	case ChartRevenueByRegion:
		return uc.regionInsights(ctx)
	case ChartRevenueByProduct:
		return uc.productInsights(ctx)
	case ChartMarginByProduct:
		return uc.marginInsights(ctx)
	case ChartRevenueByMonth:
		return uc.monthInsights(ctx)
	case ChartRevenueByProvince:
		return uc.provinceInsights(ctx)
	default:
		return insightNoAnalysis, nil
	}
}

func (uc *DashboardUseCase) regionInsights(ctx context.Context) (string, error) {
	stats, err := uc.regionStats(ctx)
	if err != nil {
		return "", err
	}
	groups := groupsFromStats(stats)
	if len(groups) == 0 {
		return insightNoData, nil
	}
	total := totalRevenue(groups)
	bi, wi := bestWorst(groups, byRevenue)
	best, worst := groups[bi], groups[wi]

	n := newNarrator(uc.opts.CurrencyLabel)
	n.line("Análisis por región")
	n.line("Mejor región: %s", best.label)
	n.line("- Ingresos: %s (%s del total)", n.millions(best.revenue), n.pct(sharePct(best.revenue, total)))
	n.line("- Transacciones: %d", best.transactions)
	n.line("- Margen promedio: %s", n.pct(best.margin))
	n.line("Región a mejorar: %s", worst.label)
	n.line("- Ingresos: %s (solo %s del total)", n.millions(worst.revenue), n.pct(sharePct(worst.revenue, total)))
	n.line("- Transacciones: %d", worst.transactions)
	return n.String(), nil
}

func (uc *DashboardUseCase) productInsights(ctx context.Context) (string, error) {
	stats, err := uc.analyticsRepo.GetProductStats(ctx, repository.FactFilter{Scenario: entity.ScenarioActual})
	if err != nil {
		return "", fmt.Errorf("insights de producto: %w", err)
	}
	sortByRevenue(stats)
	groups := groupsFromStats(topN(stats, topProducts))
	if len(groups) == 0 {
		return insightNoData, nil
	}
	total := totalRevenue(groups)
	bi, wi := bestWorst(groups, byRevenue)
	best, worst := groups[bi], groups[wi]

	n := newNarrator(uc.opts.CurrencyLabel)
	n.line("Análisis por producto")
	n.line("Producto más vendido: %s", best.label)
	n.line("- Ingresos: %s (%s del top %d)", n.millions(best.revenue), n.pct(sharePct(best.revenue, total)), len(groups))
	n.line("- Transacciones: %d", best.transactions)
	n.line("- Margen promedio: %s", n.pct(best.margin))
	if wi != bi {
		n.line("Producto con menos ingresos del top: %s", worst.label)
		n.line("- Ingresos: %s (%s del top %d)", n.millions(worst.revenue), n.pct(sharePct(worst.revenue, total)), len(groups))
	}
	return n.String(), nil
}

func (uc *DashboardUseCase) marginInsights(ctx context.Context) (string, error) {
	margins, err := uc.MarginByProduct(ctx)
	if err != nil {
		return "", err
	}
	if len(margins) == 0 {
		return insightNoData, nil
	}
	groups := make([]group, 0, len(margins))
	for _, m := range margins {
		groups = append(groups, group{label: m.ProductName, revenue: m.Revenue, transactions: m.Transactions, margin: m.AvgMarginPct})
	}
	total := totalRevenue(groups)
	bi, wi := bestWorst(groups, byMargin)
	best, worst := groups[bi], groups[wi]

	n := newNarrator(uc.opts.CurrencyLabel)
	n.line("Análisis de margen bruto")
	n.line("Mejor margen: %s", best.label)
	n.line("- Margen promedio: %s", n.pct(best.margin))
	n.line("- Ingresos: %s (%s del top %d)", n.millions(best.revenue), n.pct(sharePct(best.revenue, total)), len(groups))
	n.line("Margen más bajo: %s", worst.label)
	n.line("- Margen promedio: %s", n.pct(worst.margin))
	n.line("- Ingresos: %s (%s del top %d)", n.millions(worst.revenue), n.pct(sharePct(worst.revenue, total)), len(groups))
	return n.String(), nil
}

// monthPoint ingreso Actual de un mes.
type monthPoint struct {
	year, month int
	revenue     decimal.Decimal
}

func (uc *DashboardUseCase) monthInsights(ctx context.Context) (string, error) {
	rows, err := uc.analyticsRepo.GetRevenueByMonthScenario(ctx)
	if err != nil {
		return "", fmt.Errorf("insights mensuales: %w", err)
	}
	var months []monthPoint
	for _, r := range rows {
		if r.Scenario != entity.ScenarioActual {
			continue
		}
		months = append(months, monthPoint{year: r.Year, month: r.Month, revenue: r.Revenue})
	}
	slices.SortStableFunc(months, func(a, b monthPoint) int {
		if a.year != b.year {
			return a.year - b.year
		}
		return a.month - b.month
	})
	if len(months) < 2 {
		return insightNoTrendData, nil
	}

	latest, previous := months[len(months)-1], months[len(months)-2]

	groups := make([]group, 0, len(months))
	for _, m := range months {
		groups = append(groups, group{label: fmt.Sprintf("%d/%d", m.month, m.year), revenue: m.revenue})
	}
	bi, wi := bestWorst(groups, byRevenue)
	total := totalRevenue(groups)

	n := newNarrator(uc.opts.CurrencyLabel)
	n.line("Tendencia de ingresos")
	n.line("Último mes (%s): %s", groups[len(groups)-1].label, n.millions(latest.revenue))
	// Sin ingresos en el mes anterior no hay variación porcentual que calcular.
	comparable := previous.revenue.IsPositive()
	if comparable {
		growth := growthPct(latest.revenue, previous.revenue)
		sign := ""
		if !growth.IsNegative() {
			sign = "+"
		}
		n.line("- Frente al mes anterior: %s%s", sign, n.pct(growth))
	} else {
		n.line("- Sin base de comparación: el mes anterior (%s) no tuvo ingresos", groups[len(groups)-2].label)
	}
	n.line("Mejor mes: %s con %s (%s del periodo)", groups[bi].label, n.millions(groups[bi].revenue), n.pct(sharePct(groups[bi].revenue, total)))
	n.line("Mes más bajo: %s con %s (%s del periodo)", groups[wi].label, n.millions(groups[wi].revenue), n.pct(sharePct(groups[wi].revenue, total)))
	if comparable {
		n.line("%s", trendStatement(growthPct(latest.revenue, previous.revenue)))
	}
	return n.String(), nil
}

func (uc *DashboardUseCase) provinceInsights(ctx context.Context) (string, error) {
	stats, err := uc.provinceStats(ctx)
	if err != nil {
		return "", err
	}
	groups := groupsFromStats(stats)
	if len(groups) == 0 {
		return insightNoData, nil
	}
	total := totalRevenue(groups)
	bi, wi := bestWorst(groups, byRevenue)
	best, worst := groups[bi], groups[wi]

	n := newNarrator(uc.opts.CurrencyLabel)
	n.line("Análisis por provincia (todos los escenarios)")
	n.line("Provincia líder: %s con %s (%s del top %d)", best.label, n.millions(best.revenue), n.pct(sharePct(best.revenue, total)), len(groups))
	n.line("Provincia más baja del top: %s con %s (%s)", worst.label, n.millions(worst.revenue), n.pct(sharePct(worst.revenue, total)))
	return n.String(), nil
}
