package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre el esquema estrella. Todas excluyen
// los hechos de lotes con borrado lógico. Los ORDER BY usan COLLATE "C" para que el
// orden por clave coincida byte a byte con el del store en memoria.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// visibleFacts hechos de lotes no eliminados con su escenario.
const visibleFacts = `
	FROM fact_sales f
	JOIN upload_batch b ON b.batch_id = f.batch_id AND NOT b.is_deleted
	JOIN dim_scenario s ON s.scenario_key = f.scenario_key`

// factFilter $1 = escenario ('' = todos), $2 = solo revenue > 0.
const factFilter = `
	WHERE ($1::text = '' OR s.scenario_name = $1)
	  AND (NOT $2::boolean OR f.revenue > 0)`

func (r *AnalyticsRepo) CountActiveCustomers(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM dim_customer WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountActiveCustomers: %w", err)
	}
	return n, nil
}

// GetScenarioSummary el margen promedio solo considera filas con revenue > 0.
func (r *AnalyticsRepo) GetScenarioSummary(ctx context.Context, scenario string) (repository.ScenarioSummary, error) {
	const query = `
	SELECT
	    COALESCE(SUM(f.revenue), 0),
	    COUNT(*),
	    COALESCE(ROUND(AVG(f.gross_profit_margin_pct) FILTER (WHERE f.revenue > 0), 2), 0)
	` + visibleFacts + `
	WHERE s.scenario_name = $1`
	var out repository.ScenarioSummary
	if err := r.q.QueryRow(ctx, query, scenario).Scan(&out.Revenue, &out.Transactions, &out.AvgMarginPct); err != nil {
		return out, fmt.Errorf("analytics.GetScenarioSummary: %w", err)
	}
	return out, nil
}

func (r *AnalyticsRepo) GetRevenueByProductScenario(ctx context.Context) ([]repository.ProductScenarioRevenue, error) {
	const query = `
	SELECT p.product_id, p.product_name, s.scenario_name, SUM(f.revenue)
	` + visibleFacts + `
	JOIN dim_product p ON p.product_key = f.product_key
	GROUP BY p.product_id, p.product_name, s.scenario_name
	ORDER BY p.product_id COLLATE "C", s.scenario_name COLLATE "C"`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetRevenueByProductScenario: %w", err)
	}
	defer rows.Close()

	var results []repository.ProductScenarioRevenue
	for rows.Next() {
		var row repository.ProductScenarioRevenue
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Scenario, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.GetRevenueByProductScenario scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetRevenueByMonthScenario año y mes se derivan del date_key (AAAAMMDD).
func (r *AnalyticsRepo) GetRevenueByMonthScenario(ctx context.Context) ([]repository.MonthScenarioRevenue, error) {
	const query = `
	SELECT f.date_key / 10000 AS year, (f.date_key % 10000) / 100 AS month, s.scenario_name, SUM(f.revenue)
	` + visibleFacts + `
	GROUP BY year, month, s.scenario_name
	ORDER BY year, month, s.scenario_name COLLATE "C"`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetRevenueByMonthScenario: %w", err)
	}
	defer rows.Close()

	var results []repository.MonthScenarioRevenue
	for rows.Next() {
		var row repository.MonthScenarioRevenue
		if err := rows.Scan(&row.Year, &row.Month, &row.Scenario, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.GetRevenueByMonthScenario scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (r *AnalyticsRepo) GetProductStats(ctx context.Context, f repository.FactFilter) ([]repository.GroupStats, error) {
	return r.groupStats(ctx, "GetProductStats",
		`JOIN dim_product g ON g.product_key = f.product_key`,
		`g.product_id`, `g.product_name`, f)
}

// GetRegionStats agrupa por la región de dim_location del hecho.
func (r *AnalyticsRepo) GetRegionStats(ctx context.Context, f repository.FactFilter) ([]repository.GroupStats, error) {
	return r.groupStats(ctx, "GetRegionStats",
		`JOIN dim_location g ON g.location_key = f.location_key`,
		`g.region`, `g.region`, f)
}

// GetProvinceStats agrupa por la provincia de dim_location del hecho.
func (r *AnalyticsRepo) GetProvinceStats(ctx context.Context, f repository.FactFilter) ([]repository.GroupStats, error) {
	return r.groupStats(ctx, "GetProvinceStats",
		`JOIN dim_location g ON g.location_key = f.location_key`,
		`g.province`, `g.province`, f)
}

// groupStats keyCol y labelCol son fragmentos constantes, nunca entrada del usuario.
func (r *AnalyticsRepo) groupStats(ctx context.Context, op, join, keyCol, labelCol string, f repository.FactFilter) ([]repository.GroupStats, error) {
	query := `
	SELECT ` + keyCol + `, ` + labelCol + `,
	       SUM(f.revenue), COUNT(*), ROUND(AVG(f.gross_profit_margin_pct), 2)
	` + visibleFacts + `
	` + join + factFilter + `
	GROUP BY ` + keyCol + `, ` + labelCol + `
	ORDER BY ` + keyCol + ` COLLATE "C"`

	rows, err := r.q.Query(ctx, query, f.Scenario, f.PositiveRevenueOnly)
	if err != nil {
		return nil, fmt.Errorf("analytics.%s: %w", op, err)
	}
	defer rows.Close()

	var results []repository.GroupStats
	for rows.Next() {
		var row repository.GroupStats
		if err := rows.Scan(&row.Key, &row.Label, &row.Revenue, &row.Transactions, &row.AvgMarginPct); err != nil {
			return nil, fmt.Errorf("analytics.%s scan: %w", op, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
