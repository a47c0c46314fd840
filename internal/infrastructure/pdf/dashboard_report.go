// Package pdf genera el reporte PDF del dashboard de rentabilidad.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título               │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: clientes / ingreso / margen / transacciones / YoY     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Región | Ingreso | Transacciones                     │
//	│  TABLA: Provincia | Ingreso                                  │
//	│  TABLA: Producto | Margen % | Ingreso                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ANÁLISIS: un bloque de texto por gráfico                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/rentabilidad-api/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorStripe  = &props.Color{Red: 235, Green: 241, Blue: 247}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var chartTitles = map[string]string{
	"revenue-by-product":  "Ingreso por producto",
	"revenue-by-month":    "Tendencia mensual",
	"margin-by-product":   "Margen por producto",
	"revenue-by-region":   "Ingreso por región",
	"revenue-by-province": "Ingreso por provincia",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// DashboardPDFGenerator implementa ports.ReportPDFGenerator usando Maroto v2.
type DashboardPDFGenerator struct{}

var _ ports.ReportPDFGenerator = (*DashboardPDFGenerator)(nil)

// NewDashboardPDFGenerator construye el generador.
func NewDashboardPDFGenerator() *DashboardPDFGenerator { return &DashboardPDFGenerator{} }

// GenerateDashboardPDF genera el PDF y devuelve sus bytes.
func (g *DashboardPDFGenerator) GenerateDashboardPDF(_ context.Context, report *dto.DashboardReportDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(kpiRows(report)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	cur := report.CurrencyLabel
	m.AddRows(sectionTitle("Ingreso por región (Actual)"))
	m.AddRows(tableHeader([]string{"Región", "Ingreso (" + cur + ")", "Transacciones"}, []int{6, 4, 2}))
	for i, r := range report.Regions {
		m.AddRows(tableRow(i, []int{6, 4, 2}, r.Region, formatMoney(r.Revenue), fmt.Sprint(r.Transactions)))
	}

	m.AddRows(sectionTitle("Ingreso por provincia (top 20)"))
	m.AddRows(tableHeader([]string{"Provincia", "Ingreso (" + cur + ")"}, []int{8, 4}))
	for i, p := range report.Provinces {
		m.AddRows(tableRow(i, []int{8, 4}, p.Province, formatMoney(p.Revenue)))
	}

	m.AddRows(sectionTitle("Margen por producto (top 10)"))
	m.AddRows(tableHeader([]string{"Producto", "Margen %", "Ingreso (" + cur + ")"}, []int{6, 2, 4}))
	for i, p := range report.TopMargins {
		m.AddRows(tableRow(i, []int{6, 2, 4}, productLabel(p), p.AvgMarginPct.StringFixed(2)+"%", formatMoney(p.Revenue)))
	}

	if len(report.Insights) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(sectionTitle("Análisis"))
		for _, in := range report.Insights {
			m.AddRows(insightRows(in)...)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *dto.DashboardReportDTO) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

// kpiRows dos filas de tarjetas: etiqueta arriba, valor abajo.
func kpiRows(report *dto.DashboardReportDTO) []core.Row {
	k := report.KPIs
	card := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center, Color: colorPrimary}),
		)
	}
	yoy := k.YoYGrowthPct.StringFixed(2) + "%"
	if k.PriorYearEstimate {
		yoy += " (est.)"
	}
	return []core.Row{
		row.New(16).Add(
			card("Clientes activos", fmt.Sprint(k.ActiveCustomers)),
			card("Ingreso total ("+report.CurrencyLabel+")", formatMoney(k.TotalRevenue)),
			card("Margen promedio", k.AvgMarginPct.StringFixed(2)+"%"),
		),
		row.New(16).Add(
			card("Transacciones", fmt.Sprint(k.TotalTransactions)),
			card("Crecimiento interanual", yoy),
			card("Cumplimiento de presupuesto", k.BudgetAttainmentPct.StringFixed(2)+"%"),
		),
	}
}

func sectionTitle(title string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 3}),
	))
}

// tableHeader cabecera con fondo primario.
func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, len(labels))
	for i, label := range labels {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols[i] = col.New(sizes[i]).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 1.5, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRow fila de datos; las filas pares llevan fondo alterno.
func tableRow(i int, sizes []int, values ...string) core.Row {
	cols := make([]core.Col, len(values))
	for j, v := range values {
		a := align.Right
		if j == 0 {
			a = align.Left
		}
		cols[j] = col.New(sizes[j]).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	r := row.New(6).Add(cols...)
	if i%2 == 1 {
		r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return r
}

func insightRows(in dto.InsightDTO) []core.Row {
	title := chartTitles[in.Chart]
	if title == "" {
		title = in.Chart
	}
	lines := strings.Split(strings.TrimSpace(in.Insights), "\n")
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Top: 2}),
		)),
	}
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(l, props.Text{Size: 8, Color: colorGray, Left: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func productLabel(p dto.ProductMarginDTO) string {
	if p.ProductName == "" {
		return p.ProductID
	}
	return p.ProductName
}

// formatMoney redondea a entero e inserta puntos de miles.
// Ej: 25000 → "25.000", -1234567.6 → "-1.234.568"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
