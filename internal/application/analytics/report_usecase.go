package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/rentabilidad-api/internal/application/ports"
)

// ReportUseCase arma el reporte PDF del dashboard: KPIs, tablas por región, provincia y
// margen, más los insights por reglas de cada gráfico.
type ReportUseCase struct {
	dashboard *DashboardUseCase
	generator ports.ReportPDFGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(dashboard *DashboardUseCase, generator ports.ReportPDFGenerator) *ReportUseCase {
	return &ReportUseCase{dashboard: dashboard, generator: generator, now: time.Now}
}

// BuildReport reúne los datos del reporte.
func (uc *ReportUseCase) BuildReport(ctx context.Context) (*dto.DashboardReportDTO, error) {
	kpis, err := uc.dashboard.GetKPIs(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: %w", err)
	}
	regions, err := uc.dashboard.RevenueByRegion(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: %w", err)
	}
	provinces, err := uc.dashboard.RevenueByProvince(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: %w", err)
	}
	margins, err := uc.dashboard.MarginByProduct(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: %w", err)
	}

	insights := make([]dto.InsightDTO, 0, len(Charts))
	for _, chart := range Charts {
		text, err := uc.dashboard.Insights(ctx, chart)
		if err != nil {
			return nil, fmt.Errorf("reporte: %w", err)
		}
		insights = append(insights, dto.InsightDTO{Chart: chart, Insights: text, Source: SourceRules})
	}

	return &dto.DashboardReportDTO{
		Title:         "Reporte de rentabilidad de clientes",
		CurrencyLabel: uc.dashboard.opts.CurrencyLabel,
		GeneratedAt:   uc.now(),
		KPIs:          *kpis,
		Regions:       regions,
		Provinces:     provinces,
		TopMargins:    margins,
		Insights:      insights,
	}, nil
}

// DownloadPDF genera el PDF y el nombre de archivo sugerido.
func (uc *ReportUseCase) DownloadPDF(ctx context.Context) (pdfBytes []byte, filename string, err error) {
	report, err := uc.BuildReport(ctx)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateDashboardPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	filename = fmt.Sprintf("rentabilidad_%s.pdf", report.GeneratedAt.Format("20060102_1504"))
	return pdfBytes, filename, nil
}
