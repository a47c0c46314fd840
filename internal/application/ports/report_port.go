package ports

import (
	"context"

	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
)

// ReportPDFGenerator puerto de salida para renderizar el reporte del dashboard en PDF.
type ReportPDFGenerator interface {
	GenerateDashboardPDF(ctx context.Context, report *dto.DashboardReportDTO) ([]byte, error)
}
