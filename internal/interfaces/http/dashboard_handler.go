package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/rentabilidad-api/internal/application/analytics"
	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/rentabilidad-api/pkg/logger"
)

// DashboardHandler maneja los endpoints del dashboard de rentabilidad.
type DashboardHandler struct {
	dashboard *appanalytics.DashboardUseCase
	narrative *appanalytics.NarrativeUseCase
	report    *appanalytics.ReportUseCase
	log       *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(
	dashboard *appanalytics.DashboardUseCase,
	narrative *appanalytics.NarrativeUseCase,
	report *appanalytics.ReportUseCase,
	log *logger.Logger,
) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, narrative: narrative, report: report, log: log}
}

// GetKPIs GET /api/dashboard/kpis
func (h *DashboardHandler) GetKPIs(c *fiber.Ctx) error {
	kpis, err := h.dashboard.GetKPIs(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(kpis)
}

// GetChart GET /api/dashboard/charts/:chart
//
// chart: revenue-by-product | revenue-by-month | margin-by-product |
// revenue-by-region | revenue-by-province. Otro valor → 400.
func (h *DashboardHandler) GetChart(c *fiber.Ctx) error {
	chart := c.Params("chart")
	data, err := h.dashboard.Chart(c.Context(), chart)
	if err != nil {
		status, _ := errorStatus(err)
		if status == fiber.StatusInternalServerError {
			return respondError(c, h.log, err)
		}
		return c.Status(status).JSON(dto.ChartResponse{Success: false, Chart: chart, Message: err.Error()})
	}
	return c.JSON(dto.ChartResponse{Success: true, Chart: chart, Data: data})
}

// GetInsights GET /api/dashboard/insights/:chart (análisis por reglas).
func (h *DashboardHandler) GetInsights(c *fiber.Ctx) error {
	in, err := h.narrative.RuleInsights(c.Context(), c.Params("chart"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.InsightResponse{Success: true, InsightDTO: *in})
}

// NarrateInsights POST /api/dashboard/insights/:chart/ai. Requiere el permiso use_ai.
// Si el proveedor falla responde 200 con el texto por reglas y fallback=true.
func (h *DashboardHandler) NarrateInsights(c *fiber.Ctx) error {
	in, err := h.narrative.Narrate(c.Context(), c.Params("chart"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.InsightResponse{Success: true, InsightDTO: *in})
}

// DownloadReport GET /api/dashboard/report.pdf
func (h *DashboardHandler) DownloadReport(c *fiber.Ctx) error {
	pdf, filename, err := h.report.DownloadPDF(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
