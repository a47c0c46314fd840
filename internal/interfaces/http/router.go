package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/rentabilidad-api/internal/application/analytics"
	"github.com/jhoicas/rentabilidad-api/internal/application/ingest"
	"github.com/jhoicas/rentabilidad-api/pkg/jwt"
	"github.com/jhoicas/rentabilidad-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ingest    *ingest.IngestUseCase
	Batches   *ingest.BatchUseCase
	Dashboard *appanalytics.DashboardUseCase
	Narrative *appanalytics.NarrativeUseCase
	Report    *appanalytics.ReportUseCase

	JWTSecret   string
	UploadDir   string
	ServiceName string

	// Gatherer origen de /metrics; nil = registro global de Prometheus.
	Gatherer prometheus.Gatherer
	// HTTPMetrics observador de peticiones; nil = sin métricas HTTP.
	HTTPMetrics requestObserver

	Log *logger.Logger
}

// Router registra /health, /metrics y las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	log = log.Component("http")

	if deps.HTTPMetrics != nil {
		app.Use(MetricsMiddleware(deps.HTTPMetrics))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	uploadHandler := NewUploadHandler(deps.Ingest, deps.UploadDir, log)
	api.Post("/uploads", RequireCapability(jwt.CapUpload), uploadHandler.Upload)

	batches := api.Group("/batches")
	batchHandler := NewBatchHandler(deps.Batches, log)
	batches.Get("/", batchHandler.List)
	batches.Get("/:id", batchHandler.Get)
	batches.Delete("/:id", RequireCapability(jwt.CapDelete), batchHandler.Delete)

	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.Dashboard, deps.Narrative, deps.Report, log)
	dashboard.Get("/kpis", dashboardHandler.GetKPIs)
	dashboard.Get("/charts/:chart", dashboardHandler.GetChart)
	dashboard.Get("/insights/:chart", dashboardHandler.GetInsights)
	dashboard.Post("/insights/:chart/ai", RequireCapability(jwt.CapUseAI), dashboardHandler.NarrateInsights)
	dashboard.Get("/report.pdf", dashboardHandler.DownloadReport)
}
