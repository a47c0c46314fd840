// Package bootstrap arma repositorios y casos de uso para cmd/api y cmd/ingest.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentabilidad-api/internal/application/analytics"
	"github.com/jhoicas/rentabilidad-api/internal/application/ingest"
	"github.com/jhoicas/rentabilidad-api/internal/application/ports"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
	infraai "github.com/jhoicas/rentabilidad-api/internal/infrastructure/ai"
	"github.com/jhoicas/rentabilidad-api/internal/infrastructure/excel"
	"github.com/jhoicas/rentabilidad-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/rentabilidad-api/internal/infrastructure/pdf"
	"github.com/jhoicas/rentabilidad-api/internal/infrastructure/postgres"
	"github.com/jhoicas/rentabilidad-api/pkg/config"
	"github.com/jhoicas/rentabilidad-api/pkg/logger"
)

// Repositories puertos de persistencia de un backend concreto.
type Repositories struct {
	Products   repository.ProductRepository
	Customers  repository.CustomerRepository
	Executives repository.ExecutiveRepository
	Locations  repository.LocationRepository
	Scenarios  repository.ScenarioRepository
	Sales      repository.SaleRepository
	Batches    repository.BatchRepository
	Analytics  repository.AnalyticsRepository
	TxRunner   ingest.TxRunner
	Locker     ingest.Locker
}

// MemoryRepositories repositorios sobre el store en memoria.
func MemoryRepositories(s *memory.Store) Repositories {
	return Repositories{
		Products:   memory.NewProductRepository(s),
		Customers:  memory.NewCustomerRepository(s),
		Executives: memory.NewExecutiveRepository(s),
		Locations:  memory.NewLocationRepository(s),
		Scenarios:  memory.NewScenarioRepository(s),
		Sales:      memory.NewSaleRepository(s),
		Batches:    memory.NewBatchRepository(s),
		Analytics:  memory.NewAnalyticsRepository(s),
		TxRunner:   memory.NewTxRunner(s),
		Locker:     memory.NewLocker(),
	}
}

// PostgresRepositories repositorios sobre el pool de PostgreSQL.
func PostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Products:   postgres.NewProductRepository(pool),
		Customers:  postgres.NewCustomerRepository(pool),
		Executives: postgres.NewExecutiveRepository(pool),
		Locations:  postgres.NewLocationRepository(pool),
		Scenarios:  postgres.NewScenarioRepository(pool),
		Sales:      postgres.NewSaleRepository(pool),
		Batches:    postgres.NewBatchRepository(pool),
		Analytics:  postgres.NewAnalyticsRepository(pool),
		TxRunner:   postgres.NewTxRunner(pool),
		Locker:     postgres.NewAdvisoryLocker(pool),
	}
}

// OpenRepositories elige el backend según STORE_DRIVER. Con postgres aplica las migraciones
// si DB_AUTO_MIGRATE está activo. closeFn libera el pool.
func OpenRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (repos Repositories, closeFn func(), err error) {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Store.Driver == config.StoreMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		return MemoryRepositories(memory.NewStore()), func() {}, nil
	}

	if cfg.DB.AutoMigrate {
		version, err := postgres.RunMigrations(cfg.DB)
		if err != nil {
			return Repositories{}, nil, err
		}
		log.Info().Uint("version", version).Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return Repositories{}, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return PostgresRepositories(pool), pool.Close, nil
}

// Options dependencias opcionales de los casos de uso.
type Options struct {
	Limits  ingest.Limits
	Report  analytics.Options
	Reader  ingest.WorkbookReader    // nil = excelize
	Metrics ports.IngestMetrics      // nil = sin métricas
	LLM     ports.LLMService         // nil = sin IA (fallback a reglas)
	PDF     ports.ReportPDFGenerator // nil = maroto
	Log     *logger.Logger
}

// Services casos de uso listos para los adaptadores.
type Services struct {
	Resolver  *ingest.IdentityResolver
	Ingest    *ingest.IngestUseCase
	Batches   *ingest.BatchUseCase
	Dashboard *analytics.DashboardUseCase
	Narrative *analytics.NarrativeUseCase
	Report    *analytics.ReportUseCase
}

// NewServices construye los casos de uso y asegura los escenarios Actual y Budget.
func NewServices(ctx context.Context, repos Repositories, opts Options) (*Services, error) {
	if opts.Reader == nil {
		opts.Reader = excel.NewReader()
	}
	if opts.PDF == nil {
		opts.PDF = infrapdf.NewDashboardPDFGenerator()
	}
	if opts.Log == nil {
		opts.Log = logger.NewNop()
	}

	resolver := ingest.NewIdentityResolver(repos.Products, repos.Customers, repos.Executives, repos.Locations, repos.Scenarios)
	for _, sc := range []struct{ name, desc string }{
		{entity.ScenarioActual, "Ventas reales"},
		{entity.ScenarioBudget, "Presupuesto"},
	} {
		if _, err := resolver.EnsureScenario(ctx, sc.name, sc.desc); err != nil {
			return nil, fmt.Errorf("sembrar escenario %s: %w", sc.name, err)
		}
	}

	loader := ingest.NewFactLoader(resolver, repos.Sales)
	dashboard := analytics.NewDashboardUseCase(repos.Analytics, opts.Report)
	return &Services{
		Resolver: resolver,
		Ingest: ingest.NewIngestUseCase(resolver, loader, repos.Batches, repos.TxRunner, repos.Locker,
			opts.Reader, opts.Metrics, opts.Limits, opts.Log),
		Batches:   ingest.NewBatchUseCase(repos.Batches),
		Dashboard: dashboard,
		Narrative: analytics.NewNarrativeUseCase(dashboard, opts.LLM, opts.Log),
		Report:    analytics.NewReportUseCase(dashboard, opts.PDF),
	}, nil
}

// NewLLM adaptador de IA según AI_PROVIDER; nil si no hay proveedor o falta la API key.
func NewLLM(cfg config.AIConfig) ports.LLMService {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicKey != "" {
			return infraai.NewAnthropicService(cfg.AnthropicKey, cfg.AnthropicModel)
		}
	case "gemini":
		if cfg.GeminiKey != "" {
			return infraai.NewGeminiService(cfg.GeminiKey, cfg.GeminiModel)
		}
	}
	return nil
}

// LimitsFrom límites de carga desde la configuración.
func LimitsFrom(cfg config.UploadConfig) ingest.Limits {
	return ingest.Limits{MaxFileBytes: cfg.MaxFileBytes(), MaxRows: cfg.MaxRows}
}

// ReportOptionsFrom opciones del motor de agregación desde la configuración.
func ReportOptionsFrom(cfg config.ReportConfig) analytics.Options {
	return analytics.Options{
		PriorYearFactor: decimal.NewFromFloat(cfg.PriorYearFactor),
		CurrencyLabel:   cfg.CurrencyLabel,
	}
}
