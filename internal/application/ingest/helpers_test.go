package ingest_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/rentabilidad-api/internal/application/ingest"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
	"github.com/jhoicas/rentabilidad-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Libro de carga en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeSheet [][]string

func (s fakeSheet) Rows() int { return len(s) }

func (s fakeSheet) Cell(row, col int) string {
	if row < 0 || row >= len(s) || col < 0 || col >= len(s[row]) {
		return ""
	}
	return s[row][col]
}

type fakeWorkbook map[string]fakeSheet

func (w fakeWorkbook) Sheet(name string) (ingest.Sheet, bool) {
	s, ok := w[name]
	return s, ok
}

var (
	productsHeader  = []string{"ProductID", "ProductName", "BU", "Division", "Industry"}
	customersHeader = []string{"CustomerID", "CustomerName", "Region", "Province", "District", "Industry", "ExecutiveName", "Email", "PhoneNumber"}
	employeesHeader = []string{"ExecutiveID", "ExecutiveName", "ExecutiveTitle", "Region", "Email", "PhoneNumber"}
	salesHeader     = []string{"TransactionID", "Date", "ProductID", "CustomerID", "ExecutiveID", "ScenarioName", "Quantity", "UnitPrice", "Revenue", "COGS"}
)

func sheet(header []string, rows ...[]string) fakeSheet {
	return append(fakeSheet{header}, rows...)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture con store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memory.Store
	resolver *ingest.IdentityResolver
	loader   *ingest.FactLoader
	batches  *memory.BatchRepository
	locker   *memory.Locker
	metrics  *recordingMetrics
	uc       *ingest.IngestUseCase
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	limits   ingest.Limits
	txRunner ingest.TxRunner
	reader   ingest.WorkbookReader
}

func withLimits(l ingest.Limits) fixtureOption {
	return func(c *fixtureConfig) { c.limits = l }
}

func withTxRunner(tx ingest.TxRunner) fixtureOption {
	return func(c *fixtureConfig) { c.txRunner = tx }
}

func withReader(r ingest.WorkbookReader) fixtureOption {
	return func(c *fixtureConfig) { c.reader = r }
}

// newFixture arma el pipeline completo sobre un store vacío con los escenarios
// Actual y Budget ya sembrados.
func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	s := memory.NewStore()
	cfg := fixtureConfig{
		limits:   ingest.Limits{MaxFileBytes: 10 << 20, MaxRows: 1000},
		txRunner: memory.NewTxRunner(s),
	}
	for _, o := range opts {
		o(&cfg)
	}

	resolver := ingest.NewIdentityResolver(
		memory.NewProductRepository(s),
		memory.NewCustomerRepository(s),
		memory.NewExecutiveRepository(s),
		memory.NewLocationRepository(s),
		memory.NewScenarioRepository(s),
	)
	for _, name := range []string{entity.ScenarioActual, entity.ScenarioBudget} {
		_, err := resolver.EnsureScenario(context.Background(), name, "")
		require.NoError(t, err)
	}

	f := &fixture{
		store:    s,
		resolver: resolver,
		loader:   ingest.NewFactLoader(resolver, memory.NewSaleRepository(s)),
		batches:  memory.NewBatchRepository(s),
		locker:   memory.NewLocker(),
		metrics:  &recordingMetrics{skipped: map[string]int{}},
	}
	f.uc = ingest.NewIngestUseCase(f.resolver, f.loader, f.batches, cfg.txRunner, f.locker, cfg.reader, f.metrics, cfg.limits, nil)
	return f
}

var testCaller = entity.Caller{ActorID: "user-1", Capabilities: entity.Capabilities{CanUpload: true}}

func (f *fixture) ingest(t *testing.T, wb ingest.Workbook) (*ingest.Summary, error) {
	t.Helper()
	meta := entity.FileMeta{FileName: "carga.xlsx", FileSize: 2048, FilePath: "/tmp/carga.xlsx"}
	return f.uc.IngestWorkbook(context.Background(), meta, wb, testCaller)
}

func (f *fixture) allBatches(t *testing.T) []*entity.Batch {
	t.Helper()
	list, err := f.batches.List(context.Background(), repository.BatchFilter{})
	require.NoError(t, err)
	return list
}

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type recordingMetrics struct {
	mu       sync.Mutex
	statuses []string
	loaded   int
	skipped  map[string]int
	coerced  int
}

func (m *recordingMetrics) BatchFinished(status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}

func (m *recordingMetrics) RowsLoaded(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded += n
}

func (m *recordingMetrics) RowsSkipped(reason string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped[reason] += n
}

func (m *recordingMetrics) MeasuresCoerced(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coerced += n
}

// failingTxRunner simula un fallo del store al cerrar el lote.
type failingTxRunner struct{ err error }

func (r failingTxRunner) Run(context.Context, func(repository.SaleRepository, repository.BatchRepository) error) error {
	return r.err
}

func memoryLocation(f *fixture, province string) (*entity.Location, error) {
	return memory.NewLocationRepository(f.store).GetByProvince(context.Background(), province)
}
