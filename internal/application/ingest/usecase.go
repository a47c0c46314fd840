package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/rentabilidad-api/internal/application/ports"
	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
	"github.com/jhoicas/rentabilidad-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Extensiones de libro aceptadas (excelize no lee el formato binario .xls).
var allowedExtensions = map[string]bool{".xlsx": true, ".xlsm": true}

// Limits cotas de recursos que se validan antes de crear el lote.
type Limits struct {
	MaxFileBytes int64
	MaxRows      int // filas de datos sumando las cuatro hojas
}

// IngestRequest archivo ya guardado en disco más el actor que lo sube.
type IngestRequest struct {
	FileName string
	FileSize int64
	FilePath string
	Caller   entity.Caller
}

// Summary resultado de un lote cerrado con éxito.
type Summary struct {
	BatchID      int64
	Products     int
	Customers    int
	Employees    int
	Transactions int
	Revenue      decimal.Decimal
	Tally        *Tally
	Elapsed      time.Duration
}

// PipelineError fallo ocurrido después de crear el lote; el lote quedó en Failed.
type PipelineError struct {
	BatchID int64
	Err     error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("lote %d: %v", e.BatchID, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// IngestUseCase orquesta el ciclo de vida de un lote:
// Created → Processing → {Success | Failed}. Importa en orden fijo Products, Customers,
// Employees y Sales Transactions, y al final fija los totales del lote.
type IngestUseCase struct {
	resolver *IdentityResolver
	loader   *FactLoader
	batches  repository.BatchRepository
	txRunner TxRunner
	locker   Locker
	reader   WorkbookReader
	metrics  ports.IngestMetrics
	limits   Limits
	log      *logger.Logger
	now      func() time.Time
}

// NewIngestUseCase construye el orquestador de cargas.
func NewIngestUseCase(
	resolver *IdentityResolver,
	loader *FactLoader,
	batches repository.BatchRepository,
	txRunner TxRunner,
	locker Locker,
	reader WorkbookReader,
	metrics ports.IngestMetrics,
	limits Limits,
	log *logger.Logger,
) *IngestUseCase {
	if metrics == nil {
		metrics = ports.NopIngestMetrics{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &IngestUseCase{
		resolver: resolver,
		loader:   loader,
		batches:  batches,
		txRunner: txRunner,
		locker:   locker,
		reader:   reader,
		metrics:  metrics,
		limits:   limits,
		log:      log.Component("ingest"),
		now:      time.Now,
	}
}

// ValidateFile comprueba extensión y tamaño del archivo.
func (uc *IngestUseCase) ValidateFile(fileName string, size int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w (recibido %q)", domain.ErrUnsupportedFile, ext)
	}
	if size <= 0 {
		return fmt.Errorf("%w: el archivo está vacío", domain.ErrValidation)
	}
	if uc.limits.MaxFileBytes > 0 && size > uc.limits.MaxFileBytes {
		return fmt.Errorf("%w: %d bytes (máximo %d)", domain.ErrFileTooLarge, size, uc.limits.MaxFileBytes)
	}
	return nil
}

// IngestFile valida el archivo, lo abre y ejecuta la carga.
func (uc *IngestUseCase) IngestFile(ctx context.Context, req IngestRequest) (*Summary, error) {
	if err := uc.ValidateFile(req.FileName, req.FileSize); err != nil {
		return nil, err
	}
	wb, err := uc.reader.Open(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: no se pudo leer el libro: %v", domain.ErrValidation, err)
	}
	defer wb.Close()

	meta := entity.FileMeta{FileName: req.FileName, FileSize: req.FileSize, FilePath: req.FilePath}
	return uc.IngestWorkbook(ctx, meta, wb, req.Caller)
}

// IngestWorkbook ejecuta la carga de un libro ya abierto. Los errores de validación se
// devuelven antes de cualquier escritura; los posteriores llegan como *PipelineError.
func (uc *IngestUseCase) IngestWorkbook(ctx context.Context, meta entity.FileMeta, wb Workbook, caller entity.Caller) (*Summary, error) {
	if err := uc.validateWorkbook(wb); err != nil {
		return nil, err
	}

	release, err := uc.locker.TryLock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	batch := entity.NewBatch(meta, caller.ActorID, uc.now())
	if err := batch.Start(); err != nil {
		return nil, err
	}
	if err := uc.batches.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("crear lote: %w", err)
	}
	uc.log.Info().Int64("batch_id", batch.ID).Str("file", meta.FileName).Str("actor", caller.ActorID).Msg("lote iniciado")

	summary, err := uc.run(ctx, batch, wb, caller.ActorID)
	if err != nil {
		uc.fail(ctx, batch, err)
		return nil, &PipelineError{BatchID: batch.ID, Err: err}
	}

	uc.record(batch, summary)
	uc.log.Info().
		Int64("batch_id", batch.ID).
		Int("products", summary.Products).
		Int("customers", summary.Customers).
		Int("employees", summary.Employees).
		Int("transactions", summary.Transactions).
		Str("revenue", summary.Revenue.StringFixed(2)).
		Interface("skipped", summary.Tally.SkippedByName()).
		Int("coerced_measures", summary.Tally.CoercedMeasures).
		Dur("elapsed", summary.Elapsed).
		Msg("lote completado")
	return summary, nil
}

// validateWorkbook hoja de ventas obligatoria y cota de filas.
func (uc *IngestUseCase) validateWorkbook(wb Workbook) error {
	if _, ok := wb.Sheet(SheetSales); !ok {
		return domain.ErrMissingSalesSheet
	}
	if uc.limits.MaxRows <= 0 {
		return nil
	}
	total := 0
	for _, name := range []string{SheetProducts, SheetCustomers, SheetEmployees, SheetSales} {
		if sh, ok := wb.Sheet(name); ok {
			total += max(sh.Rows()-headerRows, 0)
		}
	}
	if total > uc.limits.MaxRows {
		return fmt.Errorf("%w: %d filas (máximo %d)", domain.ErrTooManyRows, total, uc.limits.MaxRows)
	}
	return nil
}

func (uc *IngestUseCase) run(ctx context.Context, batch *entity.Batch, wb Workbook, actorID string) (*Summary, error) {
	products, err := uc.importProducts(ctx, wb, batch.ID, actorID)
	if err != nil {
		return nil, err
	}
	customers, err := uc.importCustomers(ctx, wb, batch.ID, actorID)
	if err != nil {
		return nil, err
	}
	employees, err := uc.importExecutives(ctx, wb, batch.ID, actorID)
	if err != nil {
		return nil, err
	}
	tally, err := uc.importSales(ctx, wb, batch.ID, actorID)
	if err != nil {
		return nil, err
	}

	var done entity.Batch
	err = uc.txRunner.Run(ctx, func(sales repository.SaleRepository, batches repository.BatchRepository) error {
		revenue, err := sales.SumRevenueByBatch(ctx, batch.ID)
		if err != nil {
			return fmt.Errorf("sumar revenue del lote: %w", err)
		}
		done = *batch
		if err := done.Complete(entity.BatchTotals{
			Products:     products,
			Customers:    customers,
			Transactions: tally.Loaded,
			Revenue:      revenue,
		}, uc.now()); err != nil {
			return err
		}
		return batches.Update(ctx, &done)
	})
	if err != nil {
		return nil, fmt.Errorf("cerrar lote: %w", err)
	}
	*batch = done

	return &Summary{
		BatchID:      batch.ID,
		Products:     products,
		Customers:    customers,
		Employees:    employees,
		Transactions: tally.Loaded,
		Revenue:      batch.TotalRevenue,
		Tally:        tally,
		Elapsed:      batch.ProcessingTime,
	}, nil
}

// fail lleva el lote a Failed. Usa un contexto sin cancelación para poder registrar el
// fallo aunque la petición original se haya cancelado.
func (uc *IngestUseCase) fail(ctx context.Context, batch *entity.Batch, cause error) {
	uc.log.Error().Err(cause).Int64("batch_id", batch.ID).Msg("lote fallido")
	if err := batch.Fail(cause.Error(), uc.now()); err != nil {
		uc.log.Error().Err(err).Int64("batch_id", batch.ID).Msg("no se pudo marcar el lote como fallido")
		return
	}
	if err := uc.batches.Update(context.WithoutCancel(ctx), batch); err != nil {
		uc.log.Error().Err(err).Int64("batch_id", batch.ID).Msg("no se pudo guardar el estado Failed")
	}
	uc.metrics.BatchFinished(string(entity.BatchFailed), batch.ProcessingTime)
}

func (uc *IngestUseCase) record(batch *entity.Batch, s *Summary) {
	uc.metrics.BatchFinished(string(batch.Status), batch.ProcessingTime)
	uc.metrics.RowsLoaded(s.Tally.Loaded)
	for reason, n := range s.Tally.Skipped {
		uc.metrics.RowsSkipped(string(reason), n)
	}
	uc.metrics.MeasuresCoerced(s.Tally.CoercedMeasures)
}

func (uc *IngestUseCase) importProducts(ctx context.Context, wb Workbook, batchID int64, actorID string) (int, error) {
	sh, ok := wb.Sheet(SheetProducts)
	if !ok {
		return 0, nil
	}
	n := 0
	for i := headerRows; i < sh.Rows(); i++ {
		id := cell(sh, i, colProductID)
		if id == "" {
			continue
		}
		attrs := entity.ProductAttributes{
			Name:     cell(sh, i, colProductName),
			BU:       cell(sh, i, colProductBU),
			Division: cell(sh, i, colProductDivision),
			Industry: cell(sh, i, colProductIndustry),
		}
		if _, err := uc.resolver.ResolveProduct(ctx, id, attrs, batchID, actorID); err != nil {
			return n, err
		}
		n++
	}
	uc.log.Info().Int64("batch_id", batchID).Str("sheet", SheetProducts).Int("rows", n).Msg("hoja importada")
	return n, nil
}

func (uc *IngestUseCase) importCustomers(ctx context.Context, wb Workbook, batchID int64, actorID string) (int, error) {
	sh, ok := wb.Sheet(SheetCustomers)
	if !ok {
		return 0, nil
	}
	n := 0
	for i := headerRows; i < sh.Rows(); i++ {
		id := cell(sh, i, colCustomerID)
		if id == "" {
			continue
		}
		attrs := entity.CustomerAttributes{
			Name:          cell(sh, i, colCustomerName),
			Region:        cell(sh, i, colCustomerRegion),
			Province:      cell(sh, i, colCustomerProvince),
			District:      cell(sh, i, colCustomerDistrict),
			Industry:      cell(sh, i, colCustomerIndustry),
			ExecutiveName: cell(sh, i, colCustomerExecutiveName),
			Email:         cell(sh, i, colCustomerEmail),
			PhoneNumber:   cell(sh, i, colCustomerPhone),
		}
		if _, err := uc.resolver.ResolveCustomer(ctx, id, attrs, batchID, actorID); err != nil {
			return n, err
		}
		n++
	}
	uc.log.Info().Int64("batch_id", batchID).Str("sheet", SheetCustomers).Int("rows", n).Msg("hoja importada")
	return n, nil
}

func (uc *IngestUseCase) importExecutives(ctx context.Context, wb Workbook, batchID int64, actorID string) (int, error) {
	sh, ok := wb.Sheet(SheetEmployees)
	if !ok {
		return 0, nil
	}
	n := 0
	for i := headerRows; i < sh.Rows(); i++ {
		id := cell(sh, i, colExecutiveID)
		if id == "" {
			continue
		}
		attrs := entity.ExecutiveAttributes{
			Name:        cell(sh, i, colExecutiveName),
			Title:       cell(sh, i, colExecutiveTitle),
			Region:      cell(sh, i, colExecutiveRegion),
			Email:       cell(sh, i, colExecutiveEmail),
			PhoneNumber: cell(sh, i, colExecutivePhone),
		}
		if _, err := uc.resolver.ResolveExecutive(ctx, id, attrs, batchID, actorID); err != nil {
			return n, err
		}
		n++
	}
	uc.log.Info().Int64("batch_id", batchID).Str("sheet", SheetEmployees).Int("rows", n).Msg("hoja importada")
	return n, nil
}

// importSales carga la hoja de ventas fila a fila. Un fallo de fila nunca aborta la hoja;
// solo la cancelación del contexto la interrumpe.
func (uc *IngestUseCase) importSales(ctx context.Context, wb Workbook, batchID int64, actorID string) (*Tally, error) {
	sh, _ := wb.Sheet(SheetSales)
	tally := NewTally()
	for i := headerRows; i < sh.Rows(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := uc.loader.LoadRow(ctx, saleRowAt(sh, i), batchID, actorID)
		tally.Add(res)
		if res.Status == RowSkipped {
			ev := uc.log.Debug().Int64("batch_id", batchID).Int("row", i+1).Str("reason", string(res.Reason))
			if res.Err != nil {
				ev = ev.Err(res.Err)
			}
			ev.Msg("fila de venta omitida")
		}
	}
	uc.log.Info().Int64("batch_id", batchID).Str("sheet", SheetSales).
		Int("loaded", tally.Loaded).Int("skipped", tally.SkippedTotal()).Msg("hoja importada")
	return tally, nil
}

// IsRejected indica si err es un rechazo previo a la creación del lote (validación o lote
// concurrente en curso), a diferencia de un fallo del pipeline.
func IsRejected(err error) bool {
	return domain.IsValidation(err) || errors.Is(err, domain.ErrIngestionBusy)
}
