package ingest

import (
	"context"

	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
)

// Sheet acceso por fila/columna (base 0) a las celdas de texto de una hoja.
// Las celdas fuera de rango devuelven "".
type Sheet interface {
	Rows() int
	Cell(row, col int) string
}

// Workbook libro de carga con hojas accesibles por nombre.
type Workbook interface {
	Sheet(name string) (Sheet, bool)
}

// WorkbookFile libro abierto desde disco que debe cerrarse.
type WorkbookFile interface {
	Workbook
	Close() error
}

// WorkbookReader abre el archivo subido. Implementado por infrastructure/excel.
type WorkbookReader interface {
	Open(path string) (WorkbookFile, error)
}

// Locker serializa las cargas: como mucho un lote en ejecución a la vez.
// TryLock no bloquea: si otro lote está en curso devuelve domain.ErrIngestionBusy.
type Locker interface {
	TryLock(ctx context.Context) (release func(), err error)
}

// TxRunner ejecuta el cierre del lote (suma de revenue + actualización) en una transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(sales repository.SaleRepository, batches repository.BatchRepository) error) error
}
