// Package excel adapta excelize al puerto ingest.WorkbookReader.
package excel

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jhoicas/rentabilidad-api/internal/application/ingest"
	"github.com/xuri/excelize/v2"
)

// Reader abre libros .xlsx/.xlsm con excelize.
type Reader struct {
	opts excelize.Options
}

var _ ingest.WorkbookReader = (*Reader)(nil)

// NewReader construye el lector. Las celdas se leen sin el formato del libro:
// una fecha llega como su serial de Excel ("45306") y un importe sin separadores.
func NewReader() *Reader {
	return &Reader{}
}

// Open abre el libro desde disco.
func (r *Reader) Open(path string) (ingest.WorkbookFile, error) {
	f, err := excelize.OpenFile(path, r.opts)
	if err != nil {
		return nil, fmt.Errorf("excel: abrir %s: %w", path, err)
	}
	return newWorkbook(f), nil
}

// OpenReader abre el libro desde un stream (CLI con stdin, tests).
func (r *Reader) OpenReader(src io.Reader) (ingest.WorkbookFile, error) {
	f, err := excelize.OpenReader(src, r.opts)
	if err != nil {
		return nil, fmt.Errorf("excel: leer libro: %w", err)
	}
	return newWorkbook(f), nil
}

// Workbook libro abierto. Las filas de cada hoja se leen una sola vez, al primer acceso.
type Workbook struct {
	f      *excelize.File
	mu     sync.Mutex
	sheets map[string]*Sheet
}

func newWorkbook(f *excelize.File) *Workbook {
	return &Workbook{f: f, sheets: make(map[string]*Sheet)}
}

// Sheet busca la hoja por nombre exacto y, si no existe, ignorando mayúsculas y espacios.
func (w *Workbook) Sheet(name string) (ingest.Sheet, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	actual, ok := w.resolveName(name)
	if !ok {
		return nil, false
	}
	if sh, ok := w.sheets[actual]; ok {
		return sh, true
	}
	rows, err := w.f.GetRows(actual, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false
	}
	sh := &Sheet{name: actual, rows: rows}
	w.sheets[actual] = sh
	return sh, true
}

func (w *Workbook) resolveName(name string) (string, bool) {
	list := w.f.GetSheetList()
	for _, s := range list {
		if s == name {
			return s, true
		}
	}
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return s, true
		}
	}
	return "", false
}

// SheetNames hojas del libro en orden.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Close libera el archivo subyacente.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Sheet filas de texto de una hoja. excelize recorta las celdas vacías al final de cada fila,
// así que Cell devuelve "" para columnas ausentes.
type Sheet struct {
	name string
	rows [][]string
}

var _ ingest.Sheet = (*Sheet)(nil)

func (s *Sheet) Name() string { return s.name }

// Rows número de filas, cabecera incluida.
func (s *Sheet) Rows() int { return len(s.rows) }

// Cell texto de la celda (fila y columna en base 0).
func (s *Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.rows) {
		return ""
	}
	r := s.rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}
