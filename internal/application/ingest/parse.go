package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// dateLayouts formatos aceptados para la columna Date cuando llega como texto. Los formatos
// numéricos con barras se interpretan mes/día/año.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"1/2/06 15:04",
	"01-02-06",
	"1-2-06",
	"2-Jan-2006",
	"02-Jan-06",
	"Jan 2, 2006",
}

// Rango de seriales de Excel que se aceptan como fecha (1950-01-01 .. 9999-12-31).
// Un entero pequeño ("2024", "15") no es una fecha.
const (
	minExcelSerial = 18264
	maxExcelSerial = 2958465
)

// parseDateKey convierte el texto de la celda en un DateKey YYYYMMDD.
func parseDateKey(raw string) (entity.DateKey, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return entity.NewDateKey(t), true
		}
	}
	// Las celdas de fecha se leen en crudo: llegan como serial numérico.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return entity.NewDateKey(t), true
		}
	}
	return 0, false
}

// parseMeasure parsea una medida numérica. Acepta separador de miles con coma y signo de
// moneda al inicio. Devuelve ok=false si la celda está vacía o no es un número.
func parseMeasure(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "$€₫ ")
	// La coma es separador de miles; "1.234,56" (coma decimal) se rechaza.
	if dot, comma := strings.Index(s, "."), strings.LastIndex(s, ","); dot >= 0 && comma > dot {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// cell devuelve el texto recortado de la celda.
func cell(sh Sheet, row, col int) string {
	return strings.TrimSpace(sh.Cell(row, col))
}
