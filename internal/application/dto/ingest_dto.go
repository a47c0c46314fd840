package dto

import "github.com/shopspring/decimal"

// IngestDataDTO conteos de una carga exitosa.
type IngestDataDTO struct {
	BatchID         int64           `json:"batch_id"`
	Products        int             `json:"products"`
	Customers       int             `json:"customers"`
	Employees       int             `json:"employees"`
	Transactions    int             `json:"transactions"`
	Revenue         decimal.Decimal `json:"revenue"`
	Skipped         map[string]int  `json:"skipped,omitempty"` // filas de ventas omitidas por motivo
	CoercedMeasures int             `json:"coerced_measures,omitempty"`
}

// IngestResponse resultado estructurado de POST /api/uploads y de la CLI.
type IngestResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    *IngestDataDTO `json:"data,omitempty"`
}
