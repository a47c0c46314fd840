package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchDTO fila del historial de cargas.
type BatchDTO struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	FileName          string          `json:"file_name"`
	FileSize          int64           `json:"file_size"`
	UploadedBy        string          `json:"uploaded_by"`
	UploadDate        time.Time       `json:"upload_date"`
	Status            string          `json:"status"`
	TotalProducts     int             `json:"total_products"`
	TotalCustomers    int             `json:"total_customers"`
	TotalTransactions int             `json:"total_transactions"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	ErrorMessage      string          `json:"error_message,omitempty"`
	ProcessingTimeMs  int64           `json:"processing_time_ms"`
	Notes             string          `json:"notes,omitempty"`
}

// BatchListResponse respuesta paginada de GET /api/batches.
type BatchListResponse struct {
	Items []BatchDTO   `json:"items"`
	Page  PageResponse `json:"page"`
}
