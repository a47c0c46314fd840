package ingest

import (
	"errors"
	"fmt"

	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
)

// Respond traduce el resultado de una carga a la respuesta estructurada que ven el
// cliente HTTP y la CLI. Los rechazos se devuelven tal cual; los fallos del pipeline
// solo informan el lote afectado (el detalle queda en el log y en el lote).
func Respond(s *Summary, err error) dto.IngestResponse {
	if err != nil {
		var perr *PipelineError
		switch {
		case IsRejected(err):
			return dto.IngestResponse{Success: false, Message: err.Error()}
		case errors.As(err, &perr):
			return dto.IngestResponse{
				Success: false,
				Message: fmt.Sprintf("Error al procesar la carga; el lote %d quedó en estado Failed", perr.BatchID),
			}
		default:
			return dto.IngestResponse{Success: false, Message: "Error al procesar la carga"}
		}
	}
	return dto.IngestResponse{
		Success: true,
		Message: fmt.Sprintf("Carga completada: %d productos, %d clientes, %d ejecutivos, %d transacciones",
			s.Products, s.Customers, s.Employees, s.Transactions),
		Data: &dto.IngestDataDTO{
			BatchID:         s.BatchID,
			Products:        s.Products,
			Customers:       s.Customers,
			Employees:       s.Employees,
			Transactions:    s.Transactions,
			Revenue:         s.Revenue,
			Skipped:         s.Tally.SkippedByName(),
			CoercedMeasures: s.Tally.CoercedMeasures,
		},
	}
}
