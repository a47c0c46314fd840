package ports

import "time"

// IngestMetrics puerto de métricas del pipeline de carga.
type IngestMetrics interface {
	// BatchFinished registra el cierre de un lote con su estado final y duración.
	BatchFinished(status string, elapsed time.Duration)
	RowsLoaded(n int)
	RowsSkipped(reason string, n int)
	MeasuresCoerced(n int)
}

// NopIngestMetrics implementación vacía para tests y la CLI.
type NopIngestMetrics struct{}

func (NopIngestMetrics) BatchFinished(string, time.Duration) {}
func (NopIngestMetrics) RowsLoaded(int)                      {}
func (NopIngestMetrics) RowsSkipped(string, int)             {}
func (NopIngestMetrics) MeasuresCoerced(int)                 {}

var _ IngestMetrics = NopIngestMetrics{}
