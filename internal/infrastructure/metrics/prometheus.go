// Package metrics exporta métricas Prometheus de la carga y de la API HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/rentabilidad-api/internal/application/ports"
)

const namespace = "rentabilidad"

// IngestRecorder implementa ports.IngestMetrics.
type IngestRecorder struct {
	batches       *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
	rowsLoaded    prometheus.Counter
	rowsSkipped   *prometheus.CounterVec
	coerced       prometheus.Counter
}

var _ ports.IngestMetrics = (*IngestRecorder)(nil)

// NewIngestRecorder registra las métricas de carga en reg
// (prometheus.DefaultRegisterer en producción, un registro propio en tests).
func NewIngestRecorder(reg prometheus.Registerer) *IngestRecorder {
	f := promauto.With(reg)
	return &IngestRecorder{
		batches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "batches_total",
			Help:      "Lotes de carga cerrados, por estado final.",
		}, []string{"status"}),
		batchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "batch_duration_seconds",
			Help:      "Duración de los lotes de carga.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"status"}),
		rowsLoaded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "rows_loaded_total",
			Help:      "Filas de ventas cargadas como hechos.",
		}),
		rowsSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "rows_skipped_total",
			Help:      "Filas de ventas omitidas, por motivo.",
		}, []string{"reason"}),
		coerced: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "measures_coerced_total",
			Help:      "Medidas numéricas inválidas forzadas a cero.",
		}),
	}
}

func (r *IngestRecorder) BatchFinished(status string, elapsed time.Duration) {
	r.batches.WithLabelValues(status).Inc()
	r.batchDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

func (r *IngestRecorder) RowsLoaded(n int) { r.rowsLoaded.Add(float64(n)) }

func (r *IngestRecorder) RowsSkipped(reason string, n int) {
	r.rowsSkipped.WithLabelValues(reason).Add(float64(n))
}

func (r *IngestRecorder) MeasuresCoerced(n int) { r.coerced.Add(float64(n)) }

// HTTPRecorder métricas de peticiones HTTP.
type HTTPRecorder struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewHTTPRecorder registra las métricas HTTP en reg.
func NewHTTPRecorder(reg prometheus.Registerer) *HTTPRecorder {
	f := promauto.With(reg)
	return &HTTPRecorder{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Peticiones HTTP por ruta, método y código.",
		}, []string{"route", "method", "code"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Observe registra una petición terminada.
func (r *HTTPRecorder) Observe(route, method, code string, elapsed time.Duration) {
	r.requests.WithLabelValues(route, method, code).Inc()
	r.latency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
