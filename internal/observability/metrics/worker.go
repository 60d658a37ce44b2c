package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avolkov/docsummary/internal/core/domain"
)

// WorkerMetrics tracks pipeline runs and per-chunk outcomes for the
// summarization worker.
type WorkerMetrics struct {
	registry *prometheus.Registry

	runTotal      *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	runInFlight   prometheus.Gauge
	chunkOutcomes *prometheus.CounterVec
	chunksPerDoc  *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	runTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsummary",
			Subsystem: "worker",
			Name:      "pipeline_runs_total",
			Help:      "Total pipeline runs by terminal status.",
		},
		[]string{"service", "status"},
	)
	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docsummary",
			Subsystem: "worker",
			Name:      "pipeline_run_duration_seconds",
			Help:      "Pipeline run duration in seconds by terminal status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service", "status"},
	)
	runInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docsummary",
			Subsystem: "worker",
			Name:      "pipeline_runs_in_flight",
			Help:      "Number of in-flight pipeline runs.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	chunkOutcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsummary",
			Subsystem: "worker",
			Name:      "chunk_outcomes_total",
			Help:      "Total classified chunk outcomes.",
		},
		[]string{"service", "outcome"},
	)
	chunksPerDoc := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docsummary",
			Subsystem: "worker",
			Name:      "chunks_per_document",
			Help:      "Number of chunks a document was split into.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"service"},
	)

	registry.MustRegister(runTotal, runDuration, runInFlight, chunkOutcomes, chunksPerDoc)

	return &WorkerMetrics{
		registry:      registry,
		runTotal:      runTotal,
		runDuration:   runDuration,
		runInFlight:   runInFlight,
		chunkOutcomes: chunkOutcomes,
		chunksPerDoc:  chunksPerDoc,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartRun() {
	m.runInFlight.Inc()
}

func (m *WorkerMetrics) FinishRun(service string, duration time.Duration, err error) {
	m.runInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.runTotal.WithLabelValues(service, status).Inc()
	m.runDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveChunk(service string, p domain.ChunkProgress) {
	m.chunkOutcomes.WithLabelValues(service, string(p.Outcome)).Inc()
	if p.Index == p.Total {
		m.chunksPerDoc.WithLabelValues(service).Observe(float64(p.Total))
	}
}
