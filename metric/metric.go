// Package metric provides Prometheus instrumentation for the
// conversion pipeline.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline counters. All methods are safe on a nil
// receiver so instrumentation stays optional.
type Metrics struct {
	registry *prometheus.Registry

	rowsTotal        prometheus.Counter
	rowsSkipped      prometheus.Counter
	nodesWritten     prometheus.Counter
	documentsWritten prometheus.Counter
	filesFailed      prometheus.Counter
}

// New creates a metrics set backed by its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cpdbld_rows_total",
			Help: "Input rows consumed, including skipped rows.",
		}),
		rowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cpdbld_rows_skipped_total",
			Help: "Input rows rejected during node construction.",
		}),
		nodesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cpdbld_nodes_written_total",
			Help: "Nodes emitted to JSON-Lines output.",
		}),
		documentsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cpdbld_documents_written_total",
			Help: "Packaged JSON-LD documents written.",
		}),
		filesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cpdbld_files_failed_total",
			Help: "Source files whose conversion failed.",
		}),
	}

	m.registry.MustRegister(
		m.rowsTotal,
		m.rowsSkipped,
		m.nodesWritten,
		m.documentsWritten,
		m.filesFailed,
	)
	return m
}

// RowConsumed records one input row.
func (m *Metrics) RowConsumed() {
	if m == nil {
		return
	}
	m.rowsTotal.Inc()
}

// RowSkipped records one rejected row.
func (m *Metrics) RowSkipped() {
	if m == nil {
		return
	}
	m.rowsSkipped.Inc()
}

// NodeWritten records one emitted node.
func (m *Metrics) NodeWritten() {
	if m == nil {
		return
	}
	m.nodesWritten.Inc()
}

// DocumentsWritten records n packaged documents.
func (m *Metrics) DocumentsWritten(n int) {
	if m == nil {
		return
	}
	m.documentsWritten.Add(float64(n))
}

// FileFailed records one failed source file.
func (m *Metrics) FileFailed() {
	if m == nil {
		return
	}
	m.filesFailed.Inc()
}

// Handler returns an HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
