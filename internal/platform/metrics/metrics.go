package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tarantula"

// Metrics agrupa los collectors del servicio sobre un registry propio.
// Todos los métodos aceptan receiver nil (tests y CLI sin métricas).
type Metrics struct {
	registry *prometheus.Registry

	migrationRuns    *prometheus.CounterVec
	specimensCreated prometheus.Counter
	recordsLinked    *prometheus.CounterVec
	unresolved       prometheus.Counter
	copies           *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		migrationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "migration",
			Name:      "runs_total",
			Help:      "Specimen migration runs by outcome (migrated, noop, failed, skipped).",
		}, []string{"outcome"}),
		specimensCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "migration",
			Name:      "specimens_created_total",
			Help:      "Specimens created by the migration backfill.",
		}),
		recordsLinked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "migration",
			Name:      "records_linked_total",
			Help:      "Records that received a specimen reference, by store.",
		}, []string{"store"}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "migration",
			Name:      "unresolved_records_total",
			Help:      "Record slots left without a specimen after backfill.",
		}),
		copies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "specimen_copies_total",
			Help:      "Records cloned by cross-owner specimen copies, by store.",
		}, []string{"store"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.migrationRuns,
		m.specimensCreated,
		m.recordsLinked,
		m.unresolved,
		m.copies,
		m.httpRequests,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) MigrationRun(outcome string) {
	if m == nil {
		return
	}
	m.migrationRuns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SpecimensCreated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.specimensCreated.Add(float64(n))
}

func (m *Metrics) RecordsLinked(store string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.recordsLinked.WithLabelValues(store).Add(float64(n))
}

func (m *Metrics) UnresolvedRecords(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.unresolved.Add(float64(n))
}

func (m *Metrics) SpecimenCopied(store string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.copies.WithLabelValues(store).Add(float64(n))
}

func (m *Metrics) HTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
