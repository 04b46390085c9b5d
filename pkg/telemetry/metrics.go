package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	CacheResultHit   = "hit"
	CacheResultMiss  = "miss"
	CacheResultStale = "stale"
	CacheResultError = "error"
)

// Metrics exposes Prometheus observability primitives for tax processing.
type Metrics struct {
	cacheLookups     *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	providerErrors   *prometheus.CounterVec
	journalRows      *prometheus.CounterVec
}

// NewMetrics registers tax metrics on reg. A nil registerer uses the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taxengine_tax_cache_lookups_total",
		Help: "Tax document cache lookups by result.",
	}, []string{"result"})

	providerDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taxengine_tax_provider_duration_seconds",
		Help:    "Tax provider call latency by provider and operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "operation"})

	providerErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taxengine_tax_provider_errors_total",
		Help: "Tax provider failures by provider and operation.",
	}, []string{"provider", "operation"})

	journalRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taxengine_tax_journal_rows_total",
		Help: "Tax journal rows written by journal and transaction type.",
	}, []string{"journal_type", "transaction_type"})

	reg.MustRegister(
		cacheLookups,
		providerDuration,
		providerErrors,
		journalRows,
	)

	return &Metrics{
		cacheLookups:     cacheLookups,
		providerDuration: providerDuration,
		providerErrors:   providerErrors,
		journalRows:      journalRows,
	}
}

// RecordCacheLookup counts one document cache lookup.
func (m *Metrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(sanitizeLabel(result)).Inc()
}

// ObserveProvider records a provider call and, when failed, its error.
func (m *Metrics) ObserveProvider(provider, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	providerLabel := sanitizeLabel(provider)
	operationLabel := sanitizeLabel(operation)
	m.providerDuration.WithLabelValues(providerLabel, operationLabel).Observe(duration.Seconds())
	if err != nil {
		m.providerErrors.WithLabelValues(providerLabel, operationLabel).Inc()
	}
}

func (m *Metrics) ObserveJournalRows(journalType, transactionType string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.journalRows.WithLabelValues(sanitizeLabel(journalType), sanitizeLabel(transactionType)).Add(float64(count))
}

func sanitizeLabel(val string) string {
	if val == "" {
		return "unknown"
	}
	return val
}
