package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordCacheLookup(CacheResultHit)
	m.RecordCacheLookup(CacheResultHit)
	m.RecordCacheLookup("")
	m.ObserveProvider("no-tax", "calculate", time.Millisecond, errors.New("boom"))
	m.ObserveJournalRows("PURCHASE", "ORDER", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues(CacheResultHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerErrors.WithLabelValues("no-tax", "calculate")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.journalRows.WithLabelValues("PURCHASE", "ORDER")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordCacheLookup(CacheResultMiss)
	m.ObserveProvider("p", "op", time.Second, nil)
	m.ObserveJournalRows("PURCHASE", "ORDER", 1)
}
