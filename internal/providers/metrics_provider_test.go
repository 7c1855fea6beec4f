package providers

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"rvd/internal/structures"
)

// --- minimal mock for StatsSourceInterface ---

type metricsTestStats struct{}

func (m *metricsTestStats) ActiveReports() int      { return 3 }
func (m *metricsTestStats) SubscribedChannels() int { return 2 }
func (m *metricsTestStats) PendingRequests() int    { return 1 }

func swapRegistry(t *testing.T) {
	t.Helper()
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	})
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, &metricsTestStats{})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/reports", 200)
	m.ObserveRequestDuration("/reports", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncReportsIngested(true)
	m.IncVotes("valid")
	m.IncBroadcastSends("ok")
	m.IncResyncFailures()
	m.AddReportsPurged(3)
	m.ObservePersistenceDuration(time.Millisecond)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	swapRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestStats{})
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	swapRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestStats{})

	// These should not panic
	m.IncRequestsTotal("/reports", 200)
	m.IncRequestsTotal("/reports", 404)
	m.ObserveRequestDuration("/reports", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncReportsIngested(false)
	m.IncReportsIngested(true)
	m.IncVotes("valid")
	m.IncVotes("invalid")
	m.IncBroadcastSends("ok")
	m.IncBroadcastSends("error")
	m.IncResyncFailures()
	m.AddReportsPurged(2)
	m.ObservePersistenceDuration(100 * time.Millisecond)
}

func TestHttpStatusBucket(t *testing.T) {
	assert.Equal(t, "1xx", httpStatusBucket(101))
	assert.Equal(t, "2xx", httpStatusBucket(201))
	assert.Equal(t, "3xx", httpStatusBucket(304))
	assert.Equal(t, "4xx", httpStatusBucket(404))
	assert.Equal(t, "5xx", httpStatusBucket(503))
}
