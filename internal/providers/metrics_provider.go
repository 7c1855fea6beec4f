package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rvd/internal/structures"
)

// StatsSourceInterface feeds the gauge metrics. Implemented by the service
// layer so the provider stays free of store dependencies.
type StatsSourceInterface interface {
	ActiveReports() int
	SubscribedChannels() int
	PendingRequests() int
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncReportsIngested(deduplicated bool)
	IncVotes(verdict string)
	IncBroadcastSends(result string)
	IncResyncFailures()
	AddReportsPurged(count int)
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	reportsIngested     *prometheus.CounterVec
	votesTotal          *prometheus.CounterVec
	broadcastSends      *prometheus.CounterVec
	resyncFailures      prometheus.Counter
	reportsPurged       prometheus.Counter
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncReportsIngested(deduplicated bool) {
	outcome := "created"
	if deduplicated {
		outcome = "deduplicated"
	}
	m.reportsIngested.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncVotes(verdict string) {
	m.votesTotal.WithLabelValues(verdict).Inc()
}

func (m *MetricsProvider) IncBroadcastSends(result string) {
	m.broadcastSends.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) IncResyncFailures() {
	m.resyncFailures.Inc()
}

func (m *MetricsProvider) AddReportsPurged(count int) {
	m.reportsPurged.Add(float64(count))
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, src StatsSourceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rvd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rvd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rvd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rvd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		reportsIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rvd_reports_ingested_total",
			Help: "Location reports ingested, by dedup outcome",
		}, []string{"outcome"}),

		votesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rvd_votes_total",
			Help: "Vote transitions applied, by verdict",
		}, []string{"verdict"}),

		broadcastSends: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rvd_broadcast_sends_total",
			Help: "Broadcast fan-out sends, by result",
		}, []string{"result"}),

		resyncFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rvd_resync_failures_total",
			Help: "Per-copy resync edit failures",
		}),

		reportsPurged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rvd_reports_purged_total",
			Help: "Reports removed by the retention sweeper",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rvd_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rvd_reports_active",
		Help: "Reports currently tracked by the store",
	}, func() float64 {
		return float64(src.ActiveReports())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rvd_channels_total",
		Help: "Destinations subscribed to broadcasts",
	}, func() float64 {
		return float64(src.SubscribedChannels())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rvd_pending_requests",
		Help: "Subscription requests awaiting an owner decision",
	}, func() float64 {
		return float64(src.PendingRequests())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncReportsIngested(_ bool)                        {}
func (n *noopMetrics) IncVotes(_ string)                                {}
func (n *noopMetrics) IncBroadcastSends(_ string)                       {}
func (n *noopMetrics) IncResyncFailures()                               {}
func (n *noopMetrics) AddReportsPurged(_ int)                           {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
