package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ejfox/dispatch-obsidian/internal/structures"
)

// StatsSourceInterface feeds the live gauges. Implemented on the services
// side so this package stays import-cycle free.
type StatsSourceInterface interface {
	QueueSize() int
	WritingStreakDays() int
	PublishStreakWeeks() int
	StatusFresh() bool
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncPollsTotal(result string)
	IncPublishesDetected()
	IncCelebrations()
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	pollsTotal          *prometheus.CounterVec
	publishesDetected   prometheus.Counter
	celebrations        prometheus.Counter
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPollsTotal(result string) {
	m.pollsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) IncPublishesDetected() {
	m.publishesDetected.Inc()
}

func (m *MetricsProvider) IncCelebrations() {
	m.celebrations.Inc()
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
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

func NewMetricsProvider(conf *structures.Config, source StatsSourceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dispatch_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		pollsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_status_polls_total",
			Help: "Status file poll attempts by result",
		}, []string{"result"}),

		publishesDetected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_publishes_detected_total",
			Help: "Publishes detected via last_publish changes",
		}),

		celebrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_celebrations_total",
			Help: "Word-count milestone celebrations fired",
		}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_cache_hits_total",
			Help: "Response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_cache_misses_total",
			Help: "Response cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dispatch_queue_ready_total",
		Help: "Current number of posts marked ready",
	}, func() float64 {
		return float64(source.QueueSize())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dispatch_writing_streak_days",
		Help: "Current consecutive writing-day streak",
	}, func() float64 {
		return float64(source.WritingStreakDays())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dispatch_publish_streak_weeks",
		Help: "Current consecutive publish-week streak",
	}, func() float64 {
		return float64(source.PublishStreakWeeks())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dispatch_status_fresh",
		Help: "Whether the external status snapshot is fresh (1) or not (0)",
	}, func() float64 {
		if source.StatusFresh() {
			return 1
		}
		return 0
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncPollsTotal(_ string)                           {}
func (n *noopMetrics) IncPublishesDetected()                            {}
func (n *noopMetrics) IncCelebrations()                                 {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
