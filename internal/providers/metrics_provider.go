package providers

import (
	"time"

	"github.com/KanoeWallet/Kanoe/internal/structures"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StateSourceInterface exposes the engine counters sampled by the state gauges.
type StateSourceInterface interface {
	PlansCount() int
	LedgerRevision() uint64
	GetMaxPaymentId() uint64
	StateVersion() uint64
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(family string)
	IncCacheMisses(family string)
	ObservePersistenceDuration(duration time.Duration)
	SetSnapshotSize(bytes int)
	IncOperationsTotal(operation, outcome string)
	ObserveOperationDuration(operation string, duration time.Duration)
	RegisterStateGauges(source StateSourceInterface)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	snapshotSize        prometheus.Gauge
	operationsTotal     *prometheus.CounterVec
	operationDuration   *prometheus.HistogramVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(family string) {
	m.cacheHits.WithLabelValues(family).Inc()
}

func (m *MetricsProvider) IncCacheMisses(family string) {
	m.cacheMisses.WithLabelValues(family).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetSnapshotSize(bytes int) {
	m.snapshotSize.Set(float64(bytes))
}

func (m *MetricsProvider) IncOperationsTotal(operation, outcome string) {
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *MetricsProvider) ObserveOperationDuration(operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *MetricsProvider) RegisterStateGauges(source StateSourceInterface) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "kanoe_plans_total",
		Help: "Number of plans in the catalog",
	}, func() float64 {
		return float64(source.PlansCount())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "kanoe_ledger_revision",
		Help: "Latest subscription ledger revision",
	}, func() float64 {
		return float64(source.LedgerRevision())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "kanoe_escrow_max_payment_id",
		Help: "Highest recorded escrow payment id",
	}, func() float64 {
		return float64(source.GetMaxPaymentId())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "kanoe_state_version",
		Help: "Number of committed state changes since start",
	}, func() float64 {
		return float64(source.StateVersion())
	})
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

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kanoe_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kanoe_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kanoe_cache_hits_total",
			Help: "Read cache hits by key family",
		}, []string{"family"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kanoe_cache_misses_total",
			Help: "Read cache misses by key family",
		}, []string{"family"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kanoe_persistence_duration_seconds",
			Help:    "Duration of snapshot writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		snapshotSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "kanoe_snapshot_bytes",
			Help: "Compressed size of the last written snapshot",
		}),

		operationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kanoe_operations_total",
			Help: "Mutating operations by outcome",
		}, []string{"operation", "outcome"}),

		operationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kanoe_operation_duration_seconds",
			Help:    "Mutating operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                   {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)   {}
func (n *noopMetrics) IncCacheHits(_ string)                              {}
func (n *noopMetrics) IncCacheMisses(_ string)                            {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)         {}
func (n *noopMetrics) SetSnapshotSize(_ int)                              {}
func (n *noopMetrics) IncOperationsTotal(_, _ string)                     {}
func (n *noopMetrics) ObserveOperationDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) RegisterStateGauges(_ StateSourceInterface)         {}
