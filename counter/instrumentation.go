package counter

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 指标标签
const (
	labelStore  = "store"
	labelMethod = "method"
	labelKind   = "kind"
)

// StoreMetrics holds the prometheus collectors of the store operations
type StoreMetrics struct {
	Ops     *prometheus.CounterVec
	Errors  *prometheus.CounterVec
	Latency *prometheus.HistogramVec
}

// NewStoreMetrics create StoreMetrics and register them to registerer,
// a nil registerer leaves them unregistered
func NewStoreMetrics(namespace string, registerer prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "op_count",
			Help:      "Number of operations performed",
		}, []string{labelStore, labelMethod}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "err_count",
			Help:      "Number of failed operations",
		}, []string{labelStore, labelMethod, labelKind}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "op_latency_seconds",
			Help:      "Distribution of operation latency in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{labelStore, labelMethod}),
	}
	if registerer != nil {
		registerer.MustRegister(m.Ops, m.Errors, m.Latency)
	}
	return m
}

type instrumentStore struct {
	store   string
	metrics *StoreMetrics
	next    Store
}

// InstrumentStoreMiddleware observes the operations of the next Store
func InstrumentStoreMiddleware(store string, metrics *StoreMetrics) StoreMiddleware {
	return func(next Store) Store {
		return &instrumentStore{store: store, metrics: metrics, next: next}
	}
}

func (s *instrumentStore) Incr(ctx context.Context, key, field string) (n int64, err error) {
	defer func(begin time.Time) {
		s.track("Incr", begin, err)
	}(time.Now())

	return s.next.Incr(ctx, key, field)
}

func (s *instrumentStore) GetOrInit(ctx context.Context, key, field string, def int64) (n int64, err error) {
	defer func(begin time.Time) {
		s.track("GetOrInit", begin, err)
	}(time.Now())

	return s.next.GetOrInit(ctx, key, field, def)
}

func (s *instrumentStore) track(method string, begin time.Time, err error) {
	if err != nil {
		s.metrics.Errors.WithLabelValues(s.store, method, ErrorKind(err)).Inc()
	}
	s.metrics.Ops.WithLabelValues(s.store, method).Inc()
	s.metrics.Latency.WithLabelValues(s.store, method).Observe(time.Since(begin).Seconds())
}
