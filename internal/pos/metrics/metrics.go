package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the POS module.
// Tracks writes, name conflicts and per-operation service latency.
type Metrics struct {
	PosCreated        prometheus.Counter
	PosUpdated        prometheus.Counter
	PosCleared        prometheus.Counter
	Conflicts         *prometheus.CounterVec
	StoreUnavailable  *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New creates a Metrics instance registered on reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PosCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "campuscoffee_pos_created_total",
			Help: "Total number of points of sale created",
		}),
		PosUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "campuscoffee_pos_updated_total",
			Help: "Total number of points of sale updated",
		}),
		PosCleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "campuscoffee_pos_cleared_total",
			Help: "Total number of clear operations",
		}),
		Conflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campuscoffee_pos_name_conflicts_total",
			Help: "Writes rejected because the name is already in use",
		}, []string{"operation"}),
		StoreUnavailable: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campuscoffee_pos_store_unavailable_total",
			Help: "Operations that failed because the store timed out or was unreachable",
		}, []string{"operation"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campuscoffee_pos_operation_duration_seconds",
			Help:    "Duration of POS service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementCreated() {
	if m == nil {
		return
	}
	m.PosCreated.Inc()
}

func (m *Metrics) IncrementUpdated() {
	if m == nil {
		return
	}
	m.PosUpdated.Inc()
}

func (m *Metrics) IncrementCleared() {
	if m == nil {
		return
	}
	m.PosCleared.Inc()
}

// IncrementConflict records a duplicate-name rejection for operation.
func (m *Metrics) IncrementConflict(operation string) {
	if m == nil {
		return
	}
	m.Conflicts.WithLabelValues(operation).Inc()
}

// IncrementStoreUnavailable records a store timeout seen by operation.
func (m *Metrics) IncrementStoreUnavailable(operation string) {
	if m == nil {
		return
	}
	m.StoreUnavailable.WithLabelValues(operation).Inc()
}

// ObserveOperation records how long operation took.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
