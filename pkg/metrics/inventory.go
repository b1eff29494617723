package metrics

import "github.com/prometheus/client_golang/prometheus"

// Decrement outcomes recorded by InventoryMetrics.
const (
	OutcomeApplied      = "applied"
	OutcomeInsufficient = "insufficient"
	OutcomeNotFound     = "not_found"
)

// InventoryMetrics records stock movements performed by the inventory ledger.
type InventoryMetrics struct {
	decrements *prometheus.CounterVec
	taken      prometheus.Counter
	released   prometheus.Counter
}

// NewInventoryMetrics registers the inventory metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	decrements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_decrements_total",
		Help: "Conditional stock decrements by outcome.",
	}, []string{"outcome"})
	taken := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_units_decremented_total",
		Help: "Stock units taken by orders.",
	})
	released := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_units_released_total",
		Help: "Stock units credited back to products.",
	})
	reg.MustRegister(decrements, taken, released)
	return &InventoryMetrics{
		decrements: decrements,
		taken:      taken,
		released:   released,
	}
}

// ObserveDecrement counts one decrement attempt; units only count when applied.
func (m *InventoryMetrics) ObserveDecrement(outcome string, units int) {
	if m == nil || m.decrements == nil {
		return
	}
	m.decrements.WithLabelValues(normalizeLabel(outcome)).Inc()
	if outcome == OutcomeApplied && units > 0 {
		m.taken.Add(float64(units))
	}
}

// ObserveRelease counts units credited back to stock.
func (m *InventoryMetrics) ObserveRelease(units int) {
	if m == nil || m.released == nil || units <= 0 {
		return
	}
	m.released.Add(float64(units))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
