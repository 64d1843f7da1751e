package observability

import (
	"context"

	"github.com/aretw0/dynroutes/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors fed by the routing passes.
type Metrics struct {
	Reconciles  *prometheus.CounterVec
	Shuffles    prometheus.Counter
	Reentrancy  *prometheus.CounterVec
	PaletteMiss *prometheus.CounterVec
	MovedRoutes prometheus.Histogram
	ActivePorts *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		Reconciles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dynroutes_reconciles_total",
			Help: "Completed reconcile passes, by inferred type",
		}, []string{"type"}),
		Shuffles: f.NewCounter(prometheus.CounterOpts{
			Name: "dynroutes_shuffles_total",
			Help: "Completed shuffle passes",
		}),
		Reentrancy: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dynroutes_reentrant_calls_total",
			Help: "Pass requests ignored because a pass was already running on the node",
		}, []string{"pass"}),
		PaletteMiss: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dynroutes_palette_misses_total",
			Help: "Link coloring skipped because the palette had no entry for the type",
		}, []string{"type"}),
		MovedRoutes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dynroutes_shuffle_moved_routes",
			Help:    "Number of inputs whose upstream changed in a shuffle",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		}),
		ActivePorts: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dynroutes_node_ports",
			Help: "Port counts of the last reconciled node",
		}, []string{"direction"}),
	}
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReconcile: func(_ context.Context, e *domain.ReconcileEvent) {
			m.Reconciles.WithLabelValues(string(e.Type)).Inc()
			m.ActivePorts.WithLabelValues("input").Set(float64(e.Inputs))
			m.ActivePorts.WithLabelValues("output").Set(float64(e.Outputs))
		},
		OnShuffle: func(_ context.Context, e *domain.ShuffleEvent) {
			m.Shuffles.Inc()
			moved := 0
			if d := domain.DiffRoutes(e.NodeID, e.Before, e.After); d != nil {
				moved = len(d.Moved)
			}
			m.MovedRoutes.Observe(float64(moved))
		},
		OnReentrancy: func(_ context.Context, e *domain.EventBase) {
			m.Reentrancy.WithLabelValues(string(e.Pass)).Inc()
		},
		OnPaletteMiss: func(_ context.Context, e *domain.PaletteMissEvent) {
			m.PaletteMiss.WithLabelValues(string(e.Type)).Inc()
		},
	}
}
