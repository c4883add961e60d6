// Package metrics exposes virtualization counters for Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gridvirt"

type Metrics struct {
	Realized      *prometheus.CounterVec
	Unrealized    *prometheus.CounterVec
	PoolAcquired  *prometheus.CounterVec
	RowsGenerated *prometheus.CounterVec
	Scrolls       *prometheus.CounterVec
	Recoveries    prometheus.Counter

	EstimatedRowHeight prometheus.Gauge
	ExtentHeight       prometheus.Gauge
	Displayed          prometheus.Gauge
}

// New registers the grid metrics with reg. Use one registry per grid, or
// prometheus.DefaultRegisterer for a single grid per process.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Realized: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "elements_realized_total",
			Help:      "Elements added to the display window, by kind.",
		}, []string{"kind"}),
		Unrealized: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "elements_unrealized_total",
			Help:      "Elements removed from the display window, by kind.",
		}, []string{"kind"}),
		PoolAcquired: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_acquired_total",
			Help:      "Elements handed back by the recycle pools, by kind and tier.",
		}, []string{"kind", "tier"}),
		RowsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_generated_total",
			Help:      "Rows bound to a data item, by where the row instance came from.",
		}, []string{"source"}),
		Scrolls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrolls_total",
			Help:      "Scroll requests, by estimate path.",
		}, []string{"path"}),
		Recoveries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "window_recoveries_total",
			Help:      "Times the display window was rebuilt from a safe slot.",
		}),
		EstimatedRowHeight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "estimated_row_height",
			Help:      "Current estimate for unmeasured data rows.",
		}),
		ExtentHeight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "extent_height",
			Help:      "Estimated total height of all visible slots.",
		}),
		Displayed: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "displayed_elements",
			Help:      "Elements currently in the display window.",
		}),
	}
}

// Nop returns metrics registered with a private registry nobody scrapes.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
