// Package metrics provides Prometheus metrics for address routing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "oscroute"

// Collector holds the routing metrics. It implements oscaddr.Observer.
type Collector struct {
	// Dispatch metrics
	RoutedTotal      *prometheus.CounterVec
	FallThroughTotal *prometheus.CounterVec
	UnmatchedTotal   prometheus.Counter
	MalformedTotal   prometheus.Counter

	// Table metrics
	Routes        prometheus.Gauge
	Reloads       prometheus.Counter
	ReloadErrors  prometheus.Counter
	LastReloadSec prometheus.Gauge
}

// NewWithRegistry creates a Collector registered with reg.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		RoutedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "routed_total",
				Help:      "Total number of addresses routed, by route",
			},
			[]string{"route"},
		),
		FallThroughTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fall_through_total",
				Help:      "Total number of routes skipped because a capture did not convert",
			},
			[]string{"route"},
		),
		UnmatchedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unmatched_total",
				Help:      "Total number of addresses that matched no route",
			},
		),
		MalformedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "malformed_total",
				Help:      "Total number of malformed addresses",
			},
		),

		Routes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "routes",
				Help:      "Number of routes in the active table",
			},
		),
		Reloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "table_reloads_total",
				Help:      "Total number of successful route table reloads",
			},
		),
		ReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "table_reload_errors_total",
				Help:      "Total number of failed route table reloads",
			},
		),
		LastReloadSec: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "table_last_reload_timestamp_seconds",
				Help:      "Unix time of the last successful route table load",
			},
		),
	}
}

// Routed implements oscaddr.Observer.
func (c *Collector) Routed(route string) {
	c.RoutedTotal.WithLabelValues(route).Inc()
}

// FellThrough implements oscaddr.Observer.
func (c *Collector) FellThrough(route string) {
	c.FallThroughTotal.WithLabelValues(route).Inc()
}

// Unmatched implements oscaddr.Observer.
func (c *Collector) Unmatched() {
	c.UnmatchedTotal.Inc()
}

// Malformed implements oscaddr.Observer.
func (c *Collector) Malformed() {
	c.MalformedTotal.Inc()
}

// TableLoaded records a successful table (re)load with n routes.
func (c *Collector) TableLoaded(n int, reload bool) {
	c.Routes.Set(float64(n))
	c.LastReloadSec.SetToCurrentTime()
	if reload {
		c.Reloads.Inc()
	}
}

// TableLoadFailed records a failed reload.
func (c *Collector) TableLoadFailed() {
	c.ReloadErrors.Inc()
}
