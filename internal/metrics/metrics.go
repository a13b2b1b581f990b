// Package metrics exports component lifecycle counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "canopy"

// Collector implements bind.Metrics. Every series is labelled by component
// name.
type Collector struct {
	mounts          *prometheus.CounterVec
	mountsSkipped   *prometheus.CounterVec
	updates         *prometheus.CounterVec
	propertyWrites  *prometheus.CounterVec
	readonlyDropped *prometheus.CounterVec
	unmounts        *prometheus.CounterVec
	eventBindings   *prometheus.GaugeVec
}

// New registers the collector's series with reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	counter := func(name, help string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bind",
			Name:      name,
			Help:      help,
		}, []string{"component"})
	}
	return &Collector{
		mounts:          counter("mounts_total", "Component instances mounted."),
		mountsSkipped:   counter("mounts_skipped_total", "Mounts skipped for a missing context value or a failed create."),
		updates:         counter("updates_total", "Component instance updates."),
		propertyWrites:  counter("property_writes_total", "Native property writes applied by the reconciler."),
		readonlyDropped: counter("readonly_dropped_total", "Changes to construction-only props that were dropped."),
		unmounts:        counter("unmounts_total", "Component instances unmounted."),
		eventBindings: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "bind",
			Name:      "event_bindings",
			Help:      "Live event subscriptions.",
		}, []string{"component"}),
	}
}

func (c *Collector) Mounted(component string) {
	c.mounts.WithLabelValues(component).Inc()
}

func (c *Collector) MountSkipped(component string) {
	c.mountsSkipped.WithLabelValues(component).Inc()
}

func (c *Collector) Updated(component string) {
	c.updates.WithLabelValues(component).Inc()
}

func (c *Collector) PropertyWrites(component string, n int) {
	c.propertyWrites.WithLabelValues(component).Add(float64(n))
}

func (c *Collector) ReadonlyDropped(component string, n int) {
	c.readonlyDropped.WithLabelValues(component).Add(float64(n))
}

func (c *Collector) Unmounted(component string) {
	c.unmounts.WithLabelValues(component).Inc()
}

// EventBindings moves the live subscription gauge by delta.
func (c *Collector) EventBindings(component string, delta int) {
	c.eventBindings.WithLabelValues(component).Add(float64(delta))
}
