// Package metrics exports structus lifecycle events as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/reoring/structus"
)

// Collector is a structus.Observer backed by Prometheus counters.
type Collector struct {
	MembersDeclared      *prometheus.CounterVec
	InstancesConstructed *prometheus.CounterVec
	Rejections           *prometheus.CounterVec
}

var _ structus.Observer = (*Collector)(nil)

// New creates a collector registered with the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector registered with reg.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		MembersDeclared: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "structus",
				Name:      "members_declared_total",
				Help:      "Total number of members declared",
			},
			[]string{"schema"},
		),
		InstancesConstructed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "structus",
				Name:      "instances_constructed_total",
				Help:      "Total number of instances constructed",
			},
			[]string{"schema"},
		),
		Rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "structus",
				Name:      "rejections_total",
				Help:      "Total number of rejected member reads and writes",
			},
			[]string{"schema", "member", "code"},
		),
	}
}

// Declared implements structus.Observer.
func (c *Collector) Declared(schema, _ string) {
	c.MembersDeclared.WithLabelValues(schema).Inc()
}

// Constructed implements structus.Observer.
func (c *Collector) Constructed(schema string) {
	c.InstancesConstructed.WithLabelValues(schema).Inc()
}

// Rejected implements structus.Observer.
func (c *Collector) Rejected(schema, member, code string) {
	c.Rejections.WithLabelValues(schema, member, code).Inc()
}
