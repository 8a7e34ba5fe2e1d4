package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector records search engine metrics in Prometheus.
type Collector struct {
	queries    *prometheus.CounterVec
	operations *prometheus.CounterVec
	health     *prometheus.GaugeVec
}

// New creates a collector and registers its metrics with reg.
func New(namespace string, reg prometheus.Registerer) (*Collector, error) {
	if namespace == "" {
		namespace = "herosearch"
	}
	c := &Collector{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_queries_total",
				Help:      "Total number of search queries",
			},
			[]string{"engine", "status"},
		),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "index_operations_total",
				Help:      "Total number of index and document operations",
			},
			[]string{"engine", "operation"},
		),
		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "component_healthy",
				Help:      "Whether the component passed its last health check (1) or not (0)",
			},
			[]string{"component"},
		),
	}

	for _, m := range []prometheus.Collector{c.queries, c.operations, c.health} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SearchQuery counts a search by outcome.
func (c *Collector) SearchQuery(engine string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.queries.WithLabelValues(engine, status).Inc()
}

// SearchIndex counts an index or document operation.
func (c *Collector) SearchIndex(engine, operation string) {
	c.operations.WithLabelValues(engine, operation).Inc()
}

// HealthCheck records the outcome of a health check.
func (c *Collector) HealthCheck(component string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1
	}
	c.health.WithLabelValues(component).Set(v)
}
