package registry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/eavstore/internal/edb"
)

// statsCollector exports per-store gauges read at collection time plus an
// insert counter fed by each store's delta listener.
//
// Metrics:
//   - eavstore_store_size{store} - absent->present transitions (edb Size)
//   - eavstore_store_live_facts{store} - facts currently present (edb Live)
//   - eavstore_store_includes{store} - number of direct includes
//   - eavstore_inserts_total{store,kind} - effective inserts by kind
//     ("assert" for positive deltas, "retract" for negative)
//
// Collect reads store state without locking; do not gather while another
// goroutine inserts.
type statsCollector struct {
	reg *Registry

	size     *prometheus.Desc
	live     *prometheus.Desc
	includes *prometheus.Desc
	inserts  *prometheus.CounterVec
}

func newStatsCollector(r *Registry) *statsCollector {
	return &statsCollector{
		reg: r,
		size: prometheus.NewDesc(
			"eavstore_store_size",
			"Number of absent to present fact transitions in the store",
			[]string{"store"}, nil,
		),
		live: prometheus.NewDesc(
			"eavstore_store_live_facts",
			"Number of facts currently present in the store",
			[]string{"store"}, nil,
		),
		includes: prometheus.NewDesc(
			"eavstore_store_includes",
			"Number of stores directly included by the store",
			[]string{"store"}, nil,
		),
		inserts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eavstore_inserts_total",
				Help: "Total number of effective inserts applied to the store",
			},
			[]string{"store", "kind"}, // kind: "assert" or "retract"
		),
	}
}

// observe returns the delta listener registered on each created store.
func (c *statsCollector) observe(name string) edb.Listener {
	asserts := c.inserts.WithLabelValues(name, "assert")
	retracts := c.inserts.WithLabelValues(name, "retract")
	return func(f edb.Fact) {
		switch {
		case f.M > 0:
			asserts.Inc()
		case f.M < 0:
			retracts.Inc()
		}
	}
}

// Describe implements prometheus.Collector.
func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.live
	ch <- c.includes
	c.inserts.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	for _, name := range c.reg.Names() {
		b, err := c.reg.Get(name)
		if err != nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(b.Size()), name)
		ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(b.Live()), name)
		ch <- prometheus.MustNewConstMetric(c.includes, prometheus.GaugeValue, float64(len(b.Includes())), name)
	}
	c.inserts.Collect(ch)
}

// Collector returns the registry's prometheus collector.
// Register it once per prometheus.Registerer.
func (r *Registry) Collector() prometheus.Collector {
	return r.stats
}
