// Package metrics exposes an Environment's counters to Prometheus.
package metrics

import (
	"github.com/on-the-ground/memo_ive_go/environment"
	"github.com/prometheus/client_golang/prometheus"
)

var _ prometheus.Collector = (*Collector)(nil)

// Collector reads Environment.Stats on every scrape. Environments are not safe
// for concurrent use, so scrape between evaluations or from the evaluating
// goroutine.
type Collector struct {
	env *environment.Environment

	resolves      *prometheus.Desc
	hits          *prometheus.Desc
	recomputes    *prometheus.Desc
	invalidations *prometheus.Desc
	writes        *prometheus.Desc
	skippedWrites *prometheus.Desc
	cached        *prometheus.Desc
}

// NewCollector describes env's metrics under namespace, labelled with env's ID.
func NewCollector(env *environment.Environment, namespace string) *Collector {
	labels := prometheus.Labels{"env": env.ID()}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "environment", name), help, nil, labels)
	}
	return &Collector{
		env:           env,
		resolves:      desc("resolves_total", "Computations requested, cycles excluded"),
		hits:          desc("cache_hits_total", "Requests served from the cache"),
		recomputes:    desc("recomputes_total", "Computation bodies run"),
		invalidations: desc("invalidations_total", "Cached entries dropped by invalidation"),
		writes:        desc("writes_total", "Writes that stored a changed value"),
		skippedWrites: desc("skipped_writes_total", "Writes of a value equal to the cached one"),
		cached:        desc("cached_entries", "Entries currently held by the store"),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.resolves
	ch <- c.hits
	ch <- c.recomputes
	ch <- c.invalidations
	ch <- c.writes
	ch <- c.skippedWrites
	ch <- c.cached
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.env.Stats()
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	counter(c.resolves, s.Resolves)
	counter(c.hits, s.Hits)
	counter(c.recomputes, s.Recomputes)
	counter(c.invalidations, s.Invalidations)
	counter(c.writes, s.Writes)
	counter(c.skippedWrites, s.SkippedWrites)

	// stores that cannot count report nothing
	if sizer, ok := c.env.Store().(environment.Sizer); ok {
		ch <- prometheus.MustNewConstMetric(c.cached, prometheus.GaugeValue, float64(sizer.Len()))
	}
}
