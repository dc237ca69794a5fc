// Package metrics exposes the reader pool's and match cache's runtime
// counters as a prometheus.Collector: a small set of counter funcs are
// pulled on every Collect rather than pushed as the counters change, so
// registering the collector never adds a hot-path write.
//
// Wiring this collector is entirely optional; a Provider only creates
// one when uasig.WithMetrics is set, and nothing in the matcher or
// dataset layers depends on it existing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Sources supplies the live counters a Collector reports. Any nil func is
// reported as zero.
type Sources struct {
	ReadersCreated func() int64
	ReadersQueued  func() int64
	CacheRequests  func() int64
	CacheMisses    func() int64
	CacheSwitches  func() int64
}

// Collector adapts Sources into the prometheus.Collector interface.
type Collector struct {
	sources Sources

	readersCreated *prometheus.Desc
	readersQueued  *prometheus.Desc
	cacheRequests  *prometheus.Desc
	cacheMisses    *prometheus.Desc
	cacheSwitches  *prometheus.Desc
}

// NewCollector builds a Collector over sources.
func NewCollector(sources Sources) *Collector {
	return &Collector{
		sources: sources,
		readersCreated: prometheus.NewDesc(
			"uasig_reader_pool_readers_created_total",
			"Total number of source.Reader values allocated by the reader pool.",
			nil, nil,
		),
		readersQueued: prometheus.NewDesc(
			"uasig_reader_pool_readers_queued_total",
			"Total number of readers returned to the pool for reuse.",
			nil, nil,
		),
		cacheRequests: prometheus.NewDesc(
			"uasig_match_cache_requests_total",
			"Total number of match cache lookups.",
			nil, nil,
		),
		cacheMisses: prometheus.NewDesc(
			"uasig_match_cache_misses_total",
			"Total number of match cache lookups that found nothing.",
			nil, nil,
		),
		cacheSwitches: prometheus.NewDesc(
			"uasig_match_cache_generation_switches_total",
			"Total number of times the match cache rotated its active generation.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.readersCreated
	ch <- c.readersQueued
	ch <- c.cacheRequests
	ch <- c.cacheMisses
	ch <- c.cacheSwitches
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	emit := func(desc *prometheus.Desc, fn func() int64) {
		var v int64
		if fn != nil {
			v = fn()
		}
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v))
	}

	emit(c.readersCreated, c.sources.ReadersCreated)
	emit(c.readersQueued, c.sources.ReadersQueued)
	emit(c.cacheRequests, c.sources.CacheRequests)
	emit(c.cacheMisses, c.sources.CacheMisses)
	emit(c.cacheSwitches, c.sources.CacheSwitches)
}
