package memory

import "github.com/prometheus/client_golang/prometheus"

var _ prometheus.Collector = (*VersionCache)(nil)

var (
	entriesDesc = prometheus.NewDesc("statute_memory_cache_entries",
		"Entries held by the in-process version cache.", nil, nil)
	hitsDesc = prometheus.NewDesc("statute_memory_cache_hits_total",
		"In-process version cache hits.", nil, nil)
	missesDesc = prometheus.NewDesc("statute_memory_cache_misses_total",
		"In-process version cache misses, including expired entries.", nil, nil)
	evictionsDesc = prometheus.NewDesc("statute_memory_cache_evictions_total",
		"Entries evicted to stay within MaxEntries.", nil, nil)
)

// Describe implements prometheus.Collector
func (c *VersionCache) Describe(ch chan<- *prometheus.Desc) {
	ch <- entriesDesc
	ch <- hitsDesc
	ch <- missesDesc
	ch <- evictionsDesc
}

// Collect implements prometheus.Collector from a Stats snapshot
func (c *VersionCache) Collect(ch chan<- prometheus.Metric) {
	st := c.Stats()
	ch <- prometheus.MustNewConstMetric(entriesDesc, prometheus.GaugeValue, float64(st.Entries))
	ch <- prometheus.MustNewConstMetric(hitsDesc, prometheus.CounterValue, float64(st.Hits))
	ch <- prometheus.MustNewConstMetric(missesDesc, prometheus.CounterValue, float64(st.Misses))
	ch <- prometheus.MustNewConstMetric(evictionsDesc, prometheus.CounterValue, float64(st.Evictions))
}
