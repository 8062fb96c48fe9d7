package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StatsSource reports the current size of the quote collection.
type StatsSource interface {
	Stats() (quotes, categories int)
}

// LibraryCollector exports collection gauges on every scrape.
type LibraryCollector struct {
	source     StatsSource
	quotes     *prometheus.Desc
	categories *prometheus.Desc
}

var _ prometheus.Collector = (*LibraryCollector)(nil)

// NewLibraryCollector creates a collector reading from source.
func NewLibraryCollector(namespace string, source StatsSource) *LibraryCollector {
	return &LibraryCollector{
		source: source,
		quotes: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "library", "quotes"),
			"Number of quotes in the collection.",
			nil, nil,
		),
		categories: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "library", "categories"),
			"Number of distinct categories in the collection.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *LibraryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.quotes
	ch <- c.categories
}

// Collect implements prometheus.Collector.
func (c *LibraryCollector) Collect(ch chan<- prometheus.Metric) {
	quotes, categories := c.source.Stats()

	ch <- prometheus.MustNewConstMetric(c.quotes, prometheus.GaugeValue, float64(quotes))
	ch <- prometheus.MustNewConstMetric(c.categories, prometheus.GaugeValue, float64(categories))
}
