package catalog

import "github.com/prometheus/client_golang/prometheus"

// Collector exports storage and cache gauges of a Store.
type Collector struct {
	s *Store

	compactions   *prometheus.Desc
	memtableSize  *prometheus.Desc
	walSize       *prometheus.Desc
	cachedRecords *prometheus.Desc
}

// Collector returns a prometheus.Collector for s.
func (s *Store) Collector() *Collector {
	return &Collector{
		s: s,
		compactions: prometheus.NewDesc(
			"otlresolve_catalog_compactions_total",
			"Total number of compactions performed by the catalog store",
			nil, nil,
		),
		memtableSize: prometheus.NewDesc(
			"otlresolve_catalog_memtable_size_bytes",
			"Current size of the catalog memtables",
			nil, nil,
		),
		walSize: prometheus.NewDesc(
			"otlresolve_catalog_wal_size_bytes",
			"Current size of the catalog write-ahead log",
			nil, nil,
		),
		cachedRecords: prometheus.NewDesc(
			"otlresolve_catalog_cached_records",
			"Decoded records held in the catalog cache",
			[]string{"kind"}, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.compactions
	ch <- c.memtableSize
	ch <- c.walSize
	ch <- c.cachedRecords
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.s.db.Metrics()

	ch <- prometheus.MustNewConstMetric(c.compactions, prometheus.CounterValue, float64(m.Compact.Count))
	ch <- prometheus.MustNewConstMetric(c.memtableSize, prometheus.GaugeValue, float64(m.MemTable.Size))
	ch <- prometheus.MustNewConstMetric(c.walSize, prometheus.GaugeValue, float64(m.WAL.Size))
	ch <- prometheus.MustNewConstMetric(c.cachedRecords, prometheus.GaugeValue, float64(c.s.datamodels.Len()), "datamodel")
	ch <- prometheus.MustNewConstMetric(c.cachedRecords, prometheus.GaugeValue, float64(c.s.jobs.Len()), "job")
}
