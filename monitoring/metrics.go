package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sarchlab/tracktime/analysis"
	"github.com/sarchlab/tracktime/recording"
)

// storeCollector exposes the per-label statistics of a store as Prometheus
// gauges. The store is summarized on every scrape.
type storeCollector struct {
	store *recording.Store

	totalSeconds *prometheus.Desc
	busySeconds  *prometheus.Desc
	sliceCount   *prometheus.Desc
}

func newStoreCollector(store *recording.Store) *storeCollector {
	return &storeCollector{
		store: store,
		totalSeconds: prometheus.NewDesc(
			"tracktime_label_total_seconds",
			"Summed duration of the slices recorded under the label. "+
				"Overlapping slices are added together.",
			[]string{"label"}, nil,
		),
		busySeconds: prometheus.NewDesc(
			"tracktime_label_busy_seconds",
			"Unioned duration of the slices recorded under the label. "+
				"Overlapped stretches count once.",
			[]string{"label"}, nil,
		),
		sliceCount: prometheus.NewDesc(
			"tracktime_label_slice_count",
			"Number of slices recorded under the label.",
			[]string{"label"}, nil,
		),
	}
}

func (c *storeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalSeconds
	ch <- c.busySeconds
	ch <- c.sliceCount
}

func (c *storeCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.store.Snapshot()

	for _, s := range analysis.Summarize(snapshot) {
		ch <- prometheus.MustNewConstMetric(
			c.totalSeconds, prometheus.GaugeValue,
			s.TotalTime.Seconds(), s.Label)
		ch <- prometheus.MustNewConstMetric(
			c.busySeconds, prometheus.GaugeValue,
			analysis.BusyTime(snapshot[s.Label]).Seconds(), s.Label)
		ch <- prometheus.MustNewConstMetric(
			c.sliceCount, prometheus.GaugeValue,
			float64(s.Count), s.Label)
	}
}

func (m *Monitor) metricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if m.store != nil {
		registry.MustRegister(newStoreCollector(m.store))
	}

	return registry
}
