package alignmentwriter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsCollector records pack/unpack/block metrics against a
// prometheus.Registerer, for processes that expose a /metrics endpoint.
type PrometheusMetricsCollector struct {
	packDuration   prometheus.Histogram
	packErrors     prometheus.Counter
	unpackDuration prometheus.Histogram
	unpackErrors   prometheus.Counter
	blockDuration  prometheus.Histogram
	blockHits      prometheus.Counter
}

// NewPrometheusMetricsCollector registers its metrics with reg and returns
// a MetricsCollector backed by them. Pass prometheus.DefaultRegisterer to
// use the global registry.
func NewPrometheusMetricsCollector(reg prometheus.Registerer) *PrometheusMetricsCollector {
	c := &PrometheusMetricsCollector{
		packDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "alignmentwriter_pack_duration_seconds",
			Help: "Duration of pack operations.",
		}),
		packErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alignmentwriter_pack_errors_total",
			Help: "Count of pack operations that ended in a fatal error.",
		}),
		unpackDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "alignmentwriter_unpack_duration_seconds",
			Help: "Duration of unpack operations.",
		}),
		unpackErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alignmentwriter_unpack_errors_total",
			Help: "Count of unpack operations that ended in a fatal error.",
		}),
		blockDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "alignmentwriter_block_duration_seconds",
			Help: "Duration of individual block flush operations.",
		}),
		blockHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alignmentwriter_block_hits_total",
			Help: "Count of bitmap hits contributed across all blocks.",
		}),
	}
	reg.MustRegister(c.packDuration, c.packErrors, c.unpackDuration, c.unpackErrors, c.blockDuration, c.blockHits)
	return c
}

// RecordPack implements MetricsCollector.
func (c *PrometheusMetricsCollector) RecordPack(duration time.Duration, nBlocks int, err error) {
	c.packDuration.Observe(duration.Seconds())
	if err != nil {
		c.packErrors.Inc()
	}
}

// RecordUnpack implements MetricsCollector.
func (c *PrometheusMetricsCollector) RecordUnpack(duration time.Duration, nBlocks int, err error) {
	c.unpackDuration.Observe(duration.Seconds())
	if err != nil {
		c.unpackErrors.Inc()
	}
}

// RecordBlock implements MetricsCollector.
func (c *PrometheusMetricsCollector) RecordBlock(duration time.Duration, nHits int) {
	c.blockDuration.Observe(duration.Seconds())
	c.blockHits.Add(float64(nHits))
}
