// Package telemetry registers the meta-index daemon's Prometheus metrics,
// mirroring the teacher's kafkaotlpforwarder.Metrics: one struct holding
// every metric, built and registered together by a single constructor.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the daemon's Prometheus instruments.
type Metrics struct {
	LookupsTotal     prometheus.Counter
	LookupCandidates prometheus.Histogram
	LookupSeconds    prometheus.Histogram
	MergesTotal      prometheus.Counter
	ErasesTotal      prometheus.Counter
	PartitionsGauge  prometheus.Gauge
	MemoryBytesGauge prometheus.Gauge
}

// NewMetrics creates and registers every metric on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	lookupsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vast_metaindex_lookups_total",
		Help: "Total number of Lookup calls served.",
	})
	lookupCandidates := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "vast_metaindex_lookup_candidates",
		Help:    "Number of candidate partitions returned per Lookup call.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	lookupSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "vast_metaindex_lookup_seconds",
		Help:    "Wall-clock duration of Lookup calls.",
		Buckets: prometheus.DefBuckets,
	})
	mergesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vast_metaindex_merges_total",
		Help: "Total number of partition synopses merged into the index.",
	})
	erasesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vast_metaindex_erases_total",
		Help: "Total number of partitions erased from the index.",
	})
	partitionsGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vast_metaindex_partitions",
		Help: "Current number of partitions tracked by the index.",
	})
	memoryBytesGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vast_metaindex_memory_bytes",
		Help: "Approximate in-memory footprint of all synopses.",
	})

	reg.MustRegister(lookupsTotal, lookupCandidates, lookupSeconds, mergesTotal, erasesTotal, partitionsGauge, memoryBytesGauge)

	return &Metrics{
		LookupsTotal:     lookupsTotal,
		LookupCandidates: lookupCandidates,
		LookupSeconds:    lookupSeconds,
		MergesTotal:      mergesTotal,
		ErasesTotal:      erasesTotal,
		PartitionsGauge:  partitionsGauge,
		MemoryBytesGauge: memoryBytesGauge,
	}
}
