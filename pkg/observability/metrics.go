package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for index-level operations.
// Narrowed from the teacher's request/tenant/system metrics (no request
// router or multi-tenant namespace layer here) down to what the demo CLI
// records around index operations and what the query cache emits.
type Metrics struct {
	VectorsInserted prometheus.Counter
	VectorsSearched prometheus.Counter

	IndexSize     *prometheus.GaugeVec
	IndexMaxLayer *prometheus.GaugeVec

	SearchLatency    prometheus.Histogram
	SearchRecall     prometheus.Histogram
	SearchResultSize prometheus.Histogram

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	CacheSize   prometheus.Gauge
}

// NewMetrics registers a fresh set of collectors against reg and returns
// them. Each call registers into the given registerer exactly once; pass a
// dedicated prometheus.NewRegistry() per Metrics instance (as opposed to
// prometheus.DefaultRegisterer) to run more than one concurrently, e.g. in
// tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		VectorsInserted: factory.NewCounter(prometheus.CounterOpts{
			Name: "vecdb_vectors_inserted_total",
			Help: "Total number of vectors inserted across all indexes.",
		}),
		VectorsSearched: factory.NewCounter(prometheus.CounterOpts{
			Name: "vecdb_vectors_searched_total",
			Help: "Total number of search operations performed.",
		}),
		IndexSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vecdb_index_size",
			Help: "Number of vectors currently stored, by index name.",
		}, []string{"index"}),
		IndexMaxLayer: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vecdb_index_max_layer",
			Help: "Highest occupied graph layer, by index name (HNSW only).",
		}, []string{"index"}),
		SearchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vecdb_search_latency_seconds",
			Help:    "Search call latency in seconds.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		SearchRecall: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vecdb_search_recall",
			Help:    "Observed recall@k against a ground-truth set, where measured.",
			Buckets: []float64{.8, .85, .9, .92, .94, .95, .96, .97, .98, .99, 1.0},
		}),
		SearchResultSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vecdb_search_result_size",
			Help:    "Number of non-sentinel results returned by a search call.",
			Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "vecdb_cache_hits_total",
			Help: "Total number of query cache hits.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "vecdb_cache_misses_total",
			Help: "Total number of query cache misses.",
		}),
		CacheSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vecdb_cache_size",
			Help: "Current number of entries held in the query cache.",
		}),
	}
}

// RecordInsert records a vector insertion and updates the named index's
// reported size.
func (m *Metrics) RecordInsert(indexName string, count, newTotal int) {
	m.VectorsInserted.Add(float64(count))
	m.IndexSize.WithLabelValues(indexName).Set(float64(newTotal))
}

// RecordSearch records a search call's latency and non-sentinel result
// count.
func (m *Metrics) RecordSearch(duration time.Duration, resultSize int) {
	m.VectorsSearched.Inc()
	m.SearchLatency.Observe(duration.Seconds())
	m.SearchResultSize.Observe(float64(resultSize))
}

// RecordRecall records an observed recall@k sample.
func (m *Metrics) RecordRecall(recall float64) {
	m.SearchRecall.Observe(recall)
}

// UpdateIndexMaxLayer records the current top graph layer for an HNSW
// index.
func (m *Metrics) UpdateIndexMaxLayer(indexName string, maxLayer int) {
	m.IndexMaxLayer.WithLabelValues(indexName).Set(float64(maxLayer))
}

// RecordCacheHit records a query-cache hit.
func (m *Metrics) RecordCacheHit() { m.CacheHits.Inc() }

// RecordCacheMiss records a query-cache miss.
func (m *Metrics) RecordCacheMiss() { m.CacheMisses.Inc() }

// UpdateCacheSize records the query cache's current entry count.
func (m *Metrics) UpdateCacheSize(size int) {
	m.CacheSize.Set(float64(size))
}
