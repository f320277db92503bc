package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TrendingCacheMetrics records cache behaviour for the ranked feed.
type TrendingCacheMetrics struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	invalidations *prometheus.CounterVec
	failures      *prometheus.CounterVec
	rebuild       prometheus.Histogram
}

// NewTrendingCacheMetrics registers the trending cache metrics on the provided registerer.
func NewTrendingCacheMetrics(reg prometheus.Registerer) *TrendingCacheMetrics {
	if reg == nil {
		return &TrendingCacheMetrics{}
	}
	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trending_cache_hits_total",
		Help: "Trending feed requests served from cache.",
	})
	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trending_cache_misses_total",
		Help: "Trending feed requests that fell through to the database.",
	})
	invalidations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trending_cache_invalidations_total",
		Help: "Explicit trending cache invalidations by triggering operation.",
	}, []string{"reason"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trending_cache_failures_total",
		Help: "Cache backend errors by operation (reads fail open).",
	}, []string{"op"})
	rebuild := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trending_rebuild_duration_seconds",
		Help:    "Duration of ranked window rebuilds from the database.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(hits, misses, invalidations, failures, rebuild)
	return &TrendingCacheMetrics{
		hits:          hits,
		misses:        misses,
		invalidations: invalidations,
		failures:      failures,
		rebuild:       rebuild,
	}
}

// IncHit increments the cache hit counter.
func (m *TrendingCacheMetrics) IncHit() {
	if m == nil || m.hits == nil {
		return
	}
	m.hits.Inc()
}

// IncMiss increments the cache miss counter.
func (m *TrendingCacheMetrics) IncMiss() {
	if m == nil || m.misses == nil {
		return
	}
	m.misses.Inc()
}

// IncInvalidation increments the invalidation counter for the named reason.
func (m *TrendingCacheMetrics) IncInvalidation(reason string) {
	if m == nil || m.invalidations == nil {
		return
	}
	m.invalidations.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncFailure increments the failure counter for the named cache operation.
func (m *TrendingCacheMetrics) IncFailure(op string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveRebuild records the duration of a window rebuild.
func (m *TrendingCacheMetrics) ObserveRebuild(duration time.Duration) {
	if m == nil || m.rebuild == nil {
		return
	}
	m.rebuild.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
