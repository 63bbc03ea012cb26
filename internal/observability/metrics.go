// Package observability provides metrics and tracing instrumentation.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedCacheHits counts feed requests served from the cache.
	FeedCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirp_feed_cache_hits_total",
		Help: "Total number of feed requests served from the cache",
	})

	// FeedCacheMisses counts feed requests that fell through to the stores.
	FeedCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirp_feed_cache_misses_total",
		Help: "Total number of feed requests computed from the database",
	})

	// FeedInvalidations counts cache invalidations by trigger.
	FeedInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_feed_invalidations_total",
		Help: "Total number of feed cache invalidations by triggering action",
	}, []string{"action"})

	// NotificationFailures counts swallowed notification delivery errors.
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_notification_failures_total",
		Help: "Total number of swallowed notification delivery failures",
	}, []string{"type"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chirp_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
