/*
Package metrics provides the Prometheus instruments exported at /metrics.

Fortune metrics:
  - fortunes_total{band}: completed fortunes per personality band
  - fortune_errors_total{kind}: failed requests by error kind
  - fortune_placeholder_total: fortunes that fell back to the apology text

Enrichment metrics:
  - entity_cache_hits_total / entity_cache_misses_total
  - entity_cache_entries: current number of cached entities
  - upstream_request_duration_seconds{endpoint,outcome}
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open

Narration metrics:
  - narration_duration_seconds{provider}

HTTP metrics:
  - http_requests_total{method,path,status}
  - http_request_duration_seconds{method,path}
  - http_rate_limit_hits_total{path}
*/
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FortunesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fortunes_total",
			Help: "Total number of completed fortunes by personality band",
		},
		[]string{"band"},
	)

	FortuneErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fortune_errors_total",
			Help: "Total number of failed fortune requests by error kind",
		},
		[]string{"kind"}, // "validation", "upstream", "narration", "unexpected"
	)

	FortunePlaceholders = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fortune_placeholder_total",
			Help: "Fortunes where the generation service returned no text",
		},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "entity_cache_hits_total",
			Help: "Enrichment cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "entity_cache_misses_total",
			Help: "Enrichment cache misses",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "entity_cache_entries",
			Help: "Number of entities held in the enrichment cache",
		},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Data-source request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint", "outcome"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	NarrationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "narration_duration_seconds",
			Help:    "Generation service call duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"provider"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"path"},
	)
)
