// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AdRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_requests_total",
			Help: "Total number of ad requests by outcome",
		},
		[]string{"outcome"},
	)

	AdRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ad_request_duration_seconds",
			Help: "End to end ad request duration in seconds",
			Buckets: []float64{
				0.005, 0.05, 0.5, 1, 5, 15, 30, 60, 120, 300,
			},
		},
		[]string{"cache"},
	)

	PageContextCacheEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_context_cache_events_total",
			Help: "Page context cache hits, misses and expiries",
		},
		[]string{"event"},
	)

	CrawlJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_jobs_total",
			Help: "Total crawl jobs by terminal status",
		},
		[]string{"status"},
	)

	CrawlDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "crawl_duration_seconds",
			Help: "Time spent waiting for a crawl job to finish",
			Buckets: []float64{
				1, 5, 10, 30, 60, 120, 300,
			},
		},
	)

	StylingCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "styling_calls_total",
			Help: "Total image styling calls by outcome",
		},
		[]string{"outcome"},
	)

	ImpressionsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "impressions_recorded_total",
			Help: "Total impressions written to the analytics store",
		},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ad_requests_active",
			Help: "Number of ad requests currently being served",
		},
	)
)
