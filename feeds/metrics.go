package feeds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vndbrss_upstream_requests_total",
		Help: "The total number of release queries sent to the VNDB API",
	}, []string{"feed", "outcome"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vndbrss_upstream_request_duration_seconds",
		Help:    "Duration of release queries sent to the VNDB API",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // Start at 50ms, double each bucket
	}, []string{"feed"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vndbrss_cache_lookups_total",
		Help: "Feed cache lookups by result: hit, miss or stale",
	}, []string{"feed", "result"})
)
