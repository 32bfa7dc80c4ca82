// Package metrics exposes the Prometheus collectors used across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PagesRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ampserve_pages_rendered_total",
			Help: "Total number of pages rendered",
		},
		[]string{"mode"},
	)

	PageRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ampserve_page_requests_total",
			Help: "Total number of page requests by outcome",
		},
		[]string{"mode", "outcome"},
	)

	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ampserve_upstream_fetch_duration_seconds",
			Help:    "Duration of upstream text fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	UpstreamFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ampserve_upstream_fallbacks_total",
			Help: "Total number of times an embedded fallback replaced an upstream resource",
		},
		[]string{"source"},
	)
)
