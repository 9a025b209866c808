// Package metrics registers the engine's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesTotal counts page fetches by outcome (ok, error, status).
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobboard_fetches_total",
		Help: "Page fetches by outcome",
	}, []string{"outcome"})

	// ParseDuration observes how long a registry parse of one page takes.
	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jobboard_parse_duration_seconds",
		Help:    "Duration of a single-page parse by parser tag",
		Buckets: prometheus.DefBuckets,
	}, []string{"parser"})

	// PostingsEmitted counts postings returned to callers by source.
	PostingsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobboard_postings_emitted_total",
		Help: "Postings emitted after filtering and dedupe",
	}, []string{"source"})

	// CacheHits counts source-level cache hits and misses.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobboard_cache_requests_total",
		Help: "PageCache lookups by result",
	}, []string{"result"})
)
