package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statute",
		Name:      "version_cache_requests_total",
		Help:      "Version cache lookups by result kind and outcome (hit, miss, error).",
	}, []string{"kind", "result"})

	computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "statute",
		Name:      "reconstruction_duration_seconds",
		Help:      "Time to load a document and compute a result on a cache miss.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"kind"})

	sharedComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statute",
		Name:      "shared_computations_total",
		Help:      "Callers that received the result of a concurrent identical computation.",
	}, []string{"kind"})
)
