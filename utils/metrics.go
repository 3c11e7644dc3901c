package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MetricCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_cache_lookups_total",
			Help: "Number of cache lookups by tier, entity type and result",
		},
		[]string{"tier", "entity_type", "result"},
	)

	MetricRemoteEnrichments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_remote_calls_total",
			Help: "Number of calls to the enrichment service by entity type and outcome",
		},
		[]string{"entity_type", "outcome"},
	)

	MetricLocalCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrichment_local_cache_evicted_entries_total",
			Help: "Number of local cache entries evicted under storage pressure",
		},
	)
)
