// Package metrics exposes the prometheus counters/gauges shared across the
// RPC pool, extractor, and price enricher.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RPCRetries counts retryable endpoint failures, per chain.
	RPCRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xchain_rpc_retries_total",
			Help: "Number of retryable RPC endpoint failures.",
		},
		[]string{"chain"},
	)

	// RPCRequests counts successful JSON-RPC requests, per chain and method.
	RPCRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xchain_rpc_requests_total",
			Help: "Number of successful JSON-RPC requests.",
		},
		[]string{"chain", "method"},
	)

	// EventsExtracted counts events handed to a handler, per bridge/chain/kind.
	EventsExtracted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xchain_events_extracted_total",
			Help: "Number of decoded events passed to a handler.",
		},
		[]string{"bridge", "chain", "kind"},
	)

	// EventsDropped counts events dropped by a handler (out-of-scope chain,
	// decode failure, duplicate key), per bridge and reason.
	EventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xchain_events_dropped_total",
			Help: "Number of events dropped during handling.",
		},
		[]string{"bridge", "reason"},
	)

	// ProviderCacheHits/Misses count the price enricher's per-run tried caches.
	ProviderCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xchain_provider_cache_hits_total",
			Help: "Number of provider calls skipped due to the per-run tried cache.",
		},
		[]string{"kind"},
	)
	ProviderCacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xchain_provider_cache_misses_total",
			Help: "Number of provider calls actually issued.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(RPCRetries, RPCRequests, EventsExtracted, EventsDropped, ProviderCacheHits, ProviderCacheMisses)
}
