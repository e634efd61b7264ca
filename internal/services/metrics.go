package services

import "github.com/prometheus/client_golang/prometheus"

// Resolver cache outcomes.
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

var (
	resolverCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resolver_cache_total",
		Help: "Cache lookups on the redirect path by result (hit|miss|error).",
	}, []string{"result"})

	shortenItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shorten_items_total",
		Help: "Shorten batch items by outcome code.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(resolverCache, shortenItems)
}
