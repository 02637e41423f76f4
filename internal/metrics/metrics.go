// Package metrics expose les compteurs Prometheus du service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pas d'identifiant vidéo ni d'IP en label.
var (
	StatusRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cls_status_requests_total",
		Help: "Status endpoint requests, by outcome (disabled, out_of_window, missing_credentials, cache_hit, resolved).",
	}, []string{"outcome"})

	StatusModeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cls_status_mode_total",
		Help: "Status decisions served, by mode.",
	}, []string{"mode"})

	ResolverErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cls_resolver_errors_total",
		Help: "Upstream failures turned into playlist fallbacks, by error type (quota, api).",
	}, []string{"type"})

	UploadsLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cls_uploads_playlist_lookups_total",
		Help: "Uploads playlist id lookups, by source (cache, api).",
	}, []string{"source"})

	UpdateChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cls_update_checks_total",
		Help: "Release checks, by outcome (cached, cached_error, fetched, failed).",
	}, []string{"outcome"})

	EventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cls_events_dropped_total",
		Help: "Events not delivered to a subscriber whose buffer was full.",
	})

	ResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cls_resolve_duration_seconds",
		Help:    "Time spent resolving live status against the YouTube API.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
)

// CacheStats est implémenté par les adapters de cache.
type CacheStats interface {
	Hits() int64
	Misses() int64
}

// RegisterCache publie les compteurs du cache actif. À appeler une seule fois.
func RegisterCache(reg prometheus.Registerer, backend string, stats CacheStats) {
	labels := prometheus.Labels{"backend": backend}
	reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "cls_cache_hits_total",
			Help:        "Cache hits.",
			ConstLabels: labels,
		}, func() float64 { return float64(stats.Hits()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "cls_cache_misses_total",
			Help:        "Cache misses.",
			ConstLabels: labels,
		}, func() float64 { return float64(stats.Misses()) }),
	)
}
