// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CatalogLoads counts catalog loads by outcome: ok, fetch_error, empty.
	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animedex_catalog_loads_total",
			Help: "Catalog load attempts by outcome",
		},
		[]string{"outcome"},
	)

	CatalogRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "animedex_catalog_records",
		Help: "Number of records in the last loaded catalog",
	})

	CatalogLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "animedex_catalog_load_duration_seconds",
		Help:    "Duration of catalog fetch and decode",
		Buckets: prometheus.DefBuckets,
	})

	PrefToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animedex_pref_toggles_total",
			Help: "Preference toggles by set and resulting membership",
		},
		[]string{"set", "member"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animedex_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"route", "status"},
	)

	EnrichRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animedex_enrich_requests_total",
			Help: "AniList lookups made by the enrichment pipeline, by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordCatalogLoad(outcome string, records int, took time.Duration) {
	CatalogLoads.WithLabelValues(outcome).Inc()
	CatalogRecords.Set(float64(records))
	CatalogLoadDuration.Observe(took.Seconds())
}

func RecordToggle(set string, member bool) {
	PrefToggles.WithLabelValues(set, strconv.FormatBool(member)).Inc()
}

func RecordHTTP(route string, status int, took time.Duration) {
	if status == 0 {
		status = http.StatusOK
	}
	HTTPDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(took.Seconds())
}
