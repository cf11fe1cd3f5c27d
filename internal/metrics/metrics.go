// SPDX-License-Identifier: MIT

// Package metrics exposes the Prometheus instruments of the catalog
// service. Registration happens at init via promauto; handlers and
// services call the record helpers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog size, refreshed after every mutation and on startup.
	entitiesTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "juegosd_catalog_entities",
		Help: "Live (not soft-deleted) rows per entity",
	}, []string{"entity"}) // entity=juegos|desarrolladores|usuarios|resenas

	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "juegosd_catalog_mutations_total",
		Help: "Catalog write operations by entity and outcome",
	}, []string{"entity", "op", "outcome"}) // op=create|update|delete outcome=success|failure

	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "juegosd_cache_lookups_total",
		Help: "Read-path cache lookups by outcome",
	}, []string{"outcome"}) // outcome=hit|miss

	imageUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "juegosd_image_uploads_total",
		Help: "Cover image uploads by outcome",
	}, []string{"outcome"}) // outcome=success|too_large|bad_type|failure

	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "juegosd_csv_exports_total",
		Help: "CSV export runs by outcome",
	}, []string{"outcome"})

	importRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "juegosd_csv_import_rows_total",
		Help: "Rows processed during startup seed by result",
	}, []string{"result"}) // result=loaded|skipped

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "juegosd_http_requests_total",
		Help: "HTTP requests by route, method and status class",
	}, []string{"route", "method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "juegosd_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

func RecordEntityCount(entity string, n int) {
	entitiesTotal.WithLabelValues(entity).Set(float64(n))
}

func IncMutation(entity, op string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	mutationsTotal.WithLabelValues(entity, op, outcome).Inc()
}

func IncCacheLookup(hit bool) {
	if hit {
		cacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	cacheLookupsTotal.WithLabelValues("miss").Inc()
}

func IncImageUpload(outcome string) {
	imageUploadsTotal.WithLabelValues(outcome).Inc()
}

func IncExport(err error) {
	if err != nil {
		exportsTotal.WithLabelValues("failure").Inc()
		return
	}
	exportsTotal.WithLabelValues("success").Inc()
}

func RecordImport(loaded, skipped int) {
	importRowsTotal.WithLabelValues("loaded").Add(float64(loaded))
	importRowsTotal.WithLabelValues("skipped").Add(float64(skipped))
}

func ObserveHTTPRequest(route, method, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(route, method, status).Inc()
	httpRequestDuration.WithLabelValues(route, method).Observe(seconds)
}
