package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counts HTTP requests served by the API, by route pattern and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "udyam_http_requests_total",
	Help: "Total number of HTTP requests served",
}, []string{"method", "route", "status"})

// Counts scrapes by mode (full, step, html) and outcome (ok or an error kind).
var Scrapes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "udyam_scrapes_total",
	Help: "Total number of scrape operations by mode and outcome",
}, []string{"mode", "outcome"})

// Observes how many fields each successful scrape produced.
var FieldsExtracted = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "udyam_fields_extracted",
	Help:    "Number of fields in each scraped document",
	Buckets: prometheus.LinearBuckets(0, 5, 10),
})

// Measures how long the registration page takes to respond.
var FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "udyam_fetch_duration_seconds",
	Help:    "Time taken to fetch the registration page",
	Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
})
