package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Producer metrics
	PostsGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedpipe_posts_generated_total",
			Help: "Total number of posts generated by the producer",
		},
	)

	ProducerBackpressureRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedpipe_producer_backpressure_retries_total",
			Help: "Total number of enqueue retries caused by a full queue",
		},
	)

	// Consumer metrics
	PostsProcessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedpipe_posts_processed_total",
			Help: "Total number of posts successfully processed",
		},
	)

	PostsFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedpipe_posts_failed_total",
			Help: "Total number of posts dropped by validation",
		},
	)

	ValidationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedpipe_validation_errors_total",
			Help: "Total number of validation error reasons recorded",
		},
		[]string{"field"},
	)

	ProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedpipe_processing_duration_seconds",
			Help:    "Time taken to validate, transform, and aggregate a post",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		},
	)

	// Queue metrics
	QueueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedpipe_queue_size",
			Help: "Current depth of the bounded record queue",
		},
	)

	QueueCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedpipe_queue_capacity",
			Help: "Capacity of the bounded record queue",
		},
	)

	// HTTP metrics for the observability server
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedpipe_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedpipe_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Panic recovery
	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedpipe_panics_recovered_total",
			Help: "Total number of panics recovered",
		},
		[]string{"component"},
	)
)
