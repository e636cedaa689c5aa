// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

// Package metrics provides Prometheus instrumentation for the registry:
// API request latency and throughput, publish pipeline outcomes, bundle
// sizes, downloads, and database query performance. All collectors are
// registered with the default registry via promauto and exposed on
// /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Publish Pipeline Metrics
	PublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publish_attempts_total",
			Help: "Total number of publish attempts by outcome",
		},
		[]string{"outcome"}, // "created", "rejected", "conflict", "error"
	)

	PublishBundleSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "publish_bundle_size_bytes",
			Help:    "Compressed size of published bundles in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KiB .. 256MiB
		},
	)

	PublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "publish_duration_seconds",
			Help:    "End-to-end publish pipeline duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// Download Metrics
	DownloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bundle_downloads_total",
			Help: "Total number of bundle downloads served",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"operation"},
	)

	// Storage Metrics
	StorageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_operations_total",
			Help: "Total number of blob storage operations",
		},
		[]string{"operation", "outcome"}, // operation: "put"/"get", outcome: "ok"/"error"
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordPublish records a publish attempt outcome and, on success, the
// compressed bundle size.
func RecordPublish(outcome string, sizeBytes int64, duration time.Duration) {
	PublishTotal.WithLabelValues(outcome).Inc()
	PublishDuration.Observe(duration.Seconds())
	if outcome == "created" {
		PublishBundleSize.Observe(float64(sizeBytes))
	}
}

// RecordDownload increments the served-download counter.
func RecordDownload() {
	DownloadsTotal.Inc()
}

// RecordDBQuery records a database query duration and error outcome.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordStorageOperation records one blob store call.
func RecordStorageOperation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StorageOperations.WithLabelValues(operation, outcome).Inc()
}
