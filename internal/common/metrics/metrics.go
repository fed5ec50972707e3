// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_predictions_total",
			Help: "Total number of predictions served, by outcome",
		},
		[]string{"outcome", "channel"},
	)

	PredictionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_predictions_rejected_total",
			Help: "Total number of prediction requests rejected before scoring",
		},
		[]string{"error_code", "channel"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listing_prediction_duration_seconds",
			Help:    "Duration of encode + score in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"channel"},
	)

	ScoreCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_score_cache_lookups_total",
			Help: "Score cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	HistoryWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_prediction_history_writes_total",
			Help: "Prediction history writes by sink and status",
		},
		[]string{"sink", "status"},
	)

	ArtifactsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "listing_artifacts_loaded",
			Help: "1 when the named artifact is loaded",
		},
		[]string{"artifact"},
	)
)
