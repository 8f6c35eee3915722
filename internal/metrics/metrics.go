// Package metrics registers the process-wide Prometheus collectors for the
// orchestration core. Collectors are registered on the default registry so
// embedding services can expose them alongside their own.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChunksIngested counts audio chunks accepted into live sessions.
	ChunksIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liveturn_audio_chunks_ingested_total",
		Help: "Number of audio chunks pushed into live audio sessions.",
	})

	// TurnsDetected counts completed detection iterations by source
	// ("provider" or "segmenter").
	TurnsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liveturn_turns_detected_total",
		Help: "Number of turn detection iterations, by detection source.",
	}, []string{"source"})

	// ActiveSessions tracks sessions with a live audio stream.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "liveturn_active_audio_sessions",
		Help: "Number of sessions currently streaming audio.",
	})

	// EndpointingLatency observes seconds between last speech and turn
	// finalization.
	EndpointingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "liveturn_endpointing_latency_seconds",
		Help:    "Delay between the end of speech and turn finalization.",
		Buckets: []float64{0.1, 0.2, 0.3, 0.5, 0.8, 1, 1.5, 2, 3, 5},
	})

	// GenerationDispatches counts response dispatches by outcome.
	GenerationDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liveturn_generation_dispatches_total",
		Help: "Number of response dispatches, by outcome.",
	}, []string{"outcome"})
)
