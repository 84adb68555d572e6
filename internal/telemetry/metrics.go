// Package telemetry holds the Prometheus metrics of the chat service.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BotTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rawrchat_bot_turns_total",
		Help: "Scheduler turns by outcome",
	}, []string{"outcome"})

	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rawrchat_generations_total",
		Help: "Reply generation requests by caller and result",
	}, []string{"path", "result"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rawrchat_generation_duration_seconds",
		Help:    "Reply generation latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	Speech = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rawrchat_speech_requests_total",
		Help: "Speech synthesis requests by result",
	}, []string{"result"})

	MessagesAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rawrchat_messages_appended_total",
		Help: "Messages appended to channels by author kind",
	}, []string{"author"})

	WSFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rawrchat_ws_frames_total",
		Help: "WebSocket frames by direction and type",
	}, []string{"direction", "type"})

	WSDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rawrchat_ws_dropped_total",
		Help: "Frames dropped because a client queue was full",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rawrchat_active_sessions",
		Help: "Logged-in chat sessions",
	})
)

// ObserveGeneration records one generation call that started at start.
func ObserveGeneration(path, result string, start time.Time) {
	Generations.WithLabelValues(path, result).Inc()
	GenerationDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
}
