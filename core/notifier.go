package orchestration

import (
	events "github.com/sonavox/liveturn-core/core/events"
	"github.com/sonavox/liveturn-core/core/speechtotext"
	"github.com/sonavox/liveturn-core/internal/metrics"
)

// speechCompletionNotifier turns detection results into one-shot telemetry
// events. Telemetry fires for every iteration, whether or not speech was
// detected, and never feeds back into the pipeline.
type speechCompletionNotifier struct {
	emitEvent eventEmitter
}

func newSpeechCompletionNotifier() *speechCompletionNotifier {
	return &speechCompletionNotifier{emitEvent: noopEventEmitter}
}

func (n *speechCompletionNotifier) SetEventEmitter(emitEvent eventEmitter) {
	if n != nil {
		if emitEvent != nil {
			n.emitEvent = emitEvent
		} else {
			n.emitEvent = noopEventEmitter
		}
	}
}

func (n *speechCompletionNotifier) notify(turn *speechtotext.Turn) {
	if n == nil || turn == nil {
		return
	}

	metrics.TurnsDetected.WithLabelValues(turn.Source).Inc()
	metrics.EndpointingLatency.Observe(turn.EndpointingLatencyMs / 1000)

	n.emitEvent(events.NewUserSpeechComplete(
		turn.InteractionID,
		turn.EndpointingLatencyMs,
		turn.TotalSamples,
		turn.SampleRate,
		turn.Complete,
		turn.Source,
	))
}
