package orchestration

import (
	"time"

	"github.com/sonavox/liveturn-core/core/audio"
	events "github.com/sonavox/liveturn-core/core/events"
	"github.com/sonavox/liveturn-core/core/generation"
	"github.com/sonavox/liveturn-core/core/speechtotext"
)

const (
	// DefaultGenerationTimeout bounds one generation dispatch; past it the
	// affected audio session is torn down rather than retried.
	DefaultGenerationTimeout = 45 * time.Second
)

type OrchestratorOption func(*Orchestrator)

// WithSession binds the orchestrator to an existing session from the
// registry instead of creating an anonymous one.
func WithSession(session *Session) OrchestratorOption {
	return func(o *Orchestrator) {
		if session != nil {
			o.session = session
		}
	}
}

// WithTurnDetector selects the turn-detection strategy for the session:
// the provider-backed transcription session or the local silence segmenter.
// Both produce the same turn values.
func WithTurnDetector(detector speechtotext.TurnDetector) OrchestratorOption {
	return func(o *Orchestrator) {
		o.detection.set(detector)
	}
}

// WithEncodingInfo declares the encoding of pushed audio, forwarded to the
// turn detector.
func WithEncodingInfo(encodingInfo audio.EncodingInfo) OrchestratorOption {
	return func(o *Orchestrator) {
		if !encodingInfo.IsZero() {
			o.encodingInfo = encodingInfo
		}
	}
}

// WithGenerationClient wires the downstream text-generation service invoked
// once per admitted turn.
func WithGenerationClient(client generation.Client) OrchestratorOption {
	return func(o *Orchestrator) {
		o.generator = client
	}
}

// WithInstructions sets the system instructions forwarded to generation.
func WithInstructions(instructions string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.instructions = instructions
	}
}

// WithGenerationTimeout overrides the dispatch deadline.
func WithGenerationTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.generationTimeout = timeout
		}
	}
}

type OrchestrateOptions struct {
	onEvent func(events.Event)

	onNewInteraction       func(interactionID string)
	onInteractionEnd       func(interactionID string)
	onCancellation         func(interactionID string)
	onError                func(interactionID string, message string)
	onInterimTranscription func(interactionID string, transcript string)
	onTranscription        func(interactionID string, transcript string)
	onSpeechComplete       func(event events.UserSpeechComplete)
	onResponse             func(interactionID string, segment string)
	onAudio                func(interactionID string, audio []byte)
}

type OrchestrateOption func(*OrchestrateOptions)

// WithEventHandler receives every emitted event, before the per-kind
// callbacks. Transports that serialize events wholesale use this.
func WithEventHandler(handler func(events.Event)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onEvent = handler
	}
}

// WithNewInteractionCallback fires when an interaction is admitted.
func WithNewInteractionCallback(callback func(interactionID string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onNewInteraction = callback
	}
}

// WithInteractionEndCallback fires when an interaction's response stream
// completes.
func WithInteractionEndCallback(callback func(interactionID string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onInteractionEnd = callback
	}
}

// WithCancellationCallback fires when a response is superseded and playback
// should stop.
func WithCancellationCallback(callback func(interactionID string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onCancellation = callback
	}
}

// WithErrorCallback fires for errors surfaced to the client, always with
// the best-known interaction id.
func WithErrorCallback(callback func(interactionID string, message string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onError = callback
	}
}

// WithInterimTranscriptionCallback relays live partial captions.
func WithInterimTranscriptionCallback(callback func(interactionID string, transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onInterimTranscription = callback
	}
}

// WithTranscriptionCallback relays final turn transcripts.
func WithTranscriptionCallback(callback func(interactionID string, transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onTranscription = callback
	}
}

// WithSpeechCompleteCallback relays per-turn telemetry.
func WithSpeechCompleteCallback(callback func(event events.UserSpeechComplete)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onSpeechComplete = callback
	}
}

// WithResponseCallback relays streamed response text segments.
func WithResponseCallback(callback func(interactionID string, segment string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onResponse = callback
	}
}

// WithAudioCallback relays synthesized response audio frames.
func WithAudioCallback(callback func(interactionID string, audio []byte)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onAudio = callback
	}
}
