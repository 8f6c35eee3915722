// Package protocol defines the session-scoped wire messages exchanged with
// clients and a websocket transport that binds them to an orchestrator.
// Clients key UI state by interaction id and discard stale partials or
// cancellations relative to the latest id they have seen per direction.
package protocol

import (
	events "github.com/sonavox/liveturn-core/core/events"
	"github.com/sonavox/liveturn-core/internal/utils"
)

// Inbound message types.
const (
	InboundText            = "text"
	InboundAudio           = "audio"
	InboundAudioSessionEnd = "audioSessionEnd"
)

// Outbound message types.
const (
	OutboundNewInteraction     = "NEW_INTERACTION"
	OutboundText               = "TEXT"
	OutboundAudio              = "AUDIO"
	OutboundUserSpeechComplete = "USER_SPEECH_COMPLETE"
	OutboundCancelResponse     = "CANCEL_RESPONSE"
	OutboundInteractionEnd     = "INTERACTION_END"
	OutboundError              = "ERROR"
)

// Text sources for outbound TEXT messages.
const (
	SourceUser      = "user"
	SourceAssistant = "assistant"
)

// InboundChunk is one audio chunk as it appears on the wire.
type InboundChunk struct {
	Samples    []float64 `json:"samples"`
	SampleRate int       `json:"sampleRate"`
}

// InboundMessage is any client-to-server message; Type selects which of the
// remaining fields are meaningful.
type InboundMessage struct {
	Type  string         `json:"type"`
	Text  string         `json:"text,omitempty"`
	Audio []InboundChunk `json:"audio,omitempty"`
}

// OutboundMessage is any server-to-client message. Chunk carries raw 16-bit
// PCM, serialized as base64 by the JSON encoder.
type OutboundMessage struct {
	Type          string `json:"type"`
	InteractionID string `json:"interactionId,omitempty"`

	Text   string `json:"text,omitempty"`
	Final  *bool  `json:"final,omitempty"`
	Source string `json:"source,omitempty"`

	Chunk []byte `json:"chunk,omitempty"`

	EndpointingLatencyMs float64 `json:"endpointingLatencyMs,omitempty"`
	TotalSamples         int     `json:"totalSamples,omitempty"`
	SampleRate           int     `json:"sampleRate,omitempty"`

	Message string `json:"message,omitempty"`
}

// EncodeEvent maps an orchestration event onto its wire message. The second
// return is false for events with no wire representation.
func EncodeEvent(event events.Event) (OutboundMessage, bool) {
	switch typedEvent := event.(type) {
	case events.InteractionStarted:
		return OutboundMessage{
			Type:          OutboundNewInteraction,
			InteractionID: typedEvent.InteractionID(),
		}, true
	case events.UserTranscriptInterim:
		return OutboundMessage{
			Type:          OutboundText,
			InteractionID: typedEvent.InteractionID(),
			Text:          typedEvent.Transcript,
			Final:         utils.Ptr(false),
			Source:        SourceUser,
		}, true
	case events.UserTranscriptFinal:
		return OutboundMessage{
			Type:          OutboundText,
			InteractionID: typedEvent.InteractionID(),
			Text:          typedEvent.Transcript,
			Final:         utils.Ptr(true),
			Source:        SourceUser,
		}, true
	case events.AssistantResponseSegment:
		return OutboundMessage{
			Type:          OutboundText,
			InteractionID: typedEvent.InteractionID(),
			Text:          typedEvent.Segment,
			Final:         utils.Ptr(false),
			Source:        SourceAssistant,
		}, true
	case events.AssistantAudioFrame:
		return OutboundMessage{
			Type:          OutboundAudio,
			InteractionID: typedEvent.InteractionID(),
			Chunk:         typedEvent.Audio,
		}, true
	case events.UserSpeechComplete:
		return OutboundMessage{
			Type:                 OutboundUserSpeechComplete,
			InteractionID:        typedEvent.InteractionID(),
			EndpointingLatencyMs: typedEvent.EndpointingLatencyMs,
			TotalSamples:         typedEvent.TotalSamples,
			SampleRate:           typedEvent.SampleRate,
			Source:               typedEvent.Source,
		}, true
	case events.ResponseCancelled:
		return OutboundMessage{
			Type:          OutboundCancelResponse,
			InteractionID: typedEvent.InteractionID(),
		}, true
	case events.InteractionEnded:
		return OutboundMessage{
			Type:          OutboundInteractionEnd,
			InteractionID: typedEvent.InteractionID(),
		}, true
	case events.ErrorRaised:
		return OutboundMessage{
			Type:          OutboundError,
			InteractionID: typedEvent.InteractionID(),
			Message:       typedEvent.Message,
		}, true
	}

	return OutboundMessage{}, false
}
