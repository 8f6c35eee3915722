package protocol

import (
	"encoding/json"
	"strings"
	"testing"

	events "github.com/sonavox/liveturn-core/core/events"
)

func TestEncodeEventCoversEveryWireMessage(t *testing.T) {
	cases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, message OutboundMessage)
	}{
		{
			name:  "interaction started",
			event: events.NewInteractionStarted("s#1"),
			check: func(t *testing.T, message OutboundMessage) {
				if message.Type != OutboundNewInteraction || message.InteractionID != "s#1" {
					t.Fatalf("unexpected message: %+v", message)
				}
			},
		},
		{
			name:  "interim transcript",
			event: events.NewUserTranscriptInterim("s#1", "hel"),
			check: func(t *testing.T, message OutboundMessage) {
				if message.Type != OutboundText || message.Text != "hel" || message.Source != SourceUser {
					t.Fatalf("unexpected message: %+v", message)
				}
				if message.Final == nil || *message.Final {
					t.Fatalf("expected a non-final text message, got %+v", message.Final)
				}
			},
		},
		{
			name:  "final transcript",
			event: events.NewUserTranscriptFinal("s#1", "hello"),
			check: func(t *testing.T, message OutboundMessage) {
				if message.Final == nil || !*message.Final {
					t.Fatalf("expected a final text message, got %+v", message.Final)
				}
			},
		},
		{
			name:  "response segment",
			event: events.NewAssistantResponseSegment("s#1", "Hi"),
			check: func(t *testing.T, message OutboundMessage) {
				if message.Type != OutboundText || message.Source != SourceAssistant || message.Text != "Hi" {
					t.Fatalf("unexpected message: %+v", message)
				}
			},
		},
		{
			name:  "audio frame",
			event: events.NewAssistantAudioFrame("s#1", []byte{1, 2, 3}),
			check: func(t *testing.T, message OutboundMessage) {
				if message.Type != OutboundAudio || len(message.Chunk) != 3 {
					t.Fatalf("unexpected message: %+v", message)
				}
			},
		},
		{
			name:  "speech complete",
			event: events.NewUserSpeechComplete("s#1", 300, 12800, 16000, true, "provider"),
			check: func(t *testing.T, message OutboundMessage) {
				if message.Type != OutboundUserSpeechComplete {
					t.Fatalf("unexpected message: %+v", message)
				}
				if message.EndpointingLatencyMs != 300 || message.TotalSamples != 12800 || message.SampleRate != 16000 {
					t.Fatalf("expected telemetry fields to carry over, got %+v", message)
				}
				if message.Source != "provider" {
					t.Fatalf("expected the detector source, got %q", message.Source)
				}
			},
		},
		{
			name:  "cancellation",
			event: events.NewResponseCancelled("s#1"),
			check: func(t *testing.T, message OutboundMessage) {
				if message.Type != OutboundCancelResponse {
					t.Fatalf("unexpected message: %+v", message)
				}
			},
		},
		{
			name:  "interaction end",
			event: events.NewInteractionEnded("s#1"),
			check: func(t *testing.T, message OutboundMessage) {
				if message.Type != OutboundInteractionEnd {
					t.Fatalf("unexpected message: %+v", message)
				}
			},
		},
		{
			name:  "error",
			event: events.NewErrorRaised("s#1", "boom"),
			check: func(t *testing.T, message OutboundMessage) {
				if message.Type != OutboundError || message.Message != "boom" {
					t.Fatalf("unexpected message: %+v", message)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			message, ok := EncodeEvent(tc.event)
			if !ok {
				t.Fatalf("expected the event to encode")
			}
			if message.InteractionID != "s#1" {
				t.Fatalf("expected the interaction id to carry over, got %q", message.InteractionID)
			}
			tc.check(t, message)
		})
	}
}

func TestAudioChunkSerializesAsBase64(t *testing.T) {
	message, _ := EncodeEvent(events.NewAssistantAudioFrame("s#1", []byte{0x00, 0x01}))

	data, err := json.Marshal(message)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if want := `"chunk":"AAE="`; !strings.Contains(string(data), want) {
		t.Fatalf("expected base64 PCM on the wire, got %s", data)
	}
}
