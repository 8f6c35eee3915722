package events

const (
	// KindAssistantResponseSegment identifies streamed response text segments.
	KindAssistantResponseSegment Kind = "assistant_response.segment"
	// KindAssistantAudioFrame identifies synthesized response audio frames.
	KindAssistantAudioFrame Kind = "assistant_response.audio_frame"
)

// AssistantResponseSegment carries an append-only streamed response text
// segment.
type AssistantResponseSegment struct {
	Base
	Segment string
}

// NewAssistantResponseSegment creates a streamed response segment event.
func NewAssistantResponseSegment(interactionID string, segment string) AssistantResponseSegment {
	return AssistantResponseSegment{Base: NewBase(KindAssistantResponseSegment, interactionID), Segment: segment}
}

// AssistantAudioFrame carries a synthesized response audio frame.
type AssistantAudioFrame struct {
	Base
	Audio []byte
}

// NewAssistantAudioFrame creates a response audio frame event.
func NewAssistantAudioFrame(interactionID string, audio []byte) AssistantAudioFrame {
	return AssistantAudioFrame{Base: NewBase(KindAssistantAudioFrame, interactionID), Audio: audio}
}
