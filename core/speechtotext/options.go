package speechtotext

import "github.com/sonavox/liveturn-core/core/audio"

type TurnOptions struct {
	InterimTranscriptionCallback func(transcript string)
	SpeechStartedCallback        func()
	SegmentCallback              func(segment []audio.Chunk)

	EncodingInfo audio.EncodingInfo
}

type TurnOption func(*TurnOptions)

// WithInterimTranscriptionCallback relays non-final transcripts as they
// arrive, for live captioning.
func WithInterimTranscriptionCallback(callback func(transcript string)) TurnOption {
	return func(o *TurnOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

// WithSpeechStartedCallback fires once local or provider speech onset is
// observed for the iteration.
func WithSpeechStartedCallback(callback func()) TurnOption {
	return func(o *TurnOptions) {
		o.SpeechStartedCallback = callback
	}
}

// WithSegmentCallback receives the accumulated audio segment (pre-roll
// included) when the detector keeps one. The detector may reuse the slice
// after the callback returns.
func WithSegmentCallback(callback func(segment []audio.Chunk)) TurnOption {
	return func(o *TurnOptions) {
		o.SegmentCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TurnOption {
	return func(o *TurnOptions) {
		o.EncodingInfo = encodingInfo
	}
}
