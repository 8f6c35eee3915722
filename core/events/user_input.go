package events

const (
	// KindUserTranscriptInterim identifies mutable live caption updates.
	KindUserTranscriptInterim Kind = "user_input.transcript_interim"
	// KindUserTranscriptFinal identifies the terminal transcript of a turn.
	KindUserTranscriptFinal Kind = "user_input.transcript_final"
	// KindUserSpeechComplete identifies one-shot turn telemetry.
	KindUserSpeechComplete Kind = "user_input.speech_complete"
)

// UserTranscriptInterim carries a live partial caption for the turn in
// progress. The transcript is mutable until the final transcript fires.
type UserTranscriptInterim struct {
	Base
	Transcript string
}

// NewUserTranscriptInterim creates a live caption update event.
func NewUserTranscriptInterim(interactionID string, transcript string) UserTranscriptInterim {
	return UserTranscriptInterim{Base: NewBase(KindUserTranscriptInterim, interactionID), Transcript: transcript}
}

// UserTranscriptFinal carries the terminal transcript for the detected turn.
type UserTranscriptFinal struct {
	Base
	Transcript string
}

// NewUserTranscriptFinal creates a final transcript event.
func NewUserTranscriptFinal(interactionID string, transcript string) UserTranscriptFinal {
	return UserTranscriptFinal{Base: NewBase(KindUserTranscriptFinal, interactionID), Transcript: transcript}
}

// UserSpeechComplete is the one-shot telemetry emitted once per detected
// turn. It never feeds back into the pipeline.
type UserSpeechComplete struct {
	Base
	EndpointingLatencyMs float64
	TotalSamples         int
	SampleRate           int
	SpeechDetected       bool
	Source               string
}

// NewUserSpeechComplete creates a turn telemetry event.
func NewUserSpeechComplete(interactionID string, latencyMs float64, totalSamples, sampleRate int, speechDetected bool, source string) UserSpeechComplete {
	return UserSpeechComplete{
		Base:                 NewBase(KindUserSpeechComplete, interactionID),
		EndpointingLatencyMs: latencyMs,
		TotalSamples:         totalSamples,
		SampleRate:           sampleRate,
		SpeechDetected:       speechDetected,
		Source:               source,
	}
}
