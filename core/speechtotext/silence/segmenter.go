// Package silence provides a local fallback turn detector that decides turn
// boundaries purely from trailing-silence duration, without a remote
// transcription provider.
package silence

import (
	"context"
	"time"

	"github.com/sonavox/liveturn-core/core/audio"
	"github.com/sonavox/liveturn-core/core/speechtotext"
	"github.com/sonavox/liveturn-core/core/vad"
)

// DefaultTrailingSilence is how much uninterrupted silence after speech
// finalizes a turn.
const DefaultTrailingSilence = 300 * time.Millisecond

// Segmenter implements [speechtotext.TurnDetector] by accumulating audio
// from local speech onset and finalizing once trailing silence exceeds a
// threshold or the stream ends. Leading silence is never accumulated; the
// pre-roll window repairs the onset instead.
type Segmenter struct {
	gate *vad.Gate

	trailingSilence time.Duration
	preRollDuration time.Duration
}

type Option func(*Segmenter)

// WithTrailingSilence overrides the trailing-silence duration that
// finalizes a turn.
func WithTrailingSilence(duration time.Duration) Option {
	return func(s *Segmenter) {
		if duration > 0 {
			s.trailingSilence = duration
		}
	}
}

// WithPreRollDuration overrides the pre-roll window prepended at onset.
func WithPreRollDuration(duration time.Duration) Option {
	return func(s *Segmenter) {
		if duration > 0 {
			s.preRollDuration = duration
		}
	}
}

func NewSegmenter(gate *vad.Gate, opts ...Option) *Segmenter {
	segmenter := &Segmenter{
		gate:            gate,
		trailingSilence: DefaultTrailingSilence,
		preRollDuration: audio.DefaultPreRollDuration,
	}
	for _, opt := range opts {
		opt(segmenter)
	}
	return segmenter
}

func (s *Segmenter) DetectTurn(ctx context.Context, interactionID string, chunks speechtotext.ChunkStream, opts ...speechtotext.TurnOption) (*speechtotext.Turn, error) {
	options := &speechtotext.TurnOptions{EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(options)
	}

	preRoll := audio.NewPreRollBuffer(s.preRollDuration)

	var segment []audio.Chunk
	var trailing time.Duration
	sampleRate := 0
	speechSeen := false

	for {
		chunk, ok := chunks.Next(ctx)
		if !ok {
			break
		}
		if sampleRate == 0 {
			sampleRate = chunk.SampleRate
		}

		isSpeech := s.gate.IsSpeech(chunk)
		if !speechSeen {
			if !isSpeech {
				preRoll.Push(chunk)
				continue
			}

			speechSeen = true
			segment = append(preRoll.Flush(), chunk)
			if options.SpeechStartedCallback != nil {
				options.SpeechStartedCallback()
			}
			continue
		}

		segment = append(segment, chunk)
		if isSpeech {
			trailing = 0
			continue
		}

		trailing += chunk.Duration()
		if trailing >= s.trailingSilence {
			break
		}
	}

	totalSamples := 0
	for _, chunk := range segment {
		totalSamples += len(chunk.Samples)
	}

	if speechSeen && options.SegmentCallback != nil {
		options.SegmentCallback(segment)
	}

	return &speechtotext.Turn{
		InteractionID:        interactionID,
		Complete:             speechSeen,
		EndpointingLatencyMs: float64(trailing) / float64(time.Millisecond),
		TotalSamples:         totalSamples,
		SampleRate:           sampleRate,
		Source:               "segmenter",
	}, nil
}
