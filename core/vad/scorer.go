// Package vad gates the audio pipeline on voice activity.
//
// Scoring itself is delegated to an external model; this package only owns
// the thresholding that turns a score into a binary speech/silence decision.
package vad

import (
	"math"

	"github.com/sonavox/liveturn-core/core/audio"
)

// NoSpeech is returned by a [Scorer] when no sample in the chunk crosses the
// activation threshold.
const NoSpeech = -1

// Scorer is the external voice-activity model contract. Score returns the
// index of the first sample considered speech at the given threshold
// (0.0-1.0), or [NoSpeech]. Implementations must be safe for concurrent use
// across sessions; the scorer holds no per-session state.
type Scorer interface {
	Score(chunk audio.Chunk, threshold float64) int
}

// EnergyScorer is a reference scorer that treats a sample as speech when a
// short RMS window around it exceeds the threshold. It stands in for the
// model-backed scorer in tests and local fallback setups.
type EnergyScorer struct {
	// WindowSize is the RMS window in samples. Defaults to 256 when zero.
	WindowSize int
}

func (s EnergyScorer) Score(chunk audio.Chunk, threshold float64) int {
	windowSize := s.WindowSize
	if windowSize <= 0 {
		windowSize = 256
	}

	for start := 0; start < len(chunk.Samples); start += windowSize {
		end := start + windowSize
		if end > len(chunk.Samples) {
			end = len(chunk.Samples)
		}

		var energy float64
		for _, sample := range chunk.Samples[start:end] {
			energy += sample * sample
		}
		if math.Sqrt(energy/float64(end-start)) >= threshold {
			return start
		}
	}

	return NoSpeech
}
