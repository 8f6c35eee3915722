package vad

import "github.com/sonavox/liveturn-core/core/audio"

const DefaultThreshold = 0.5

// Gate wraps a [Scorer] with a fixed sensitivity threshold and reduces its
// output to a per-chunk speech/silence decision.
type Gate struct {
	scorer    Scorer
	threshold float64
}

type GateOption func(*Gate)

// WithThreshold overrides the default sensitivity threshold (0.0-1.0).
func WithThreshold(threshold float64) GateOption {
	return func(g *Gate) {
		if threshold >= 0 && threshold <= 1 {
			g.threshold = threshold
		}
	}
}

func NewGate(scorer Scorer, opts ...GateOption) *Gate {
	gate := &Gate{scorer: scorer, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(gate)
	}
	return gate
}

// IsSpeech reports whether any sample in the chunk is scored as speech.
func (g *Gate) IsSpeech(chunk audio.Chunk) bool {
	if g == nil || g.scorer == nil {
		return false
	}
	return g.scorer.Score(chunk, g.threshold) != NoSpeech
}

func (g *Gate) Threshold() float64 {
	if g == nil {
		return DefaultThreshold
	}
	return g.threshold
}
