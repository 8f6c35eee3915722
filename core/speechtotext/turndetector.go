// Package speechtotext defines the turn-detection capability shared by the
// provider-backed transcription session and the local silence segmenter.
package speechtotext

import (
	"context"

	"github.com/sonavox/liveturn-core/core/audio"
)

// Turn is one complete user utterance as decided by a detector. It is
// immutable once returned; the interaction id is its sole ordering key.
type Turn struct {
	SessionID     string
	InteractionID string

	Transcript string
	// Complete is false for turns synthesized from an exhausted stream with
	// no detected end of speech.
	Complete bool

	// EndpointingLatencyMs is how long after the last locally detected
	// speech the turn was declared complete.
	EndpointingLatencyMs float64
	TotalSamples         int
	SampleRate           int

	// Source names the detector that produced the turn.
	Source string
}

// ChunkStream is the suspendable chunk sequence a detector consumes. Next
// blocks until a chunk arrives, the stream ends, or ctx is cancelled, and
// reports false when no further chunk will be delivered.
type ChunkStream interface {
	Next(ctx context.Context) (audio.Chunk, bool)
}

// TurnDetector turns a continuous chunk stream into discrete turns, one
// call per iteration. Implementations return exactly one turn per call,
// possibly empty when the stream is exhausted before any end-of-speech
// signal fires.
type TurnDetector interface {
	DetectTurn(ctx context.Context, interactionID string, chunks ChunkStream, opts ...TurnOption) (*Turn, error)
}
