package audio

import (
	"context"
	"sync"
)

// ChunkSource is the producer/consumer boundary between the wire protocol
// and the turn-detection pipeline. Producers push chunks as they arrive;
// a single consumer drains them in arrival order, suspending while the
// source is empty. Neither side polls.
type ChunkSource struct {
	mu sync.Mutex

	chunks   []Chunk
	consumed int
	ended    bool

	updateSignal chan struct{}
}

func NewChunkSource() *ChunkSource {
	return &ChunkSource{updateSignal: make(chan struct{}, 1)}
}

// Push appends a chunk. Pushing after End is a no-op.
func (s *ChunkSource) Push(chunk Chunk) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.chunks = append(s.chunks, chunk)
	s.mu.Unlock()
	s.signalUpdate()
}

// End marks the source complete. Idempotent; a consumer suspended in Next
// wakes up and observes termination once the queue is drained.
func (s *ChunkSource) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.mu.Unlock()
	s.signalUpdate()
}

// Ended reports whether End has been called.
func (s *ChunkSource) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// Next returns the next unconsumed chunk, suspending until one arrives, the
// source ends with the queue drained, or ctx is cancelled. The second return
// is false exactly when no further chunk will be delivered to this call.
func (s *ChunkSource) Next(ctx context.Context) (Chunk, bool) {
	for {
		s.mu.Lock()
		if s.consumed < len(s.chunks) {
			chunk := s.chunks[s.consumed]
			s.consumed++
			s.mu.Unlock()
			return chunk, true
		}
		ended := s.ended
		s.mu.Unlock()

		if ended {
			return Chunk{}, false
		}

		select {
		case <-ctx.Done():
			return Chunk{}, false
		case <-s.updateSignal:
		}
	}
}

// Buffered reports how many pushed chunks have not been consumed yet.
func (s *ChunkSource) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks) - s.consumed
}

func (s *ChunkSource) signalUpdate() {
	select {
	case s.updateSignal <- struct{}{}:
	default:
	}
}
