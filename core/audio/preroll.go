package audio

import "time"

// DefaultPreRollDuration is how much trailing silence is kept for onset
// repair when speech starts.
const DefaultPreRollDuration = 500 * time.Millisecond

// PreRollBuffer keeps a fixed-duration rolling window of the most recent
// silence so the clipped start of an utterance can be repaired: at the
// silence-to-speech transition the window is flushed exactly once and
// prepended to the captured segment.
type PreRollBuffer struct {
	duration time.Duration

	chunks []Chunk
	total  time.Duration
}

func NewPreRollBuffer(duration time.Duration) *PreRollBuffer {
	if duration <= 0 {
		duration = DefaultPreRollDuration
	}
	return &PreRollBuffer{duration: duration}
}

// Push records a silence chunk, evicting the oldest chunks FIFO so the
// window never holds more than the configured duration.
func (b *PreRollBuffer) Push(chunk Chunk) {
	b.chunks = append(b.chunks, chunk)
	b.total += chunk.Duration()

	for len(b.chunks) > 0 && b.total-b.chunks[0].Duration() >= b.duration {
		b.total -= b.chunks[0].Duration()
		b.chunks = b.chunks[1:]
	}
}

// Flush returns the buffered window and resets it. Subsequent pushes start a
// fresh window, so the pre-roll is prepended at most once per onset.
func (b *PreRollBuffer) Flush() []Chunk {
	chunks := b.chunks
	b.chunks = nil
	b.total = 0
	return chunks
}

// Duration is the wall-clock length currently buffered.
func (b *PreRollBuffer) Duration() time.Duration {
	return b.total
}
