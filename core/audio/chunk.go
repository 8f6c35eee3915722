package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// Chunk is a single immutable block of raw audio delivered by a client.
// Samples are normalized float amplitudes in [-1, 1] at SampleRate Hz.
type Chunk struct {
	Samples    []float64
	SampleRate int
}

// Duration is the wall-clock length of the chunk.
func (c Chunk) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(c.Samples)) / float64(c.SampleRate) * float64(time.Second))
}

// DurationMs is the chunk length in milliseconds.
func (c Chunk) DurationMs() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate) * 1000
}

// PCM16 encodes the chunk as little-endian 16-bit linear PCM, the format
// expected by the transcription provider. Out-of-range amplitudes clip.
func (c Chunk) PCM16() []byte {
	out := make([]byte, len(c.Samples)*2)
	for i, sample := range c.Samples {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(sample*math.MaxInt16)))
	}
	return out
}
