package audio

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

func TestChunkDuration(t *testing.T) {
	chunk := Chunk{Samples: make([]float64, 1600), SampleRate: 16000}
	if got := chunk.Duration(); got != 100*time.Millisecond {
		t.Fatalf("expected 100ms, got %v", got)
	}
	if got := chunk.DurationMs(); got != 100 {
		t.Fatalf("expected 100ms, got %v", got)
	}

	if got := (Chunk{Samples: []float64{0}}).Duration(); got != 0 {
		t.Fatalf("expected zero duration without a sample rate, got %v", got)
	}
}

func TestChunkPCM16ClipsAndEncodesLittleEndian(t *testing.T) {
	chunk := Chunk{Samples: []float64{0, 1, -1, 2, -2}, SampleRate: 16000}

	encoded := chunk.PCM16()
	if len(encoded) != 10 {
		t.Fatalf("expected 2 bytes per sample, got %d", len(encoded))
	}

	want := []int16{0, math.MaxInt16, -math.MaxInt16, math.MaxInt16, -math.MaxInt16}
	for i, expected := range want {
		got := int16(binary.LittleEndian.Uint16(encoded[i*2:]))
		if got != expected {
			t.Fatalf("expected sample %d to encode as %d, got %d", i, expected, got)
		}
	}
}
