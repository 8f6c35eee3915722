package silence

import (
	"context"
	"testing"
	"time"

	"github.com/sonavox/liveturn-core/core/audio"
	"github.com/sonavox/liveturn-core/core/speechtotext"
	"github.com/sonavox/liveturn-core/core/vad"
)

type amplitudeScorer struct{}

func (amplitudeScorer) Score(chunk audio.Chunk, threshold float64) int {
	for i, sample := range chunk.Samples {
		if sample >= threshold {
			return i
		}
	}
	return vad.NoSpeech
}

func chunkOf(value float64, durationMs int) audio.Chunk {
	samples := make([]float64, 16000*durationMs/1000)
	for i := range samples {
		samples[i] = value
	}
	return audio.Chunk{Samples: samples, SampleRate: 16000}
}

func sourceOf(chunks ...audio.Chunk) *audio.ChunkSource {
	source := audio.NewChunkSource()
	for _, chunk := range chunks {
		source.Push(chunk)
	}
	source.End()
	return source
}

func TestSegmenterPrependsPreRollAtOnset(t *testing.T) {
	segmenter := NewSegmenter(vad.NewGate(amplitudeScorer{}))

	// 5x100ms silence then 3x100ms speech: the segment must open with the
	// full 500ms pre-roll, 800ms in total.
	chunks := []audio.Chunk{}
	for i := 0; i < 5; i++ {
		chunks = append(chunks, chunkOf(0.1, 100))
	}
	for i := 0; i < 3; i++ {
		chunks = append(chunks, chunkOf(0.9, 100))
	}

	var segment []audio.Chunk
	speechStarted := 0
	turn, err := segmenter.DetectTurn(context.Background(), "session#1", sourceOf(chunks...),
		speechtotext.WithSegmentCallback(func(chunks []audio.Chunk) { segment = chunks }),
		speechtotext.WithSpeechStartedCallback(func() { speechStarted++ }),
	)
	if err != nil {
		t.Fatalf("expected detection to succeed, got %v", err)
	}

	if !turn.Complete {
		t.Fatalf("expected a complete turn after speech")
	}
	if speechStarted != 1 {
		t.Fatalf("expected exactly one speech onset, got %d", speechStarted)
	}

	var total time.Duration
	for _, chunk := range segment {
		total += chunk.Duration()
	}
	if total != 800*time.Millisecond {
		t.Fatalf("expected an 800ms segment (500ms pre-roll + 300ms speech), got %v", total)
	}
	if turn.TotalSamples != 16000*800/1000 {
		t.Fatalf("expected the turn to count the full segment, got %d samples", turn.TotalSamples)
	}
	for i := 0; i < 5; i++ {
		if segment[i].Samples[0] != 0.1 {
			t.Fatalf("expected segment chunk %d to be pre-roll silence", i)
		}
	}
}

func TestSegmenterFinalizesOnTrailingSilence(t *testing.T) {
	segmenter := NewSegmenter(vad.NewGate(amplitudeScorer{}), WithTrailingSilence(300*time.Millisecond))

	source := audio.NewChunkSource()
	source.Push(chunkOf(0.9, 100))
	for i := 0; i < 3; i++ {
		source.Push(chunkOf(0.1, 100))
	}
	// Never ended: finalization must come from trailing silence alone.

	turn, err := segmenter.DetectTurn(context.Background(), "session#1", source)
	if err != nil {
		t.Fatalf("expected detection to succeed, got %v", err)
	}
	if !turn.Complete {
		t.Fatalf("expected trailing silence to finalize the turn")
	}
	if turn.EndpointingLatencyMs != 300 {
		t.Fatalf("expected 300ms endpointing latency, got %v", turn.EndpointingLatencyMs)
	}
}

func TestSegmenterLatencyResetsOnResumedSpeech(t *testing.T) {
	segmenter := NewSegmenter(vad.NewGate(amplitudeScorer{}))

	// Speech, a 200ms pause, then speech again: the pause stays inside the
	// segment and the latency clock restarts.
	turn, err := segmenter.DetectTurn(context.Background(), "session#1", sourceOf(
		chunkOf(0.9, 100),
		chunkOf(0.1, 100),
		chunkOf(0.1, 100),
		chunkOf(0.9, 100),
	))
	if err != nil {
		t.Fatalf("expected detection to succeed, got %v", err)
	}
	if !turn.Complete {
		t.Fatalf("expected a complete turn")
	}
	if turn.EndpointingLatencyMs != 0 {
		t.Fatalf("expected latency to reset on resumed speech, got %v", turn.EndpointingLatencyMs)
	}
	if turn.TotalSamples != 16000*400/1000 {
		t.Fatalf("expected the mid-utterance pause to stay in the segment, got %d samples", turn.TotalSamples)
	}
}

func TestSegmenterSilenceOnlyStreamYieldsIncompleteTurn(t *testing.T) {
	segmenter := NewSegmenter(vad.NewGate(amplitudeScorer{}))

	segmentCallbacks := 0
	turn, err := segmenter.DetectTurn(context.Background(), "session#1",
		sourceOf(chunkOf(0.1, 100), chunkOf(0.1, 100)),
		speechtotext.WithSegmentCallback(func([]audio.Chunk) { segmentCallbacks++ }),
	)
	if err != nil {
		t.Fatalf("expected detection to succeed, got %v", err)
	}
	if turn.Complete {
		t.Fatalf("expected a silence-only stream to yield an incomplete turn")
	}
	if turn.TotalSamples != 0 {
		t.Fatalf("expected leading silence to stay out of the segment, got %d samples", turn.TotalSamples)
	}
	if segmentCallbacks != 0 {
		t.Fatalf("expected no segment callback without speech")
	}
}
