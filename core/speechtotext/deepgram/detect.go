package deepgram

import (
	"context"
	"fmt"
	"log"

	"github.com/sonavox/liveturn-core/core/speechtotext"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DetectTurn runs one iteration against the persistent connection: it
// forwards chunks as 16-bit PCM, relays non-final transcripts, and races the
// provider's turn-complete signal against chunk-stream exhaustion. Exactly
// one turn is returned per call; an exhausted stream with no completed turn
// yields an empty one.
func (s *TranscriptionSession) DetectTurn(ctx context.Context, interactionID string, chunks speechtotext.ChunkStream, opts ...speechtotext.TurnOption) (*speechtotext.Turn, error) {
	ctx, span := tracer.Start(ctx, "detect turn",
		trace.WithAttributes(attribute.String("interaction.id", interactionID)))
	defer span.End()

	options := &speechtotext.TurnOptions{EncodingInfo: s.encoding}
	for _, opt := range opts {
		opt(options)
	}

	if err := s.ensureReady(ctx); err != nil {
		return nil, fmt.Errorf("failed to ready transcription connection: %w", err)
	}

	listener := newTurnListener(interactionID, options.InterimTranscriptionCallback, options.SpeechStartedCallback)
	s.attachListener(listener)
	defer s.detachListener(listener)

	// Consumption suspends inside Next; cancelling iterCtx when the turn
	// completes is what lets the turn-event side win the race.
	iterCtx, cancelIter := context.WithCancel(ctx)
	defer cancelIter()
	go func() {
		select {
		case <-listener.done:
			cancelIter()
		case <-iterCtx.Done():
		}
	}()

	latencyMs := 0.0
	totalSamples := 0
	sampleRate := s.encoding.SampleRate

	for {
		// A delivered final stops consumption for this iteration right
		// here; chunks still buffered belong to the next turn.
		if listener.turnComplete() {
			break
		}

		chunk, ok := chunks.Next(iterCtx)
		if !ok {
			break
		}

		if chunk.SampleRate > 0 {
			sampleRate = chunk.SampleRate
		}
		totalSamples += len(chunk.Samples)

		// Local scoring runs independently of the provider signal so the
		// reported endpointing latency is a cross-check, not an echo.
		if s.gate.IsSpeech(chunk) {
			latencyMs = 0
		} else {
			latencyMs += chunk.DurationMs()
		}

		if err := s.ensureReady(iterCtx); err != nil {
			if iterCtx.Err() != nil {
				break
			}
			log.Println("Skipping chunk, transcription connection unavailable", "error", err)
			meterSendFailures.Add(iterCtx, 1)
			continue
		}

		if err := s.SendAudio(chunk.PCM16()); err != nil {
			log.Println("Skipping chunk, failed to forward audio", "error", err)
			meterSendFailures.Add(iterCtx, 1)
			continue
		}
	}

	transcript, completed := listener.result()
	span.SetAttributes(
		attribute.Bool("turn.complete", completed),
		attribute.Float64("turn.endpointing_latency_ms", latencyMs),
		attribute.Int("turn.total_samples", totalSamples),
	)

	return &speechtotext.Turn{
		InteractionID:        interactionID,
		Transcript:           transcript,
		Complete:             completed,
		EndpointingLatencyMs: latencyMs,
		TotalSamples:         totalSamples,
		SampleRate:           sampleRate,
		Source:               "provider",
	}, nil
}
