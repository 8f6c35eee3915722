package orchestration

import (
	"context"
	"fmt"

	"github.com/sonavox/liveturn-core/core/audio"
	events "github.com/sonavox/liveturn-core/core/events"
	"github.com/sonavox/liveturn-core/core/speechtotext"
)

type turnDetection struct {
	// detector stores the configured turn-detection implementation.
	detector speechtotext.TurnDetector

	emitEvent eventEmitter
}

func newTurnDetection(detector speechtotext.TurnDetector) *turnDetection {
	return &turnDetection{
		detector:  detector,
		emitEvent: noopEventEmitter,
	}
}

func (d *turnDetection) set(detector speechtotext.TurnDetector) {
	if d != nil {
		d.detector = detector
	}
}

// detect runs one detection iteration over the provided chunk stream,
// relaying interim transcripts as events tagged with the iteration's
// interaction id.
func (d *turnDetection) detect(
	ctx context.Context,
	sessionID string,
	interactionID string,
	chunks speechtotext.ChunkStream,
	encodingInfo audio.EncodingInfo,
) (*speechtotext.Turn, error) {
	if !d.isConfigured() {
		return nil, fmt.Errorf("no turn detector configured")
	}

	detectionOptions := []speechtotext.TurnOption{
		speechtotext.WithInterimTranscriptionCallback(func(transcript string) {
			d.emitEvent(events.NewUserTranscriptInterim(interactionID, transcript))
		}),
		speechtotext.WithEncodingInfo(encodingInfo),
	}

	turn, err := d.detector.DetectTurn(ctx, interactionID, chunks, detectionOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to detect turn: %w", err)
	}
	if turn != nil {
		turn.SessionID = sessionID
	}

	return turn, nil
}

func (d *turnDetection) Close(ctx context.Context) error {
	if !d.isConfigured() {
		return nil
	}

	switch c := d.detector.(type) {
	case interface{ Close(context.Context) error }:
		if err := c.Close(ctx); err != nil {
			return fmt.Errorf("failed to close turn detector: %w", err)
		}
	case interface{ Close(context.Context) }:
		c.Close(ctx)
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close turn detector: %w", err)
		}
	case interface{ Close() }:
		c.Close()
	}

	return nil
}

func (d *turnDetection) SetEventEmitter(emitEvent eventEmitter) {
	if d != nil {
		if emitEvent != nil {
			d.emitEvent = emitEvent
		} else {
			d.emitEvent = noopEventEmitter
		}
	}
}

func (d *turnDetection) isConfigured() bool {
	return d != nil && d.detector != nil
}
