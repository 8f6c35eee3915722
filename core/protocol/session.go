package protocol

import (
	"context"

	orchestration "github.com/sonavox/liveturn-core/core"
	"github.com/sonavox/liveturn-core/core/audio"
	events "github.com/sonavox/liveturn-core/core/events"
)

// OrchestratorSession adapts an orchestrator to the transport's message
// handler, encoding every emitted event onto the wire.
type OrchestratorSession struct {
	orchestrator *orchestration.Orchestrator
}

// NewOrchestratorSession starts the orchestrator for one connection,
// routing its events through send. Orchestrator options (detector,
// generation client, encoding) are the caller's to configure beforehand.
func NewOrchestratorSession(ctx context.Context, orchestrator *orchestration.Orchestrator, send SendFunc) *OrchestratorSession {
	orchestrator.Orchestrate(ctx, orchestration.WithEventHandler(func(event events.Event) {
		if message, ok := EncodeEvent(event); ok {
			send(message)
		}
	}))

	return &OrchestratorSession{orchestrator: orchestrator}
}

func (s *OrchestratorSession) HandleText(text string) error {
	return s.orchestrator.SendPrompt(text)
}

func (s *OrchestratorSession) HandleAudioChunk(chunk InboundChunk) error {
	return s.orchestrator.PushAudio(audio.Chunk{Samples: chunk.Samples, SampleRate: chunk.SampleRate})
}

func (s *OrchestratorSession) HandleAudioSessionEnd() {
	s.orchestrator.EndAudioSession()
}

func (s *OrchestratorSession) Close() {
	s.orchestrator.Close()
}
