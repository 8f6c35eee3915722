package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"log"

	"github.com/sonavox/liveturn-core/core/audio"
	"github.com/sonavox/liveturn-core/core/events"
	"github.com/sonavox/liveturn-core/core/generation"
	"github.com/sonavox/liveturn-core/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Orchestrator drives one session's interaction loop: it feeds pushed audio
// through turn detection, admits detected turns through the interaction
// queue, and dispatches at most one generation at a time, relaying
// everything observable as events.
type Orchestrator struct {
	session *Session
	queue   *InteractionQueue

	// detection is the turn-detection facade used to handle optional
	// detector wiring.
	detection *turnDetection
	notifier  *speechCompletionNotifier
	generator generation.Client

	instructions      string
	generationTimeout time.Duration
	encodingInfo      audio.EncodingInfo

	tasks *serialTasks

	closeOnce sync.Once

	mu         sync.Mutex
	source     *audio.ChunkSource
	audioDone  chan struct{}
	dispatches sync.WaitGroup

	emitEvent          eventEmitter
	orchestrateOptions OrchestrateOptions
	baseContext        context.Context
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		session:           newSession(""),
		queue:             NewInteractionQueue(),
		detection:         newTurnDetection(nil),
		notifier:          newSpeechCompletionNotifier(),
		tasks:             newSerialTasks(),
		generationTimeout: DefaultGenerationTimeout,
		encodingInfo:      audio.GetDefaultEncodingInfo(),
		emitEvent:         noopEventEmitter,
		baseContext:       context.Background(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Orchestrate starts the orchestrator's serial task loop and wires the
// event callbacks.
//
// ctx is used as a base context for detection and generation calls,
// allowing for cancellation.
//
// Contract: call Orchestrate at most once per orchestrator instance.
// Repeated or concurrent calls are unsupported and may race while
// callbacks/options are being reconfigured.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) {
	if o.tasks.isClosed() {
		log.Println("Warning: orchestrator already closed, skipping Orchestrate")
		return
	}

	o.orchestrateOptions = OrchestrateOptions{}
	for _, opt := range opts {
		opt(&o.orchestrateOptions)
	}

	o.baseContext = ctx
	o.emitEvent = newCallbackEventEmitter(o.orchestrateOptions)
	o.detection.SetEventEmitter(o.emitEvent)
	o.notifier.SetEventEmitter(o.emitEvent)

	if started := o.tasks.start(); started {
		go func() {
			<-ctx.Done()
			o.Close()
		}()
	}
}

func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.tasks.end()

		o.mu.Lock()
		source, done := o.source, o.audioDone
		o.mu.Unlock()
		if source != nil {
			source.End()
		}
		if done != nil {
			<-done
		}

		if err := o.detection.Close(o.baseContext); err != nil {
			recordedErr := fmt.Errorf("failed to close turn detector: %w", err)
			span := trace.SpanFromContext(o.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		o.tasks.waitUntilEnded()
		o.dispatches.Wait()
	})
}

// Session exposes the orchestrator's session for transports that need its
// id or transcript log.
func (o *Orchestrator) Session() *Session { return o.session }

// SendPrompt submits typed text as a completed turn. Text skips detection
// and the audio queue entirely but still runs on the serial task loop, so
// it can never overlap another dispatch.
func (o *Orchestrator) SendPrompt(prompt string) error {
	if !o.session.IsLive() {
		return ErrSessionClosed
	}

	enqueued := o.tasks.enqueue(func() {
		interactionID := o.session.reserveInteractionID()
		o.session.commitInteraction(interactionID)
		o.emitEvent(events.NewUserTranscriptFinal(interactionID, prompt))

		o.runDispatch(interactionID, prompt)

		// Keeps the queue's iteration sequence contiguous so later
		// audio turns still claim in ascending order.
		o.queue.Complete(interactionID)
	})
	if !enqueued {
		return ErrSessionClosed
	}

	return nil
}

// PushAudio appends a chunk to the session's audio stream, lazily starting
// the detection loop on the first chunk.
func (o *Orchestrator) PushAudio(chunk audio.Chunk) error {
	if !o.session.IsLive() || o.tasks.isClosed() {
		return ErrSessionClosed
	}

	o.mu.Lock()
	if o.source == nil {
		source := audio.NewChunkSource()
		done := make(chan struct{})
		o.source, o.audioDone = source, done
		metrics.ActiveSessions.Inc()
		go o.runAudioSession(source, done)
	}
	source := o.source
	o.mu.Unlock()

	source.Push(chunk)
	metrics.ChunksIngested.Inc()
	return nil
}

// EndAudioSession terminates the audio stream and blocks until the
// detection loop has drained buffered audio and all admitted dispatches
// have finished.
func (o *Orchestrator) EndAudioSession() {
	o.mu.Lock()
	source, done := o.source, o.audioDone
	o.mu.Unlock()

	if source == nil {
		return
	}

	source.End()
	if done != nil {
		<-done
	}
	o.dispatches.Wait()
}

// runAudioSession is the per-stream detection loop: one iteration per
// detected turn until the source ends and its buffer drains.
func (o *Orchestrator) runAudioSession(source *audio.ChunkSource, done chan struct{}) {
	defer func() {
		o.mu.Lock()
		if o.source == source {
			o.source, o.audioDone = nil, nil
		}
		o.mu.Unlock()
		metrics.ActiveSessions.Dec()
		close(done)
	}()

	for {
		if source.Ended() && source.Buffered() == 0 {
			return
		}

		interactionID := o.session.reserveInteractionID()
		turn, err := o.detection.detect(o.baseContext, o.session.ID, interactionID, source, o.encodingInfo)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			o.raiseError(interactionID, fmt.Errorf("turn detection failed: %w", err))
			source.End()
			return
		}
		if turn == nil {
			o.queue.Complete(interactionID)
			continue
		}

		o.notifier.notify(turn)

		if !turn.Complete || strings.TrimSpace(turn.Transcript) == "" {
			// Release the reserved iteration so later turns stay
			// claimable in sequence.
			o.queue.Complete(interactionID)
			continue
		}

		o.session.commitInteraction(turn.InteractionID)
		o.emitEvent(events.NewUserTranscriptFinal(turn.InteractionID, turn.Transcript))

		if runningID := o.queue.RunningID(); runningID != "" {
			o.emitEvent(events.NewResponseCancelled(runningID))
		}

		if admitted := o.queue.Admit(turn); admitted != nil {
			o.startDispatch(admitted)
		}
	}
}

// startDispatch runs the admitted turn's generation on its own goroutine
// and keeps draining the queue afterwards, so queued turns advance without
// waiting for another detection iteration.
func (o *Orchestrator) startDispatch(admitted *AdmittedTurn) {
	o.dispatches.Add(1)
	go func() {
		defer o.dispatches.Done()

		for admitted != nil {
			o.runDispatch(admitted.InteractionID, admitted.Text)
			o.queue.Complete(admitted.InteractionID)
			admitted = o.queue.Admit(nil)
		}
	}()
}

// runDispatch executes exactly one generation for the interaction, bounded
// by the generation timeout, streaming segments out as events.
func (o *Orchestrator) runDispatch(interactionID string, prompt string) {
	ctx, cancel := context.WithTimeout(o.baseContext, o.generationTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "dispatch response",
		trace.WithAttributes(attribute.String("interaction.id", interactionID)))
	defer span.End()

	o.emitEvent(events.NewInteractionStarted(interactionID))

	if o.generator == nil {
		o.emitEvent(events.NewInteractionEnded(interactionID))
		metrics.GenerationDispatches.WithLabelValues("skipped").Inc()
		return
	}

	promptOptions := []generation.PromptOption{}
	if o.instructions != "" {
		promptOptions = append(promptOptions, generation.WithInstructions(o.instructions))
	}
	stream := o.generator.PromptWithStream(ctx, prompt, o.session.History(), promptOptions...)

	response := strings.Builder{}
	var streamErr error
	for segment, err := range stream.Segments(ctx) {
		if err != nil {
			streamErr = err
			break
		}
		response.WriteString(segment)
		o.emitEvent(events.NewAssistantResponseSegment(interactionID, segment))
	}

	if streamErr != nil {
		recordedErr := fmt.Errorf("failed to stream response: %w", streamErr)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())

		if isTimeout(streamErr) {
			metrics.GenerationDispatches.WithLabelValues("timeout").Inc()
			o.emitEvent(events.NewErrorRaised(interactionID, "response generation timed out"))
			// A timed-out dispatch leaves the session in an unknown
			// state, so the audio stream is torn down rather than left
			// to queue further turns behind it.
			o.endAudioStream()
		} else {
			metrics.GenerationDispatches.WithLabelValues("error").Inc()
			o.emitEvent(events.NewErrorRaised(interactionID, recordedErr.Error()))
		}
		o.emitEvent(events.NewInteractionEnded(interactionID))
		return
	}

	o.session.appendExchange(prompt, response.String())
	o.emitEvent(events.NewInteractionEnded(interactionID))
	metrics.GenerationDispatches.WithLabelValues("ok").Inc()
}

// endAudioStream ends the current source without waiting; the detection
// loop drains and clears it.
func (o *Orchestrator) endAudioStream() {
	o.mu.Lock()
	source := o.source
	o.mu.Unlock()

	if source != nil {
		source.End()
	}
}

// raiseError records the failure and surfaces exactly one error event,
// correlated to the best-known interaction id.
func (o *Orchestrator) raiseError(interactionID string, err error) {
	span := trace.SpanFromContext(o.baseContext)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if interactionID == "" {
		interactionID = o.session.CurrentInteractionID()
	}
	o.emitEvent(events.NewErrorRaised(interactionID, err.Error()))
}
