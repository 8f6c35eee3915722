package orchestration

import events "github.com/sonavox/liveturn-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts OrchestrateOptions) eventEmitter {
	return func(event events.Event) {
		if opts.onEvent != nil {
			opts.onEvent(event)
		}

		switch typedEvent := event.(type) {
		case events.InteractionStarted:
			if opts.onNewInteraction != nil {
				opts.onNewInteraction(typedEvent.InteractionID())
			}
		case events.InteractionEnded:
			if opts.onInteractionEnd != nil {
				opts.onInteractionEnd(typedEvent.InteractionID())
			}
		case events.ResponseCancelled:
			if opts.onCancellation != nil {
				opts.onCancellation(typedEvent.InteractionID())
			}
		case events.ErrorRaised:
			if opts.onError != nil {
				opts.onError(typedEvent.InteractionID(), typedEvent.Message)
			}
		case events.UserTranscriptInterim:
			if opts.onInterimTranscription != nil {
				opts.onInterimTranscription(typedEvent.InteractionID(), typedEvent.Transcript)
			}
		case events.UserTranscriptFinal:
			if opts.onTranscription != nil {
				opts.onTranscription(typedEvent.InteractionID(), typedEvent.Transcript)
			}
		case events.UserSpeechComplete:
			if opts.onSpeechComplete != nil {
				opts.onSpeechComplete(typedEvent)
			}
		case events.AssistantResponseSegment:
			if opts.onResponse != nil {
				opts.onResponse(typedEvent.InteractionID(), typedEvent.Segment)
			}
		case events.AssistantAudioFrame:
			if opts.onAudio != nil {
				opts.onAudio(typedEvent.InteractionID(), typedEvent.Audio)
			}
		}
	}
}
