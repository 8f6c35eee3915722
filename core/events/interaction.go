package events

const (
	// KindInteractionStarted identifies admission of a new interaction.
	KindInteractionStarted Kind = "interaction.started"
	// KindInteractionEnded identifies completion of an interaction's response.
	KindInteractionEnded Kind = "interaction.ended"
	// KindResponseCancelled identifies a superseded response.
	KindResponseCancelled Kind = "interaction.response_cancelled"
	// KindErrorRaised identifies an error surfaced to the receiver.
	KindErrorRaised Kind = "interaction.error"
)

// InteractionStarted marks admission of a new interaction.
type InteractionStarted struct{ Base }

// NewInteractionStarted creates an interaction admission event.
func NewInteractionStarted(interactionID string) InteractionStarted {
	return InteractionStarted{Base: NewBase(KindInteractionStarted, interactionID)}
}

// InteractionEnded marks the end of an interaction's response stream.
type InteractionEnded struct{ Base }

// NewInteractionEnded creates an interaction completion event.
func NewInteractionEnded(interactionID string) InteractionEnded {
	return InteractionEnded{Base: NewBase(KindInteractionEnded, interactionID)}
}

// ResponseCancelled tells the receiver to stop playing the interaction's
// response because a newer turn superseded it.
type ResponseCancelled struct{ Base }

// NewResponseCancelled creates a response cancellation event.
func NewResponseCancelled(interactionID string) ResponseCancelled {
	return ResponseCancelled{Base: NewBase(KindResponseCancelled, interactionID)}
}

// ErrorRaised carries an error message correlated to the best-known
// interaction id so the receiver never observes a silent hang.
type ErrorRaised struct {
	Base
	Message string
}

// NewErrorRaised creates an error event.
func NewErrorRaised(interactionID string, message string) ErrorRaised {
	return ErrorRaised{Base: NewBase(KindErrorRaised, interactionID), Message: message}
}
