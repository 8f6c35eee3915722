// Package generation defines the contract for the downstream text-generation
// service that is invoked exactly once per admitted turn.
package generation

import "context"

// Exchange is one completed prompt/response pair from the session's
// transcript log, passed as conversation history.
type Exchange struct {
	Prompt   string
	Response string
}

// Stream yields response text segments in stream order. The iterator stops
// early when the consumer returns false, which cancels the underlying
// request.
type Stream interface {
	Segments(ctx context.Context) func(yield func(segment string, err error) bool)
}

// Client produces one response stream per admitted turn.
type Client interface {
	PromptWithStream(ctx context.Context, prompt string, history []Exchange, opts ...PromptOption) Stream
}
