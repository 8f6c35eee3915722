package events

import "time"

type Kind string

type Event interface {
	Kind() Kind
	Timestamp() time.Time
	InteractionID() string
}

type Base struct {
	kind          Kind
	timestamp     time.Time
	interactionID string
}

func NewBase(kind Kind, interactionID string) Base {
	return Base{kind: kind, timestamp: time.Now(), interactionID: interactionID}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}

// InteractionID is the `<base>#<n>` id of the interaction the event belongs
// to. Receivers key UI state by it and drop stale events relative to the
// latest id they have seen per direction.
func (b Base) InteractionID() string {
	return b.interactionID
}
