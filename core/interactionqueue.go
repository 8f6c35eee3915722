package orchestration

import (
	"sync"

	"github.com/sonavox/liveturn-core/core/speechtotext"
)

// AdmittedTurn is the queue's answer when a turn is claimed for dispatch.
type AdmittedTurn struct {
	InteractionID string
	Text          string
}

type queueEntry struct {
	interactionID string
	text          string
}

// InteractionQueue serializes generation dispatch per session: turns are
// recorded once, ordered by their numeric iteration suffix rather than
// arrival order, and claimed strictly in ascending order with at most one
// turn running at a time.
//
// All transitions are idempotent and keyed by interaction id, so Admit is
// safe to call redundantly from racing callbacks; claiming goes through an
// insert-if-absent set so two concurrent evaluations can never dispatch the
// same turn.
type InteractionQueue struct {
	mu sync.Mutex

	queued  map[int]queueEntry
	claimed map[int]bool

	runningIteration int
	runningID        string

	completed      map[int]bool
	completedCount int
}

func NewInteractionQueue() *InteractionQueue {
	return &InteractionQueue{
		queued:    map[int]queueEntry{},
		claimed:   map[int]bool{},
		completed: map[int]bool{},
	}
}

// Admit records the detected turn (once) and then evaluates dispatch: when
// nothing is running and the next iteration in ascending order is queued,
// that turn is claimed and returned; otherwise nil. Passing a nil turn only
// re-evaluates dispatch, which is how a completed generation lets the next
// queued turn advance.
func (q *InteractionQueue) Admit(turn *speechtotext.Turn) *AdmittedTurn {
	q.mu.Lock()
	defer q.mu.Unlock()

	if turn != nil {
		iteration := interactionIteration(turn.InteractionID)
		if iteration > q.completedCount && !q.claimed[iteration] && !q.completed[iteration] {
			if _, recorded := q.queued[iteration]; !recorded {
				q.queued[iteration] = queueEntry{interactionID: turn.InteractionID, text: turn.Transcript}
			}
		}
	}

	if q.runningIteration != 0 {
		return nil
	}

	next := q.completedCount + 1
	entry, ok := q.queued[next]
	if !ok {
		return nil
	}
	if q.claimed[next] {
		return nil
	}

	q.claimed[next] = true
	q.runningIteration = next
	q.runningID = entry.interactionID
	delete(q.queued, next)

	return &AdmittedTurn{InteractionID: entry.interactionID, Text: entry.text}
}

// Complete marks the interaction's generation finished. Transitions are
// forward-only: completing twice is a no-op and can never reopen the id for
// a second running claim.
func (q *InteractionQueue) Complete(interactionID string) {
	iteration := interactionIteration(interactionID)

	q.mu.Lock()
	defer q.mu.Unlock()

	if iteration == 0 || q.completed[iteration] {
		return
	}
	q.completed[iteration] = true
	// The claim cursor only advances through consecutively completed
	// iterations, so an out-of-order completion can never leapfrog a
	// still-queued turn.
	for q.completed[q.completedCount+1] {
		q.completedCount++
	}
	if q.runningIteration == iteration {
		q.runningIteration = 0
		q.runningID = ""
	}
}

// RunningID returns the interaction currently dispatched, empty when idle.
func (q *InteractionQueue) RunningID() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.runningID
}

// Idle reports whether no dispatch is in flight.
func (q *InteractionQueue) Idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.runningIteration == 0
}
