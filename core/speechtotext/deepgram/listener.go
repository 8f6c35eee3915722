package deepgram

import (
	"sync"
	"sync/atomic"
)

// turnListener is the per-iteration attachment point for provider turn
// events. Once stopped, every further event is dropped, so a stale partial
// or final arriving after the iteration has decided to end can never
// complete a second turn.
type turnListener struct {
	interactionID string

	onInterim       func(transcript string)
	onSpeechStarted func()

	stopped atomic.Bool

	mu         sync.Mutex
	transcript string
	completed  bool

	done chan struct{}
}

func newTurnListener(interactionID string, onInterim func(string), onSpeechStarted func()) *turnListener {
	return &turnListener{
		interactionID:   interactionID,
		onInterim:       onInterim,
		onSpeechStarted: onSpeechStarted,
		done:            make(chan struct{}),
	}
}

func (l *turnListener) relayInterim(transcript string) {
	if l.stopped.Load() {
		return
	}
	if l.onInterim != nil {
		l.onInterim(transcript)
	}
}

func (l *turnListener) relaySpeechStarted() {
	if l.stopped.Load() {
		return
	}
	if l.onSpeechStarted != nil {
		l.onSpeechStarted()
	}
}

// deliverFinal records the completed transcript and wakes the iteration.
// Only the first delivery wins.
func (l *turnListener) deliverFinal(transcript string) {
	if !l.stopped.CompareAndSwap(false, true) {
		return
	}

	l.mu.Lock()
	l.transcript = transcript
	l.completed = true
	l.mu.Unlock()

	close(l.done)
}

// stop blocks any future deliveries. Safe to call after deliverFinal.
func (l *turnListener) stop() {
	l.stopped.Store(true)
}

// turnComplete reports whether a final has been delivered.
func (l *turnListener) turnComplete() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

func (l *turnListener) result() (transcript string, completed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transcript, l.completed
}

func (s *TranscriptionSession) attachListener(listener *turnListener) {
	s.listenerMu.Lock()
	s.listener = listener
	s.listenerMu.Unlock()
}

func (s *TranscriptionSession) detachListener(listener *turnListener) {
	listener.stop()
	s.listenerMu.Lock()
	if s.listener == listener {
		s.listener = nil
	}
	s.listenerMu.Unlock()
}
