package orchestration

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/sonavox/liveturn-core/core/generation"
)

// Session is the per-connection state owned by the orchestration layer for
// the connection's lifetime: current interaction id, transcript log, and
// liveness. It holds no global state; collaborators receive it explicitly.
type Session struct {
	ID string

	mu                   sync.RWMutex
	currentInteractionID string
	reservedID           string
	transcript           []generation.Exchange
	live                 bool
}

func newSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	interactionID := uuid.NewString()
	return &Session{
		ID:                   id,
		currentInteractionID: interactionID,
		reservedID:           interactionID,
		live:                 true,
	}
}

// CurrentInteractionID is the last committed interaction id, the fallback
// correlation id for errors.
func (s *Session) CurrentInteractionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentInteractionID
}

// reserveInteractionID hands out the next iteration's id. Reservation is
// monotonic and shared by the audio and text paths, so two concurrent
// iterations can never be tagged with the same id and every event a turn
// emits, interim captions included, carries the id it will finish under.
func (s *Session) reserveInteractionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.reservedID
	if interactionIteration(s.currentInteractionID) > interactionIteration(base) {
		base = s.currentInteractionID
	}
	s.reservedID = nextInteractionID(base)
	return s.reservedID
}

func (s *Session) commitInteraction(interactionID string) {
	s.mu.Lock()
	if interactionIteration(interactionID) > interactionIteration(s.currentInteractionID) {
		s.currentInteractionID = interactionID
	}
	s.mu.Unlock()
}

func (s *Session) appendExchange(prompt, response string) {
	s.mu.Lock()
	s.transcript = append(s.transcript, generation.Exchange{Prompt: prompt, Response: response})
	s.mu.Unlock()
}

// History returns a deep copy of the transcript log, safe to hand to a
// generation request while the session keeps mutating.
func (s *Session) History() []generation.Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var history []generation.Exchange
	copier.Copy(&history, s.transcript)
	return history
}

// IsLive reports whether the session has not been unloaded. Operations on a
// dead session abort immediately.
func (s *Session) IsLive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

func (s *Session) unload() {
	s.mu.Lock()
	s.live = false
	s.mu.Unlock()
}

// SessionRegistry owns session lifecycle: created on load, destroyed on
// unload or disconnect. It is injected into collaborators rather than
// referenced as ambient state.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: map[string]*Session{}}
}

// Load creates (or returns) the session for the id.
func (r *SessionRegistry) Load(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[id]; ok {
		return session
	}
	session := newSession(id)
	r.sessions[session.ID] = session
	return session
}

// Get returns the live session for the id, or nil.
func (r *SessionRegistry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

// Unload marks the session dead and removes it from the registry.
func (r *SessionRegistry) Unload(id string) {
	r.mu.Lock()
	session := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if session != nil {
		session.unload()
	}
}

// Len reports how many sessions are loaded.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
