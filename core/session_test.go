package orchestration

import "testing"

func TestSessionHistoryIsDeepCopied(t *testing.T) {
	session := newSession("session")
	session.appendExchange("hello", "hi there")

	history := session.History()
	if len(history) != 1 {
		t.Fatalf("expected one exchange, got %d", len(history))
	}
	history[0].Response = "mutated"

	if got := session.History()[0].Response; got != "hi there" {
		t.Fatalf("expected the session transcript to be isolated from snapshots, got %q", got)
	}
}

func TestSessionCommitInteractionIsForwardOnly(t *testing.T) {
	session := newSession("session")

	session.commitInteraction("session#3")
	if got := session.CurrentInteractionID(); got != "session#3" {
		t.Fatalf("expected iteration 3 committed, got %q", got)
	}

	session.commitInteraction("session#2")
	if got := session.CurrentInteractionID(); got != "session#3" {
		t.Fatalf("expected a stale commit to be ignored, got %q", got)
	}

	if got := session.reserveInteractionID(); got != "session#4" {
		t.Fatalf("expected the next reservation to follow the committed id, got %q", got)
	}
}

func TestSessionReservationsNeverCollide(t *testing.T) {
	session := newSession("session")

	first := session.reserveInteractionID()
	second := session.reserveInteractionID()
	if first == second {
		t.Fatalf("expected distinct reservations, got %q twice", first)
	}
	if interactionIteration(second) != interactionIteration(first)+1 {
		t.Fatalf("expected consecutive iterations, got %q then %q", first, second)
	}

	// Committing the later reservation first must not recycle the earlier
	// one's id.
	session.commitInteraction(second)
	session.commitInteraction(first)
	if got := session.reserveInteractionID(); interactionIteration(got) != interactionIteration(second)+1 {
		t.Fatalf("expected the reservation sequence to keep advancing, got %q after %q", got, second)
	}
}

func TestRegistryLifecycle(t *testing.T) {
	registry := NewSessionRegistry()

	session := registry.Load("s1")
	if session == nil || !session.IsLive() {
		t.Fatalf("expected a live session on load")
	}
	if again := registry.Load("s1"); again != session {
		t.Fatalf("expected load to return the existing session")
	}
	if got := registry.Len(); got != 1 {
		t.Fatalf("expected one loaded session, got %d", got)
	}

	registry.Unload("s1")
	if session.IsLive() {
		t.Fatalf("expected unload to mark the session dead")
	}
	if got := registry.Get("s1"); got != nil {
		t.Fatalf("expected the session to be removed, got %v", got)
	}
}
