package orchestration

import "testing"

func TestInteractionIterationParsesTrailingSuffix(t *testing.T) {
	cases := []struct {
		id   string
		want int
	}{
		{id: "session#1", want: 1},
		{id: "session#42", want: 42},
		{id: "session", want: 0},
		{id: "session#", want: 0},
		{id: "session#abc", want: 0},
		{id: "a#b#7", want: 7},
		{id: "", want: 0},
	}

	for _, tc := range cases {
		if got := interactionIteration(tc.id); got != tc.want {
			t.Fatalf("expected iteration %d for %q, got %d", tc.want, tc.id, got)
		}
	}
}

func TestNextInteractionIDIncrementsIteration(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{id: "session", want: "session#1"},
		{id: "session#1", want: "session#2"},
		{id: "session#9", want: "session#10"},
		{id: "session#bad", want: "session#bad#1"},
	}

	for _, tc := range cases {
		if got := nextInteractionID(tc.id); got != tc.want {
			t.Fatalf("expected %q after %q, got %q", tc.want, tc.id, got)
		}
	}
}
