package orchestration

import (
	"fmt"
	"strconv"
	"strings"
)

// interactionIteration parses the trailing `#<n>` of an interaction id.
// Ids without a parseable suffix report iteration 0.
func interactionIteration(interactionID string) int {
	idx := strings.LastIndex(interactionID, "#")
	if idx < 0 {
		return 0
	}

	iteration, err := strconv.Atoi(interactionID[idx+1:])
	if err != nil || iteration < 0 {
		return 0
	}
	return iteration
}

// interactionBase strips the trailing `#<n>` suffix, if any.
func interactionBase(interactionID string) string {
	idx := strings.LastIndex(interactionID, "#")
	if idx < 0 {
		return interactionID
	}
	if _, err := strconv.Atoi(interactionID[idx+1:]); err != nil {
		return interactionID
	}
	return interactionID[:idx]
}

// nextInteractionID derives the id for the next iteration by incrementing
// the last-seen iteration. A bare base id starts the sequence at 1.
func nextInteractionID(lastID string) string {
	return fmt.Sprintf("%s#%d", interactionBase(lastID), interactionIteration(lastID)+1)
}
