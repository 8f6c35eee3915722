package orchestration

import (
	"context"
	"errors"
	"net"
)

// ErrSessionClosed is returned from operations invoked after Close.
var ErrSessionClosed = errors.New("session closed")

// isTimeout reports whether the error represents an exceeded deadline,
// either from a context or from the underlying transport.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
