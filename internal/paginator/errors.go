package paginator

import (
	"fmt"

	"logpull/internal/model"
)

// RetrievalError reports a failed fetch against a single stream. It wraps
// the transport or service error from the SDK call.
type RetrievalError struct {
	Stream    model.StreamHandle
	Direction Direction
	Err       error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("fetch %s page of %s/%s: %v", e.Direction, e.Stream.Group, e.Stream.Stream, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// StalledPaginationError reports that an assembly hit its page cap without
// the service signaling exhaustion. It indicates a protocol-level
// inconsistency and must not be retried in a loop.
type StalledPaginationError struct {
	Stream    model.StreamHandle
	Direction Direction
	Pages     int
}

func (e *StalledPaginationError) Error() string {
	return fmt.Sprintf("pagination stalled on %s/%s: %d %s pages without exhaustion", e.Stream.Group, e.Stream.Stream, e.Pages, e.Direction)
}
