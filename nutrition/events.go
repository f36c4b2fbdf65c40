// Package nutrition holds the ingestion events raised while something is
// eaten and a minimal eating flow that raises them.
package nutrition

import (
	"github.com/NiaAranea/HardLight"
)

// Cancellable is implemented by events a handler may veto.
type Cancellable interface {
	Cancel()
	Cancelled() bool
}

type cancellable struct {
	cancelled bool
}

// Cancel vetoes the action the event announces.
func (c *cancellable) Cancel() { c.cancelled = true }

// Cancelled reports whether a handler vetoed the action.
func (c *cancellable) Cancelled() bool { return c.cancelled }

// IngestionAttemptEvent is raised at the consumer before it ingests something.
type IngestionAttemptEvent struct {
	cancellable

	// Blocker is the equipment blocking consumption, set only when cancelled.
	Blocker hardlight.EntityUID
}

// BeforeFullyEatenEvent is raised at the food after its last bite, before
// it is deleted. Cancel it to keep the food around.
type BeforeFullyEatenEvent struct {
	cancellable

	User hardlight.EntityUID
}

// AfterFullyEatenEvent is raised at the food once it is finished and about to
// be deleted.
type AfterFullyEatenEvent struct {
	User hardlight.EntityUID
}

// BeforeFullySlicedEvent is raised at the food being sliced, before it is deleted.
type BeforeFullySlicedEvent struct {
	cancellable

	User hardlight.EntityUID
}

// IngestingEvent is raised at the consumer for every bite it takes.
type IngestingEvent struct {
	Food     hardlight.EntityUID
	Split    Solution
	ForceFed bool
}

// IngestedEvent is raised at the food for every bite taken from it.
type IngestedEvent struct {
	// User performs the action, Target does the eating.
	User     hardlight.EntityUID
	Target   hardlight.EntityUID
	Split    Solution
	ForceFed bool

	// Refresh refills the food after this bite.
	Refresh bool
	// Destroy deletes the food after this bite.
	Destroy bool
	// Handled is set by the first handler that reacted, so flavor popups and
	// sounds play once.
	Handled bool
	// Repeat asks for another bite.
	Repeat bool
}

var (
	_ Cancellable = (*IngestionAttemptEvent)(nil)
	_ Cancellable = (*BeforeFullyEatenEvent)(nil)
	_ Cancellable = (*BeforeFullySlicedEvent)(nil)
)
