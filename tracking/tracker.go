// Package tracking records how the wall-clock time of a unit of work is
// spent. Trackers follow a unit through its lifetime and leave behind a
// TimeSpan that separates busy execution from suspended or excluded time.
package tracking

import (
	"fmt"

	"github.com/sarchlab/tracktime/eventloop"
)

// A TimeTracker follows one unit of work through the NotStarted, Tracking,
// and Finished states and exposes the recorded timing once finished. Each
// variant provides its own Track entry point; a tracker is tracked exactly
// once.
type TimeTracker interface {
	TimeSpan

	// IsStarted reports whether tracking has ever begun.
	IsStarted() bool

	// IsTracking reports whether the tracked work is still in flight.
	IsTracking() bool

	// IsFinished reports whether the recorded timing is ready to read.
	IsFinished() bool
}

// A SyncTracker measures a synchronous action. The real implementation is
// SyncTimeTracker; NoOpSyncTimeTracker satisfies the same contract with
// instrumentation disabled.
type SyncTracker interface {
	TimeTracker
	Track(action func() (any, error)) (any, error)
}

// An AsyncAction is a unit of work that may finish immediately or hand back
// a pending Deferred.
type AsyncAction func() (eventloop.Outcome, error)

// An AsyncTracker measures an asynchronous action. SimpleAsyncTimeTracker
// and AsyncTimeTracker are the real implementations; NoOpAsyncTimeTracker
// disables instrumentation behind the same contract.
type AsyncTracker interface {
	TimeTracker
	Track(action AsyncAction) (eventloop.Outcome, error)
}

type trackerState int

const (
	stateNotStarted trackerState = iota
	stateTracking
	stateFinished
)

// trackerLifecycle is the state machine every tracker variant embeds.
type trackerLifecycle struct {
	state trackerState
}

// IsStarted reports whether tracking has ever begun.
func (l *trackerLifecycle) IsStarted() bool {
	return l.state != stateNotStarted
}

// IsTracking reports whether tracking is in progress.
func (l *trackerLifecycle) IsTracking() bool {
	return l.state == stateTracking
}

// IsFinished reports whether tracking has completed.
func (l *trackerLifecycle) IsFinished() bool {
	return l.state == stateFinished
}

// beginTracking moves NotStarted to Tracking. A tracker begins exactly once.
func (l *trackerLifecycle) beginTracking() error {
	if l.state != stateNotStarted {
		return fmt.Errorf("%w: already tracked", ErrInvalidState)
	}

	l.state = stateTracking

	return nil
}

// finish moves Tracking to Finished.
func (l *trackerLifecycle) finish() {
	if l.state != stateTracking {
		panic("tracking: finish outside of tracking")
	}

	l.state = stateFinished
}

// requireFinished guards the data accessors.
func (l *trackerLifecycle) requireFinished() error {
	if l.state != stateFinished {
		return fmt.Errorf(
			"%w: tracker has not finished", ErrInvalidState)
	}

	return nil
}
