package tracking

import (
	"fmt"
	"time"
)

// A SyncTimeTracker measures one contiguous burst of synchronous execution.
// Split subdivides the burst in flight without losing ongoing time, which is
// what lets a composite tracker close off busy slices while the underlying
// action keeps running.
type SyncTimeTracker struct {
	trackerLifecycle

	clock Clock
	slice *TimeSlice
}

// NewSyncTimeTracker creates a tracker that reads time from clock.
func NewSyncTimeTracker(clock Clock) *SyncTimeTracker {
	return &SyncTimeTracker{clock: clock}
}

// Start opens the tracked interval at the current time.
func (t *SyncTimeTracker) Start() error {
	if err := t.beginTracking(); err != nil {
		return err
	}

	t.slice = newOpenTimeSlice(t.clock.Now())

	return nil
}

// Stop closes the tracked interval at the current time and finishes the
// tracker.
func (t *SyncTimeTracker) Stop() error {
	if !t.IsTracking() {
		return fmt.Errorf("%w: stop without tracking", ErrInvalidState)
	}

	t.slice.close(t.clock.Now())
	t.finish()

	return nil
}

// Split closes the open interval at the current time and returns it, then
// reopens the tracker at the same instant. The tracker stays Tracking with a
// fresh open interval.
func (t *SyncTimeTracker) Split() (*TimeSlice, error) {
	if !t.IsTracking() {
		return nil, fmt.Errorf("%w: split without tracking", ErrInvalidState)
	}

	now := t.clock.Now()
	closed := t.slice
	closed.close(now)
	t.slice = newOpenTimeSlice(now)

	return closed, nil
}

// Track runs action between Start and Stop. The interval closes even when
// action fails or panics, and action's error comes back unchanged after the
// bookkeeping is done.
func (t *SyncTimeTracker) Track(action func() (any, error)) (any, error) {
	if err := t.Start(); err != nil {
		return nil, err
	}
	defer t.mustStop()

	return action()
}

func (t *SyncTimeTracker) mustStop() {
	if err := t.Stop(); err != nil {
		panic(err)
	}
}

// StartTime returns when the final open interval started. Splitting moves
// this point forward; the slices closed off earlier belong to whoever called
// Split.
func (t *SyncTimeTracker) StartTime() (time.Time, error) {
	if err := t.requireFinished(); err != nil {
		return time.Time{}, err
	}

	return t.slice.StartTime()
}

// StopTime returns when the tracker stopped.
func (t *SyncTimeTracker) StopTime() (time.Time, error) {
	if err := t.requireFinished(); err != nil {
		return time.Time{}, err
	}

	return t.slice.StopTime()
}

// Duration returns the extent of the recorded interval.
func (t *SyncTimeTracker) Duration() (time.Duration, error) {
	if err := t.requireFinished(); err != nil {
		return 0, err
	}

	return t.slice.Duration()
}

// InnerDuration equals Duration: a synchronous burst is all busy time.
func (t *SyncTimeTracker) InnerDuration() (time.Duration, error) {
	return t.Duration()
}
