package tracking

import (
	"fmt"
	"time"

	"github.com/sarchlab/tracktime/eventloop"
)

// noOpSpan fails every data accessor. Both no-op variants embed it.
type noOpSpan struct{}

func (noOpSpan) StartTime() (time.Time, error) {
	return time.Time{}, errNoOpData()
}

func (noOpSpan) StopTime() (time.Time, error) {
	return time.Time{}, errNoOpData()
}

func (noOpSpan) Duration() (time.Duration, error) {
	return 0, errNoOpData()
}

func (noOpSpan) InnerDuration() (time.Duration, error) {
	return 0, errNoOpData()
}

func errNoOpData() error {
	return fmt.Errorf("%w: no-op tracker holds no timing data", ErrUnsupported)
}

// A NoOpSyncTimeTracker satisfies the SyncTracker contract with
// instrumentation disabled: Track runs the action with no timing at all.
// The lifecycle is still enforced, so a disabled tracker misbehaves exactly
// where a real one would; only the data accessors differ, failing with an
// Unsupported error instead of returning measurements.
type NoOpSyncTimeTracker struct {
	trackerLifecycle
	noOpSpan
}

// NewNoOpSyncTimeTracker creates a disabled synchronous tracker.
func NewNoOpSyncTimeTracker() *NoOpSyncTimeTracker {
	return &NoOpSyncTimeTracker{}
}

// Track runs action and returns its result untouched.
func (t *NoOpSyncTimeTracker) Track(
	action func() (any, error),
) (any, error) {
	if err := t.beginTracking(); err != nil {
		return nil, err
	}
	defer t.finish()

	return action()
}

// A NoOpAsyncTimeTracker satisfies the AsyncTracker contract with
// instrumentation disabled.
type NoOpAsyncTimeTracker struct {
	trackerLifecycle
	noOpSpan
}

// NewNoOpAsyncTimeTracker creates a disabled asynchronous tracker.
func NewNoOpAsyncTimeTracker() *NoOpAsyncTimeTracker {
	return &NoOpAsyncTimeTracker{}
}

// Track runs action and returns its outcome untouched. The tracker finishes
// when action returns; a pending outcome is not followed to settlement, as
// there is nothing to record.
func (t *NoOpAsyncTimeTracker) Track(
	action AsyncAction,
) (eventloop.Outcome, error) {
	if err := t.beginTracking(); err != nil {
		return eventloop.Outcome{}, err
	}
	defer t.finish()

	return action()
}
