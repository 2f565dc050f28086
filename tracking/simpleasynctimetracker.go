package tracking

import "github.com/sarchlab/tracktime/eventloop"

// A SimpleAsyncTimeTracker measures an asynchronous action as one contiguous
// slice from invocation to settlement. Time the action spends suspended
// counts the same as execution time, which makes this the coarse,
// low-overhead tracking mode.
type SimpleAsyncTimeTracker struct {
	*SyncTimeTracker
}

// NewSimpleAsyncTimeTracker creates a tracker that reads time from clock.
func NewSimpleAsyncTimeTracker(clock Clock) *SimpleAsyncTimeTracker {
	return &SimpleAsyncTimeTracker{
		SyncTimeTracker: NewSyncTimeTracker(clock),
	}
}

// Track starts timing and runs action. An immediate result or a synchronous
// error stops the tracker on the spot. A pending result keeps the interval
// open until the deferred settles; the settlement is forwarded unchanged
// after the tracker stops.
func (t *SimpleAsyncTimeTracker) Track(
	action AsyncAction,
) (eventloop.Outcome, error) {
	if err := t.Start(); err != nil {
		return eventloop.Outcome{}, err
	}

	stopHere := true
	defer func() {
		if stopHere {
			t.mustStop()
		}
	}()

	outcome, err := action()
	if err != nil {
		return eventloop.Outcome{}, err
	}

	if !outcome.IsPending() {
		return outcome, nil
	}

	// Pending: the slice stays open until the settlement closes it.
	stopHere = false
	tracked := outcome.Deferred()
	result := eventloop.NewDeferred(tracked.Loop())

	tracked.OnSettled(func(value any, err error) {
		t.mustStop()

		if err != nil {
			result.Reject(err)
			return
		}

		result.Resolve(value)
	})

	return eventloop.Pending(result), nil
}
