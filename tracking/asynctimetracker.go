package tracking

import (
	"time"

	"github.com/sarchlab/tracktime/eventloop"
)

// An AsyncTimeTracker measures only the time an asynchronous action's own
// code actually runs. It intercepts every resumption of the tracked extent
// and records each execution burst as its own slice, so the recorded group's
// InnerDuration is busy time while Duration minus InnerDuration is the time
// spent suspended or inside excluded nested regions.
//
// Nested regions owned by other trackers are excluded from the busy time
// unless the tracker is built with nested tracking on.
type AsyncTimeTracker struct {
	trackerLifecycle

	clock       Clock
	loop        *eventloop.Loop
	trackNested bool
	slices      *TimeSliceGroup
}

// AsyncTimeTrackerBuilder can build async time trackers.
type AsyncTimeTrackerBuilder struct {
	clock       Clock
	loop        *eventloop.Loop
	trackNested bool
}

// MakeAsyncTimeTrackerBuilder returns a builder with the wall clock as the
// default time source.
func MakeAsyncTimeTrackerBuilder() AsyncTimeTrackerBuilder {
	return AsyncTimeTrackerBuilder{clock: WallClock{}}
}

// WithClock sets the clock the tracker reads time from.
func (b AsyncTimeTrackerBuilder) WithClock(
	clock Clock,
) AsyncTimeTrackerBuilder {
	b.clock = clock
	return b
}

// WithLoop sets the loop whose resumptions the tracker intercepts.
func (b AsyncTimeTrackerBuilder) WithLoop(
	loop *eventloop.Loop,
) AsyncTimeTrackerBuilder {
	b.loop = loop
	return b
}

// WithNestedTracking decides whether time spent in differently-owned tracked
// regions nested inside the action counts as this tracker's busy time.
func (b AsyncTimeTrackerBuilder) WithNestedTracking(
	trackNested bool,
) AsyncTimeTrackerBuilder {
	b.trackNested = trackNested
	return b
}

// Build returns the tracker.
func (b AsyncTimeTrackerBuilder) Build() *AsyncTimeTracker {
	if b.loop == nil {
		panic("tracking: async time tracker requires a loop")
	}

	return &AsyncTimeTracker{
		clock:       b.clock,
		loop:        b.loop,
		trackNested: b.trackNested,
		slices:      newEmptyTimeSliceGroup(),
	}
}

// Track runs action inside a scope owned by this tracker and intercepts
// every resumption of that scope. An immediate result or synchronous error
// finishes the tracker on the way out. A pending result leaves the tracker
// running: when the deferred settles, the settlement is forwarded unchanged
// and a finisher is queued behind it, so slices opened by the settlement's
// own callbacks close before the tracker flips to Finished.
func (t *AsyncTimeTracker) Track(
	action AsyncAction,
) (eventloop.Outcome, error) {
	if err := t.beginTracking(); err != nil {
		return eventloop.Outcome{}, err
	}

	pending := false
	defer func() {
		if !pending {
			t.finish()
		}
	}()

	scope := t.loop.CurrentScope().Fork(t, t)

	var outcome eventloop.Outcome
	var actionErr error
	t.loop.RunInScope(scope, func() {
		outcome, actionErr = action()
	})

	if actionErr != nil {
		return eventloop.Outcome{}, actionErr
	}

	if !outcome.IsPending() {
		return outcome, nil
	}

	pending = true
	tracked := outcome.Deferred()
	result := eventloop.NewDeferred(tracked.Loop())

	tracked.OnSettled(func(value any, err error) {
		if err != nil {
			result.Reject(err)
		} else {
			result.Resolve(value)
		}

		// One extra round trip through the queue: the finisher runs on the
		// root scope, records nothing, and flips the state only after the
		// settlement's callbacks have run.
		t.loop.SubmitBare(t.finish)
	})

	return eventloop.Pending(result), nil
}

// Intercept runs before every resumption whose scope chain contains this
// tracker. It keeps the slice group in step with how control enters and
// leaves the tracked code.
func (t *AsyncTimeTracker) Intercept(ctx eventloop.InvokeCtx, run func()) {
	if t.IsFinished() {
		// Stray resumption outliving the tracked action, such as a timer
		// that fires after settlement.
		run()
		return
	}

	midBurst := t.isMidBurst()
	excluded := !t.trackNested && ctx.Scope.Owner() != t

	switch {
	case midBurst && excluded:
		t.suspendBurstAround(run)
	case excluded:
		// Foreign-owned code outside any burst: its time is invisible.
		run()
	case midBurst:
		// The open burst simply continues through this resumption.
		run()
	default:
		t.runInFreshBurst(run)
	}
}

// isMidBurst reports whether the group's last entry is a burst that is still
// open, which happens only when a resumption re-enters while another is in
// progress.
func (t *AsyncTimeTracker) isMidBurst() bool {
	burst, ok := t.slices.lastEntry().(*SyncTimeTracker)
	return ok && burst.IsTracking()
}

// runInFreshBurst opens a new burst around run. The burst closes when run
// returns, even by panic.
func (t *AsyncTimeTracker) runInFreshBurst(run func()) {
	burst := NewSyncTimeTracker(t.clock)
	if err := burst.Start(); err != nil {
		panic(err)
	}

	t.slices.push(burst)
	defer burst.mustStop()

	run()
}

// suspendBurstAround cuts a foreign-owned region out of the open burst. The
// busy time so far is closed off and replaces the open burst in the group;
// the time run takes is split off and discarded; the same burst then rejoins
// the group, open again, so tracking resumes seamlessly. The tail of the
// surgery is deferred so that a panicking nested region still leaves the
// group consistent.
func (t *AsyncTimeTracker) suspendBurstAround(run func()) {
	burst := t.slices.lastEntry().(*SyncTimeTracker)

	busySoFar, err := burst.Split()
	if err != nil {
		panic(err)
	}

	t.slices.replaceLast(busySoFar)

	defer func() {
		if _, err := burst.Split(); err != nil {
			panic(err)
		}

		t.slices.push(burst)
	}()

	run()
}

// Slices returns the recorded group once tracking has finished.
func (t *AsyncTimeTracker) Slices() (*TimeSliceGroup, error) {
	if err := t.requireFinished(); err != nil {
		return nil, err
	}

	return t.slices, nil
}

// StartTime returns when the first recorded burst began.
func (t *AsyncTimeTracker) StartTime() (time.Time, error) {
	if err := t.requireFinished(); err != nil {
		return time.Time{}, err
	}

	return t.slices.StartTime()
}

// StopTime returns when the last recorded burst ended.
func (t *AsyncTimeTracker) StopTime() (time.Time, error) {
	if err := t.requireFinished(); err != nil {
		return time.Time{}, err
	}

	return t.slices.StopTime()
}

// Duration returns the outer span of the recorded group, suspended time
// included.
func (t *AsyncTimeTracker) Duration() (time.Duration, error) {
	if err := t.requireFinished(); err != nil {
		return 0, err
	}

	return t.slices.Duration()
}

// InnerDuration returns the busy time attributed to this tracker.
func (t *AsyncTimeTracker) InnerDuration() (time.Duration, error) {
	if err := t.requireFinished(); err != nil {
		return 0, err
	}

	return t.slices.InnerDuration()
}
