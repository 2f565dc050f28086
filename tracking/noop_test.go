package tracking

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tracktime/eventloop"
)

var _ = Describe("NoOpSyncTimeTracker", func() {
	var t *NoOpSyncTimeTracker

	BeforeEach(func() {
		t = NewNoOpSyncTimeTracker()
	})

	It("should run the action untimed and return its result", func() {
		result, err := t.Track(func() (any, error) {
			return "still works", nil
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(Equal("still works"))
		Expect(t.IsFinished()).To(BeTrue())
	})

	It("should pass the action's error through", func() {
		actionErr := errors.New("as broken as ever")

		_, err := t.Track(func() (any, error) {
			return nil, actionErr
		})

		Expect(err).To(BeIdenticalTo(actionErr))
		Expect(t.IsFinished()).To(BeTrue())
	})

	It("should not track twice", func() {
		_, err := t.Track(func() (any, error) { return nil, nil })
		Expect(err).ToNot(HaveOccurred())

		_, err = t.Track(func() (any, error) { return nil, nil })
		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})

	It("should refuse to serve timing data", func() {
		_, _ = t.Track(func() (any, error) { return nil, nil })

		_, err := t.StartTime()
		Expect(errors.Is(err, ErrUnsupported)).To(BeTrue())

		_, err = t.StopTime()
		Expect(errors.Is(err, ErrUnsupported)).To(BeTrue())

		_, err = t.Duration()
		Expect(errors.Is(err, ErrUnsupported)).To(BeTrue())

		_, err = t.InnerDuration()
		Expect(errors.Is(err, ErrUnsupported)).To(BeTrue())
	})

	It("should satisfy the sync tracker contract", func() {
		var _ SyncTracker = NewNoOpSyncTimeTracker()
		var _ SyncTracker = NewSyncTimeTracker(WallClock{})
	})
})

var _ = Describe("NoOpAsyncTimeTracker", func() {
	var t *NoOpAsyncTimeTracker

	BeforeEach(func() {
		t = NewNoOpAsyncTimeTracker()
	})

	It("should run the action untimed and return its outcome", func() {
		outcome, err := t.Track(func() (eventloop.Outcome, error) {
			return eventloop.Immediate(99), nil
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(outcome.Value()).To(Equal(99))
		Expect(t.IsFinished()).To(BeTrue())
	})

	It("should hand a pending outcome back untouched", func() {
		loop := eventloop.NewLoop()
		d := eventloop.NewDeferred(loop)

		outcome, err := t.Track(func() (eventloop.Outcome, error) {
			return eventloop.Pending(d), nil
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(outcome.IsPending()).To(BeTrue())
		Expect(outcome.Deferred()).To(BeIdenticalTo(d))

		// Nothing is recorded, so there is nothing to wait for.
		Expect(t.IsFinished()).To(BeTrue())
	})

	It("should not track twice", func() {
		_, err := t.Track(func() (eventloop.Outcome, error) {
			return eventloop.Immediate(nil), nil
		})
		Expect(err).ToNot(HaveOccurred())

		_, err = t.Track(func() (eventloop.Outcome, error) {
			return eventloop.Immediate(nil), nil
		})
		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})

	It("should refuse to serve timing data", func() {
		_, err := t.Duration()
		Expect(errors.Is(err, ErrUnsupported)).To(BeTrue())

		_, err = t.InnerDuration()
		Expect(errors.Is(err, ErrUnsupported)).To(BeTrue())
	})

	It("should satisfy the async tracker contract", func() {
		loop := eventloop.NewLoop()

		var _ AsyncTracker = NewNoOpAsyncTimeTracker()
		var _ AsyncTracker = NewSimpleAsyncTimeTracker(WallClock{})
		var _ AsyncTracker = MakeAsyncTimeTrackerBuilder().
			WithLoop(loop).
			Build()
	})
})
