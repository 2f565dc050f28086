package tracking

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/tracktime/eventloop"
)

var _ = Describe("SimpleAsyncTimeTracker", func() {
	var (
		mockCtrl *gomock.Controller
		clock    *MockClock
		loop     *eventloop.Loop
		t        *SimpleAsyncTimeTracker
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		clock = NewMockClock(mockCtrl)
		loop = eventloop.NewLoop()

		t = NewSimpleAsyncTimeTracker(clock)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should stop on the spot for an immediate result", func() {
		clock.EXPECT().Now().Return(at(0))
		clock.EXPECT().Now().Return(at(100))

		outcome, err := t.Track(func() (eventloop.Outcome, error) {
			return eventloop.Immediate("done"), nil
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(outcome.IsPending()).To(BeFalse())
		Expect(outcome.Value()).To(Equal("done"))
		Expect(t.IsFinished()).To(BeTrue())

		d, err := t.Duration()
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(100 * time.Millisecond))
	})

	It("should stop before passing a synchronous error through", func() {
		actionErr := errors.New("refused to even start")

		clock.EXPECT().Now().Return(at(0))
		clock.EXPECT().Now().Return(at(10))

		_, err := t.Track(func() (eventloop.Outcome, error) {
			return eventloop.Outcome{}, actionErr
		})

		Expect(err).To(BeIdenticalTo(actionErr))
		Expect(t.IsFinished()).To(BeTrue())
	})

	It("should span the whole asynchronous lifetime as one interval", func() {
		clock.EXPECT().Now().Return(at(0))
		clock.EXPECT().Now().Return(at(400))

		var d *eventloop.Deferred
		outcome, err := t.Track(func() (eventloop.Outcome, error) {
			d = eventloop.NewDeferred(loop)
			return eventloop.Pending(d), nil
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(outcome.IsPending()).To(BeTrue())
		Expect(t.IsTracking()).To(BeTrue())

		var settledValue any
		outcome.Deferred().OnResolved(func(value any) {
			// The tracker's bookkeeping closes before the settlement is
			// forwarded.
			Expect(t.IsFinished()).To(BeTrue())
			settledValue = value
		})

		loop.SubmitBare(func() { d.Resolve("late result") })
		Expect(loop.Run()).To(Succeed())

		Expect(settledValue).To(Equal("late result"))
		Expect(t.IsFinished()).To(BeTrue())

		// One contiguous slice, suspended time included.
		duration, err := t.Duration()
		Expect(err).ToNot(HaveOccurred())
		Expect(duration).To(Equal(400 * time.Millisecond))

		inner, err := t.InnerDuration()
		Expect(err).ToNot(HaveOccurred())
		Expect(inner).To(Equal(duration))
	})

	It("should forward a rejection unchanged after stopping", func() {
		settleErr := errors.New("settled badly")

		clock.EXPECT().Now().Return(at(0))
		clock.EXPECT().Now().Return(at(50))

		var d *eventloop.Deferred
		outcome, _ := t.Track(func() (eventloop.Outcome, error) {
			d = eventloop.NewDeferred(loop)
			return eventloop.Pending(d), nil
		})

		var forwarded error
		outcome.Deferred().OnSettled(func(value any, err error) {
			forwarded = err
		})

		loop.SubmitBare(func() { d.Reject(settleErr) })
		Expect(loop.Run()).To(Succeed())

		Expect(forwarded).To(BeIdenticalTo(settleErr))
		Expect(t.IsFinished()).To(BeTrue())
	})

	It("should close the interval even when the action panics", func() {
		clock.EXPECT().Now().Return(at(0))
		clock.EXPECT().Now().Return(at(20))

		Expect(func() {
			_, _ = t.Track(func() (eventloop.Outcome, error) {
				panic("action exploded")
			})
		}).To(Panic())

		Expect(t.IsFinished()).To(BeTrue())
	})

	It("should not track twice", func() {
		clock.EXPECT().Now().Return(at(0))
		clock.EXPECT().Now().Return(at(10))

		_, err := t.Track(func() (eventloop.Outcome, error) {
			return eventloop.Immediate(nil), nil
		})
		Expect(err).ToNot(HaveOccurred())

		_, err = t.Track(func() (eventloop.Outcome, error) {
			return eventloop.Immediate(nil), nil
		})
		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})
})
