package tracking

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gmeasure"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("SyncTimeTracker", func() {
	var (
		mockCtrl *gomock.Controller
		clock    *MockClock
		t        *SyncTimeTracker
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		clock = NewMockClock(mockCtrl)

		t = NewSyncTimeTracker(clock)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should begin not started", func() {
		Expect(t.IsStarted()).To(BeFalse())
		Expect(t.IsTracking()).To(BeFalse())
		Expect(t.IsFinished()).To(BeFalse())
	})

	It("should record one interval between start and stop", func() {
		clock.EXPECT().Now().Return(at(0))
		Expect(t.Start()).To(Succeed())
		Expect(t.IsTracking()).To(BeTrue())

		clock.EXPECT().Now().Return(at(120))
		Expect(t.Stop()).To(Succeed())
		Expect(t.IsFinished()).To(BeTrue())

		d, err := t.Duration()
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(120 * time.Millisecond))

		inner, err := t.InnerDuration()
		Expect(err).ToNot(HaveOccurred())
		Expect(inner).To(Equal(d))
	})

	It("should record a zero duration when stopped immediately", func() {
		clock.EXPECT().Now().Return(at(5))
		Expect(t.Start()).To(Succeed())

		clock.EXPECT().Now().Return(at(5))
		Expect(t.Stop()).To(Succeed())

		d, err := t.Duration()
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(time.Duration(0)))
	})

	It("should not start twice", func() {
		clock.EXPECT().Now().Return(at(0))
		Expect(t.Start()).To(Succeed())

		err := t.Start()
		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})

	It("should not stop before starting", func() {
		err := t.Stop()
		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})

	It("should not stop twice", func() {
		clock.EXPECT().Now().Return(at(0))
		Expect(t.Start()).To(Succeed())
		clock.EXPECT().Now().Return(at(10))
		Expect(t.Stop()).To(Succeed())

		err := t.Stop()
		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})

	It("should split off the elapsed interval and keep going", func() {
		clock.EXPECT().Now().Return(at(0))
		Expect(t.Start()).To(Succeed())

		clock.EXPECT().Now().Return(at(30))
		closed, err := t.Split()
		Expect(err).ToNot(HaveOccurred())
		Expect(t.IsTracking()).To(BeTrue())

		d, err := closed.Duration()
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(30 * time.Millisecond))

		clock.EXPECT().Now().Return(at(50))
		Expect(t.Stop()).To(Succeed())

		// The tracker keeps only the interval after the split point.
		start, err := t.StartTime()
		Expect(err).ToNot(HaveOccurred())
		Expect(start).To(Equal(at(30)))

		d, err = t.Duration()
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(20 * time.Millisecond))
	})

	It("should not split before starting or after stopping", func() {
		_, err := t.Split()
		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())

		clock.EXPECT().Now().Return(at(0))
		Expect(t.Start()).To(Succeed())
		clock.EXPECT().Now().Return(at(10))
		Expect(t.Stop()).To(Succeed())

		_, err = t.Split()
		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})

	It("should withhold timing data until finished", func() {
		clock.EXPECT().Now().Return(at(0))
		Expect(t.Start()).To(Succeed())

		_, err := t.Duration()
		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())

		_, err = t.StartTime()
		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())

		_, err = t.StopTime()
		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})

	It("should track an action and return its result", func() {
		clock.EXPECT().Now().Return(at(0))
		clock.EXPECT().Now().Return(at(40))

		result, err := t.Track(func() (any, error) {
			return 42, nil
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(Equal(42))
		Expect(t.IsFinished()).To(BeTrue())

		d, err := t.Duration()
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(40 * time.Millisecond))
	})

	It("should pass the action's error through after closing", func() {
		actionErr := errors.New("action went wrong")

		clock.EXPECT().Now().Return(at(0))
		clock.EXPECT().Now().Return(at(15))

		_, err := t.Track(func() (any, error) {
			return nil, actionErr
		})

		Expect(err).To(BeIdenticalTo(actionErr))
		Expect(t.IsFinished()).To(BeTrue())
	})

	It("should close the interval even when the action panics", func() {
		clock.EXPECT().Now().Return(at(0))
		clock.EXPECT().Now().Return(at(25))

		Expect(func() {
			_, _ = t.Track(func() (any, error) {
				panic("action exploded")
			})
		}).To(Panic())

		Expect(t.IsFinished()).To(BeTrue())

		d, err := t.Duration()
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(25 * time.Millisecond))
	})

	It("should not track twice", func() {
		clock.EXPECT().Now().Return(at(0))
		clock.EXPECT().Now().Return(at(10))

		_, err := t.Track(func() (any, error) { return nil, nil })
		Expect(err).ToNot(HaveOccurred())

		_, err = t.Track(func() (any, error) { return nil, nil })
		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})

	It("measure sync time tracker", func() {
		experiment := gmeasure.NewExperiment("Sync Time Tracker Performance")
		AddReportEntry(experiment.Name, experiment)

		clock.EXPECT().Now().Return(at(0)).AnyTimes()

		experiment.MeasureDuration("runtime", func() {
			for i := 0; i < 100000; i++ {
				tracker := NewSyncTimeTracker(clock)
				_, _ = tracker.Track(func() (any, error) {
					return nil, nil
				})
			}
		})
	})
})
