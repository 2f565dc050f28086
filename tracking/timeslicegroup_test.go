package tracking

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func mustSlice(startMs, stopMs int) *TimeSlice {
	s, err := NewTimeSlice(at(startMs), at(stopMs))
	if err != nil {
		panic(err)
	}

	return s
}

var _ = Describe("TimeSliceGroup", func() {
	It("should refuse to be empty", func() {
		_, err := NewTimeSliceGroup()

		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})

	It("should take its bounds from the first and last entries", func() {
		g, err := NewTimeSliceGroup(
			mustSlice(0, 10),
			mustSlice(20, 30),
			mustSlice(30, 45),
		)

		Expect(err).ToNot(HaveOccurred())
		Expect(g.Len()).To(Equal(3))

		start, err := g.StartTime()
		Expect(err).ToNot(HaveOccurred())
		Expect(start).To(Equal(at(0)))

		stop, err := g.StopTime()
		Expect(err).ToNot(HaveOccurred())
		Expect(stop).To(Equal(at(45)))

		d, err := g.Duration()
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(45 * time.Millisecond))
	})

	It("should separate busy time from the outer span", func() {
		g, _ := NewTimeSliceGroup(
			mustSlice(0, 10),
			mustSlice(20, 30),
		)

		inner, err := g.InnerDuration()
		Expect(err).ToNot(HaveOccurred())
		Expect(inner).To(Equal(20 * time.Millisecond))

		d, _ := g.Duration()
		Expect(inner).To(BeNumerically("<", d))
	})

	It("should recurse into nested groups for busy time", func() {
		nested, err := NewTimeSliceGroup(
			mustSlice(20, 25),
			mustSlice(35, 40),
		)
		Expect(err).ToNot(HaveOccurred())

		g, err := NewTimeSliceGroup(
			mustSlice(0, 10),
			nested,
			mustSlice(50, 60),
		)
		Expect(err).ToNot(HaveOccurred())

		// The nested group counts for its busy 10ms, not its 20ms span.
		inner, err := g.InnerDuration()
		Expect(err).ToNot(HaveOccurred())
		Expect(inner).To(Equal(30 * time.Millisecond))

		d, err := g.Duration()
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(60 * time.Millisecond))
	})

	It("should match busy time and span when entries are adjacent", func() {
		g, _ := NewTimeSliceGroup(
			mustSlice(0, 10),
			mustSlice(10, 30),
		)

		inner, _ := g.InnerDuration()
		d, _ := g.Duration()

		Expect(inner).To(Equal(d))
	})

	It("should reject entries that run backwards", func() {
		_, err := NewTimeSliceGroup(
			mustSlice(20, 30),
			mustSlice(0, 10),
		)

		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})

	It("should reject overlapping entries", func() {
		_, err := NewTimeSliceGroup(
			mustSlice(0, 20),
			mustSlice(10, 30),
		)

		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})

	It("should reject open entries", func() {
		_, err := NewTimeSliceGroup(newOpenTimeSlice(at(0)))

		Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())
	})

	It("should hand out a copy of its entries", func() {
		first := mustSlice(0, 10)
		g, _ := NewTimeSliceGroup(first, mustSlice(10, 20))

		entries := g.Entries()
		entries[0] = mustSlice(90, 95)

		Expect(g.Entries()[0]).To(BeIdenticalTo(first))
	})
})
