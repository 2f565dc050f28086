package tracking

import (
	"fmt"
	"time"
)

// A TimeSlice is one contiguous interval of recorded wall-clock time. A slice
// is open while only its start is known and immutable once both ends are set.
// Equal start and stop times are valid and describe a zero-duration slice.
type TimeSlice struct {
	start  time.Time
	stop   time.Time
	closed bool
}

// NewTimeSlice creates a closed slice spanning start to stop. Stop must not
// be before start.
func NewTimeSlice(start, stop time.Time) (*TimeSlice, error) {
	if stop.Before(start) {
		return nil, fmt.Errorf(
			"%w: time slice stops before it starts", ErrInvalidState)
	}

	return &TimeSlice{start: start, stop: stop, closed: true}, nil
}

// newOpenTimeSlice creates a slice that has started but not stopped yet.
func newOpenTimeSlice(start time.Time) *TimeSlice {
	return &TimeSlice{start: start}
}

// close sets the stop time. Only the owning tracker closes a slice, exactly
// once, with a stop no earlier than the start.
func (s *TimeSlice) close(stop time.Time) {
	if s.closed {
		panic("tracking: time slice closed twice")
	}

	if stop.Before(s.start) {
		panic("tracking: time slice stops before it starts")
	}

	s.stop = stop
	s.closed = true
}

// IsClosed reports whether both ends of the slice are set.
func (s *TimeSlice) IsClosed() bool {
	return s.closed
}

// StartTime returns when the slice started.
func (s *TimeSlice) StartTime() (time.Time, error) {
	return s.start, nil
}

// StopTime returns when the slice stopped. It fails while the slice is open.
func (s *TimeSlice) StopTime() (time.Time, error) {
	if !s.closed {
		return time.Time{}, fmt.Errorf(
			"%w: time slice is still open", ErrInvalidState)
	}

	return s.stop, nil
}

// Duration returns the stop time minus the start time. It fails while the
// slice is open.
func (s *TimeSlice) Duration() (time.Duration, error) {
	if !s.closed {
		return 0, fmt.Errorf(
			"%w: time slice is still open", ErrInvalidState)
	}

	return s.stop.Sub(s.start), nil
}

// InnerDuration equals Duration for a plain slice.
func (s *TimeSlice) InnerDuration() (time.Duration, error) {
	return s.Duration()
}

func (s *TimeSlice) String() string {
	if !s.closed {
		return fmt.Sprintf("[%s, ...)",
			s.start.Format(time.RFC3339Nano))
	}

	return fmt.Sprintf("[%s, %s]",
		s.start.Format(time.RFC3339Nano),
		s.stop.Format(time.RFC3339Nano))
}
