package tracking

import (
	"fmt"
	"time"
)

// A Record is the serializable form of a closed time slice.
type Record struct {
	StartTime time.Time `json:"start_time"`
	StopTime  time.Time `json:"stop_time"`
}

// Duration returns the record's span.
func (r Record) Duration() time.Duration {
	return r.StopTime.Sub(r.StartTime)
}

// Record converts a closed slice to its serializable form. It fails while
// the slice is open.
func (s *TimeSlice) Record() (Record, error) {
	if !s.closed {
		return Record{}, fmt.Errorf(
			"%w: time slice is still open", ErrInvalidState)
	}

	return Record{StartTime: s.start, StopTime: s.stop}, nil
}

// NewTimeSliceFromRecord rebuilds a closed slice from its serialized form.
func NewTimeSliceFromRecord(r Record) (*TimeSlice, error) {
	return NewTimeSlice(r.StartTime, r.StopTime)
}
