package tracking

import "time"

// A TimeSpan is a bounded region of recorded wall-clock time. Slices, slice
// groups, and finished trackers all expose their timing through it. Accessors
// fail with an InvalidState error while the region is still open.
type TimeSpan interface {
	// StartTime returns when the region began.
	StartTime() (time.Time, error)

	// StopTime returns when the region ended.
	StopTime() (time.Time, error)

	// Duration returns the outer extent, StopTime minus StartTime. For a
	// group this includes the gaps between entries.
	Duration() (time.Duration, error)

	// InnerDuration returns the busy portion of the region. It equals
	// Duration for a plain slice; a group sums its entries' InnerDuration,
	// leaving gaps and excluded nested regions out.
	InnerDuration() (time.Duration, error)
}
