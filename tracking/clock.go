package tracking

import "time"

// A Clock tells the current wall-clock time. Trackers read time only through
// this interface so that tests can substitute a scripted source.
type Clock interface {
	Now() time.Time
}

// WallClock is the Clock backed by the system time source.
type WallClock struct{}

// Now returns the current system time.
func (WallClock) Now() time.Time {
	return time.Now()
}
