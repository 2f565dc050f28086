package tracking

import (
	"fmt"
	"time"
)

// A TimeSliceGroup is an ordered sequence of spans describing one logical
// operation: plain slices, nested groups, and finished trackers mix freely.
// Entries never overlap and run in chronological order; gaps between entries
// are suspended or excluded time.
//
// A group built through NewTimeSliceGroup is complete from the start. A group
// owned by a tracker grows while the tracker runs and must only be queried
// once the tracker is finished.
type TimeSliceGroup struct {
	entries []TimeSpan
}

// NewTimeSliceGroup creates a group over the given entries. The group must
// not be empty, every entry must be closed, and the entries must be in
// chronological order without overlap.
func NewTimeSliceGroup(entries ...TimeSpan) (*TimeSliceGroup, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf(
			"%w: time slice group must not be empty", ErrInvalidState)
	}

	g := &TimeSliceGroup{}
	for _, entry := range entries {
		if err := g.appendChecked(entry); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// newEmptyTimeSliceGroup creates a group an owning tracker grows in place.
func newEmptyTimeSliceGroup() *TimeSliceGroup {
	return &TimeSliceGroup{}
}

func (g *TimeSliceGroup) appendChecked(entry TimeSpan) error {
	start, err := entry.StartTime()
	if err != nil {
		return err
	}

	if _, err := entry.StopTime(); err != nil {
		return err
	}

	if last := g.lastEntry(); last != nil {
		prevStop, err := last.StopTime()
		if err != nil {
			return err
		}

		if start.Before(prevStop) {
			return fmt.Errorf(
				"%w: time slice group entries overlap or run backwards",
				ErrInvalidState)
		}
	}

	g.entries = append(g.entries, entry)

	return nil
}

// push appends an entry without validation. Owning trackers append open
// entries and close them before the group is queried.
func (g *TimeSliceGroup) push(entry TimeSpan) {
	g.entries = append(g.entries, entry)
}

// replaceLast swaps the most recent entry.
func (g *TimeSliceGroup) replaceLast(entry TimeSpan) {
	if len(g.entries) == 0 {
		panic("tracking: replacing an entry in an empty group")
	}

	g.entries[len(g.entries)-1] = entry
}

func (g *TimeSliceGroup) lastEntry() TimeSpan {
	if len(g.entries) == 0 {
		return nil
	}

	return g.entries[len(g.entries)-1]
}

// Len returns the number of entries.
func (g *TimeSliceGroup) Len() int {
	return len(g.entries)
}

// Entries returns a copy of the entry sequence.
func (g *TimeSliceGroup) Entries() []TimeSpan {
	entries := make([]TimeSpan, len(g.entries))
	copy(entries, g.entries)

	return entries
}

// StartTime returns the first entry's start time.
func (g *TimeSliceGroup) StartTime() (time.Time, error) {
	if len(g.entries) == 0 {
		return time.Time{}, fmt.Errorf(
			"%w: time slice group is empty", ErrInvalidState)
	}

	return g.entries[0].StartTime()
}

// StopTime returns the last entry's stop time.
func (g *TimeSliceGroup) StopTime() (time.Time, error) {
	if len(g.entries) == 0 {
		return time.Time{}, fmt.Errorf(
			"%w: time slice group is empty", ErrInvalidState)
	}

	return g.entries[len(g.entries)-1].StopTime()
}

// Duration returns the outer span of the group, gaps included.
func (g *TimeSliceGroup) Duration() (time.Duration, error) {
	start, err := g.StartTime()
	if err != nil {
		return 0, err
	}

	stop, err := g.StopTime()
	if err != nil {
		return 0, err
	}

	return stop.Sub(start), nil
}

// InnerDuration returns the sum of the entries' InnerDuration. Gaps between
// entries and regions excluded inside nested groups do not count.
func (g *TimeSliceGroup) InnerDuration() (time.Duration, error) {
	var total time.Duration

	for _, entry := range g.entries {
		d, err := entry.InnerDuration()
		if err != nil {
			return 0, err
		}

		total += d
	}

	return total, nil
}
