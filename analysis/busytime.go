package analysis

import (
	"sort"
	"time"

	"github.com/sarchlab/tracktime/tracking"
)

// BusyTime returns the unioned duration covered by the records. A stretch
// covered by several overlapping records counts once. Records that touch
// end to start are treated as one contiguous stretch.
func BusyTime(records []tracking.Record) time.Duration {
	if len(records) == 0 {
		return 0
	}

	sorted := make([]tracking.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	var busy time.Duration

	current := sorted[0]
	for _, rec := range sorted[1:] {
		if !rec.StartTime.After(current.StopTime) {
			if rec.StopTime.After(current.StopTime) {
				current.StopTime = rec.StopTime
			}

			continue
		}

		busy += current.Duration()
		current = rec
	}

	busy += current.Duration()

	return busy
}
