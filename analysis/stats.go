// Package analysis computes summary statistics over recorded time slices.
package analysis

import (
	"sort"
	"time"

	"github.com/sarchlab/tracktime/tracking"
)

// LabelStats summarizes the records stored under one label.
type LabelStats struct {
	Label string `json:"label"`

	// Count is the number of records.
	Count uint64 `json:"count"`

	// TotalTime adds all record durations together. If two records
	// overlap, the overlapped stretch is counted twice.
	TotalTime time.Duration `json:"total_time"`

	// AverageTime is TotalTime divided by Count.
	AverageTime time.Duration `json:"average_time"`

	MinTime time.Duration `json:"min_time"`
	MaxTime time.Duration `json:"max_time"`

	// SpanTime is the stretch from the earliest start to the latest stop.
	SpanTime time.Duration `json:"span_time"`

	// BusyRatio is TotalTime over SpanTime, capped at 1.
	BusyRatio float64 `json:"busy_ratio"`
}

// Summarize computes the per-label statistics of a record map. Labels
// without records are dropped. The result is sorted by label.
func Summarize(records map[string][]tracking.Record) []LabelStats {
	stats := make([]LabelStats, 0, len(records))

	for label, recs := range records {
		if len(recs) == 0 {
			continue
		}

		stats = append(stats, summarizeLabel(label, recs))
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Label < stats[j].Label
	})

	return stats
}

func summarizeLabel(label string, recs []tracking.Record) LabelStats {
	s := LabelStats{
		Label:   label,
		Count:   uint64(len(recs)),
		MinTime: recs[0].Duration(),
	}

	earliestStart := recs[0].StartTime
	latestStop := recs[0].StopTime

	for _, rec := range recs {
		d := rec.Duration()

		s.TotalTime += d

		if d < s.MinTime {
			s.MinTime = d
		}

		if d > s.MaxTime {
			s.MaxTime = d
		}

		if rec.StartTime.Before(earliestStart) {
			earliestStart = rec.StartTime
		}

		if rec.StopTime.After(latestStop) {
			latestStop = rec.StopTime
		}
	}

	s.AverageTime = s.TotalTime / time.Duration(s.Count)
	s.SpanTime = latestStop.Sub(earliestStart)

	if s.SpanTime > 0 {
		s.BusyRatio = float64(s.TotalTime) / float64(s.SpanTime)
		if s.BusyRatio > 1 {
			s.BusyRatio = 1
		}
	}

	return s
}

// Merge folds several record maps into one, keeping each label's records
// in chronological order.
func Merge(records ...map[string][]tracking.Record) map[string][]tracking.Record {
	merged := make(map[string][]tracking.Record)

	for _, m := range records {
		for label, recs := range m {
			merged[label] = append(merged[label], recs...)
		}
	}

	for label, recs := range merged {
		sort.Slice(recs, func(i, j int) bool {
			return recs[i].StartTime.Before(recs[j].StartTime)
		})
		merged[label] = recs
	}

	return merged
}
