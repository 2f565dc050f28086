// Package recording collects closed time slices under string labels and
// persists them through pluggable backends.
package recording

import (
	"sort"
	"sync"

	"github.com/sarchlab/tracktime/tracking"
)

// A Backend receives every record as it is stored and persists it somewhere.
type Backend interface {
	Write(label string, rec tracking.Record)
	Flush()
}

// A Store accumulates records per label. It is safe for concurrent use.
type Store struct {
	lock     sync.Mutex
	records  map[string][]tracking.Record
	backends []Backend
}

// NewStore creates an empty Store with no backend attached.
func NewStore() *Store {
	return &Store{
		records: make(map[string][]tracking.Record),
	}
}

// AttachBackend registers a backend that will observe all future records.
func (s *Store) AttachBackend(b Backend) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.backends = append(s.backends, b)
}

// Record stores one record under the given label.
func (s *Store) Record(label string, rec tracking.Record) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.records[label] = append(s.records[label], rec)

	for _, b := range s.backends {
		b.Write(label, rec)
	}
}

// RecordSpan stores the outer bounds of a span as a single record. Gaps
// inside the span are not represented. It fails if the span cannot report
// its bounds yet.
func (s *Store) RecordSpan(label string, span tracking.TimeSpan) error {
	rec, err := spanRecord(span)
	if err != nil {
		return err
	}

	s.Record(label, rec)

	return nil
}

// RecordLeaves stores the busy leaf slices of a span, recursing into slice
// groups and finished asynchronous trackers. Suspended stretches between
// the leaves are not recorded.
func (s *Store) RecordLeaves(label string, span tracking.TimeSpan) error {
	leaves, err := collectLeaves(span, nil)
	if err != nil {
		return err
	}

	for _, rec := range leaves {
		s.Record(label, rec)
	}

	return nil
}

// Load appends all records of a previously saved log, for example one
// loaded with ReadJSONFiles.
func (s *Store) Load(records map[string][]tracking.Record) {
	for label, recs := range records {
		for _, rec := range recs {
			s.Record(label, rec)
		}
	}
}

// Labels returns all labels that have at least one record, sorted.
func (s *Store) Labels() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	labels := make([]string, 0, len(s.records))
	for label := range s.records {
		labels = append(labels, label)
	}

	sort.Strings(labels)

	return labels
}

// Slices returns a copy of the records stored under a label.
func (s *Store) Slices(label string) []tracking.Record {
	s.lock.Lock()
	defer s.lock.Unlock()

	recs := s.records[label]
	out := make([]tracking.Record, len(recs))
	copy(out, recs)

	return out
}

// Snapshot returns a deep copy of everything stored so far.
func (s *Store) Snapshot() map[string][]tracking.Record {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make(map[string][]tracking.Record, len(s.records))
	for label, recs := range s.records {
		c := make([]tracking.Record, len(recs))
		copy(c, recs)
		out[label] = c
	}

	return out
}

// Flush flushes all attached backends.
func (s *Store) Flush() {
	s.lock.Lock()
	backends := make([]Backend, len(s.backends))
	copy(backends, s.backends)
	s.lock.Unlock()

	for _, b := range backends {
		b.Flush()
	}
}

func spanRecord(span tracking.TimeSpan) (tracking.Record, error) {
	start, err := span.StartTime()
	if err != nil {
		return tracking.Record{}, err
	}

	stop, err := span.StopTime()
	if err != nil {
		return tracking.Record{}, err
	}

	return tracking.Record{StartTime: start, StopTime: stop}, nil
}

func collectLeaves(
	span tracking.TimeSpan,
	out []tracking.Record,
) ([]tracking.Record, error) {
	switch s := span.(type) {
	case *tracking.TimeSliceGroup:
		for _, entry := range s.Entries() {
			var err error

			out, err = collectLeaves(entry, out)
			if err != nil {
				return nil, err
			}
		}

		return out, nil
	case *tracking.AsyncTimeTracker:
		group, err := s.Slices()
		if err != nil {
			return nil, err
		}

		return collectLeaves(group, out)
	default:
		rec, err := spanRecord(span)
		if err != nil {
			return nil, err
		}

		return append(out, rec), nil
	}
}

// StoreBuilder configures a Store and its persistence backend.
type StoreBuilder struct {
	backendType string
	filename    string
}

// MakeStoreBuilder creates a StoreBuilder. By default, the store keeps the
// records in memory only.
func MakeStoreBuilder() StoreBuilder {
	return StoreBuilder{
		backendType: "none",
	}
}

// WithJSONBackend makes the store persist to a JSON file. An empty filename
// picks a generated one.
func (b StoreBuilder) WithJSONBackend(filename string) StoreBuilder {
	b.backendType = "json"
	b.filename = filename
	return b
}

// WithCSVBackend makes the store persist to a CSV file. An empty filename
// picks a generated one.
func (b StoreBuilder) WithCSVBackend(filename string) StoreBuilder {
	b.backendType = "csv"
	b.filename = filename
	return b
}

// WithSQLiteBackend makes the store persist to a SQLite database. An empty
// filename picks a generated one.
func (b StoreBuilder) WithSQLiteBackend(filename string) StoreBuilder {
	b.backendType = "sqlite"
	b.filename = filename
	return b
}

// Build creates the Store.
func (b StoreBuilder) Build() *Store {
	s := NewStore()

	switch b.backendType {
	case "none":
	case "json":
		s.AttachBackend(NewJSONBackend(b.filename))
	case "csv":
		s.AttachBackend(NewCSVBackend(b.filename))
	case "sqlite":
		s.AttachBackend(NewSQLiteBackend(b.filename))
	default:
		panic("unknown backend type")
	}

	return s
}
