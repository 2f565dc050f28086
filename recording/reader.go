package recording

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sarchlab/tracktime/tracking"
)

// ReadJSONFile loads a log written by a JSONBackend.
func ReadJSONFile(path string) (map[string][]tracking.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	records := make(map[string][]tracking.Record)

	err = json.Unmarshal(data, &records)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return records, nil
}

// ReadJSONFiles merges several logs into one record map. Records that share
// a label are kept in chronological order, no matter which file they came
// from.
func ReadJSONFiles(paths ...string) (map[string][]tracking.Record, error) {
	merged := make(map[string][]tracking.Record)

	for _, path := range paths {
		records, err := ReadJSONFile(path)
		if err != nil {
			return nil, err
		}

		for label, recs := range records {
			merged[label] = append(merged[label], recs...)
		}
	}

	for label, recs := range merged {
		sort.Slice(recs, func(i, j int) bool {
			return recs[i].StartTime.Before(recs[j].StartTime)
		})
		merged[label] = recs
	}

	return merged, nil
}

// A SliceQuery selects the records a SQLiteReader lists. The zero value
// selects everything.
type SliceQuery struct {
	// Label limits the result to one label. Empty means all labels.
	Label string

	// EnableTimeRange enables the StartTime and StopTime conditions. Only
	// records overlapping [StartTime, StopTime) are returned.
	EnableTimeRange bool
	StartTime       time.Time
	StopTime        time.Time
}

// SQLiteReader reads slices back from a database written by a
// SQLiteBackend.
type SQLiteReader struct {
	*sql.DB

	filename string
}

// NewSQLiteReader creates a new SQLiteReader.
func NewSQLiteReader(filename string) *SQLiteReader {
	return &SQLiteReader{
		filename: filename,
	}
}

// Init establishes a connection to the database.
func (r *SQLiteReader) Init() {
	db, err := sql.Open("sqlite3", r.filename)
	if err != nil {
		panic(err)
	}

	r.DB = db
}

// ListLabels returns all labels in the database, sorted.
func (r *SQLiteReader) ListLabels() []string {
	rows, err := r.Query("SELECT DISTINCT label FROM slices ORDER BY label")
	if err != nil {
		panic(err)
	}
	defer func() {
		err := rows.Close()
		if err != nil {
			panic(err)
		}
	}()

	var labels []string

	for rows.Next() {
		var label string

		err := rows.Scan(&label)
		if err != nil {
			panic(err)
		}

		labels = append(labels, label)
	}

	err = rows.Err()
	if err != nil {
		panic(err)
	}

	return labels
}

// ListRecords returns the records selected by the query in chronological
// order.
func (r *SQLiteReader) ListRecords(query SliceQuery) []tracking.Record {
	sqlStr := `
		SELECT
			start_time,
			stop_time
		FROM slices
		WHERE 1=1
	`
	args := []any{}

	if query.Label != "" {
		sqlStr += `
			AND label = ?
		`
		args = append(args, query.Label)
	}

	if query.EnableTimeRange {
		sqlStr += `
			AND stop_time > ? AND start_time < ?
		`
		args = append(args,
			formatSQLiteTime(query.StartTime),
			formatSQLiteTime(query.StopTime))
	}

	sqlStr += `
		ORDER BY start_time
	`

	rows, err := r.Query(sqlStr, args...)
	if err != nil {
		panic(err)
	}
	defer func() {
		err := rows.Close()
		if err != nil {
			panic(err)
		}
	}()

	records := []tracking.Record{}

	for rows.Next() {
		var start, stop string

		err := rows.Scan(&start, &stop)
		if err != nil {
			panic(err)
		}

		records = append(records, tracking.Record{
			StartTime: parseSQLiteTime(start),
			StopTime:  parseSQLiteTime(stop),
		})
	}

	err = rows.Err()
	if err != nil {
		panic(err)
	}

	return records
}

// ReadAll loads the whole database into a record map.
func (r *SQLiteReader) ReadAll() map[string][]tracking.Record {
	out := make(map[string][]tracking.Record)

	for _, label := range r.ListLabels() {
		out[label] = r.ListRecords(SliceQuery{Label: label})
	}

	return out
}
