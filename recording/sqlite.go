package recording

import (
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/sarchlab/tracktime/tracking"
	"github.com/tebeka/atexit"
)

// sqliteTimeLayout is fixed-width so that string comparison in SQL matches
// chronological order. Times are normalized to UTC before formatting.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(s string) time.Time {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		panic(err)
	}

	return t
}

// SQLiteBackend writes the recorded slices to a SQLite database.
type SQLiteBackend struct {
	*sql.DB
	statement *sql.Stmt

	dbName string

	lock      sync.Mutex
	buffered  []labeledRecord
	batchSize int
}

// NewSQLiteBackend creates a SQLiteBackend. The path is the database
// filename without the .sqlite3 suffix; an empty path picks a generated
// name. The backend refuses to touch a database file that already exists.
func NewSQLiteBackend(path string) *SQLiteBackend {
	b := &SQLiteBackend{
		dbName:    path,
		batchSize: 100000,
	}

	b.init()

	atexit.Register(func() { b.Flush() })

	return b
}

func (b *SQLiteBackend) init() {
	if b.dbName == "" {
		b.dbName = "tracktime_" + xid.New().String()
	}

	filename := b.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Recording time slices in %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	b.DB = db

	b.createTable()
	b.prepareStatement()
}

// Path returns the database file the backend writes to.
func (b *SQLiteBackend) Path() string {
	return b.dbName + ".sqlite3"
}

func (b *SQLiteBackend) createTable() {
	b.mustExecute(`
		create table slices
		(
			label            varchar(200) not null,
			start_time       varchar(100) not null,
			stop_time        varchar(100) not null,
			duration_seconds float        not null
		);
	`)

	b.mustExecute(`
		create index slices_label_index
			on slices (label);
	`)

	b.mustExecute(`
		create index slices_start_time_index
			on slices (start_time);
	`)

	b.mustExecute(`
		create index slices_stop_time_index
			on slices (stop_time);
	`)
}

func (b *SQLiteBackend) prepareStatement() {
	sqlStr := `INSERT INTO slices VALUES (?, ?, ?, ?)`

	stmt, err := b.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	b.statement = stmt
}

// Write buffers one record, flushing when the batch fills up.
func (b *SQLiteBackend) Write(label string, rec tracking.Record) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.buffered = append(b.buffered, labeledRecord{label: label, rec: rec})
	if len(b.buffered) >= b.batchSize {
		b.flush()
	}
}

// Flush writes the buffered records to the database.
func (b *SQLiteBackend) Flush() {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.flush()
}

func (b *SQLiteBackend) flush() {
	if len(b.buffered) == 0 {
		return
	}

	b.mustExecute("BEGIN TRANSACTION")
	defer b.mustExecute("COMMIT TRANSACTION")

	for _, lr := range b.buffered {
		_, err := b.statement.Exec(
			lr.label,
			formatSQLiteTime(lr.rec.StartTime),
			formatSQLiteTime(lr.rec.StopTime),
			lr.rec.Duration().Seconds(),
		)
		if err != nil {
			panic(err)
		}
	}

	b.buffered = nil
}

func (b *SQLiteBackend) mustExecute(query string) sql.Result {
	res, err := b.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}
