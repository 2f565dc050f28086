package recording

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sarchlab/tracktime/tracking"
	"github.com/tebeka/atexit"
)

type labeledRecord struct {
	label string
	rec   tracking.Record
}

// CSVBackend writes the recorded slices to a CSV file. The file is
// write-only; use the JSON or SQLite backends for logs that need to be
// read back.
type CSVBackend struct {
	path string
	file *os.File

	lock       sync.Mutex
	buffered   []labeledRecord
	bufferSize int
}

// NewCSVBackend creates a CSVBackend writing to the given file. An empty
// path picks a generated filename in the working directory.
func NewCSVBackend(path string) *CSVBackend {
	if path == "" {
		path = "tracktime_" + xid.New().String() + ".csv"
	}

	file, err := os.Create(path)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "Recording time slices in %s\n", path)

	fmt.Fprintf(file, "Label, Start, Stop, DurationSeconds\n")

	b := &CSVBackend{
		path:       path,
		file:       file,
		bufferSize: 1000,
	}

	atexit.Register(func() {
		b.Flush()

		err := b.file.Close()
		if err != nil {
			panic(err)
		}
	})

	return b
}

// Path returns the file the backend writes to.
func (b *CSVBackend) Path() string {
	return b.path
}

// Write buffers one record, flushing when the buffer fills up.
func (b *CSVBackend) Write(label string, rec tracking.Record) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.buffered = append(b.buffered, labeledRecord{label: label, rec: rec})
	if len(b.buffered) >= b.bufferSize {
		b.flush()
	}
}

// Flush writes the buffered records to the file.
func (b *CSVBackend) Flush() {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.flush()
}

func (b *CSVBackend) flush() {
	for _, lr := range b.buffered {
		_, err := fmt.Fprintf(b.file, "%s, %s, %s, %.9f\n",
			lr.label,
			lr.rec.StartTime.Format(time.RFC3339Nano),
			lr.rec.StopTime.Format(time.RFC3339Nano),
			lr.rec.Duration().Seconds(),
		)
		if err != nil {
			panic(err)
		}
	}

	b.buffered = nil
}
