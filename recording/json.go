package recording

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/sarchlab/tracktime/tracking"
	"github.com/tebeka/atexit"
)

// JSONBackend writes the recorded slices as one JSON object keyed by label.
type JSONBackend struct {
	path string
	file *os.File

	lock    sync.Mutex
	records map[string][]tracking.Record
}

// NewJSONBackend creates a JSONBackend writing to the given file. An empty
// path picks a generated filename in the working directory.
func NewJSONBackend(path string) *JSONBackend {
	if path == "" {
		path = "tracktime_" + xid.New().String() + ".json"
	}

	file, err := os.Create(path)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "Recording time slices in %s\n", path)

	b := &JSONBackend{
		path:    path,
		file:    file,
		records: make(map[string][]tracking.Record),
	}

	atexit.Register(b.Flush)

	return b
}

// Path returns the file the backend writes to.
func (b *JSONBackend) Path() string {
	return b.path
}

// Write buffers one record. Nothing reaches the file before Flush.
func (b *JSONBackend) Write(label string, rec tracking.Record) {
	b.lock.Lock()
	b.records[label] = append(b.records[label], rec)
	b.lock.Unlock()
}

// Flush rewrites the whole file from the buffered records. Calling it
// repeatedly is allowed and produces a complete file each time.
func (b *JSONBackend) Flush() {
	b.lock.Lock()
	defer b.lock.Unlock()

	_, err := b.file.Seek(0, io.SeekStart)
	if err != nil {
		panic(err)
	}

	err = b.file.Truncate(0)
	if err != nil {
		panic(err)
	}

	enc := json.NewEncoder(b.file)
	enc.SetIndent("", "  ")

	err = enc.Encode(b.records)
	if err != nil {
		panic(err)
	}

	err = b.file.Sync()
	if err != nil {
		panic(err)
	}
}
