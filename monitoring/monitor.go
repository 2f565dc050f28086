// Package monitoring turns a process that records time slices into a web
// server, so that the collected data and the live trackers can be inspected
// while the process runs.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/tracktime/analysis"
	"github.com/sarchlab/tracktime/monitoring/web"
	"github.com/sarchlab/tracktime/recording"
	"github.com/sarchlab/tracktime/tracking"
)

// Monitor serves the content of a recording store and the state of
// registered trackers over HTTP.
type Monitor struct {
	store       *recording.Store
	portNumber  int
	openBrowser bool

	trackersLock sync.Mutex
	trackerNames []string
	trackers     map[string]tracking.TimeTracker

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		trackers: make(map[string]tracking.TimeTracker),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowserOpening makes StartServer open the dashboard in the system
// browser.
func (m *Monitor) WithBrowserOpening() *Monitor {
	m.openBrowser = true

	return m
}

// RegisterStore registers the store whose records are served.
func (m *Monitor) RegisterStore(s *recording.Store) {
	m.store = s
}

// RegisterTracker registers a live tracker so that its internals can be
// inspected over the API.
func (m *Monitor) RegisterTracker(name string, t tracking.TimeTracker) {
	m.trackersLock.Lock()
	defer m.trackersLock.Unlock()

	if _, ok := m.trackers[name]; !ok {
		m.trackerNames = append(m.trackerNames, name)
	}

	m.trackers[name] = t
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitor as a web server, on the configured port if
// one was given.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	fs := web.GetAssets()
	fServer := http.FileServer(fs)
	r.HandleFunc("/api/labels", m.listLabels)
	r.HandleFunc("/api/summary", m.listSummary)
	r.HandleFunc("/api/slices/{label}", m.listSlices)
	r.HandleFunc("/api/trackers", m.listTrackers)
	r.HandleFunc("/api/tracker/{name}", m.listTrackerDetails)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.Handle("/metrics", promhttp.HandlerFor(
		m.metricsRegistry(), promhttp.HandlerOpts{}))
	r.PathPrefix("/").Handler(fServer)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring time tracking with %s\n", url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	if m.openBrowser {
		err := browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open browser: %s\n", err)
		}
	}
}

func (m *Monitor) listLabels(w http.ResponseWriter, _ *http.Request) {
	bytes, err := json.Marshal(m.store.Labels())
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listSummary(w http.ResponseWriter, _ *http.Request) {
	stats := analysis.Summarize(m.store.Snapshot())

	bytes, err := json.Marshal(stats)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listSlices(w http.ResponseWriter, r *http.Request) {
	label := mux.Vars(r)["label"]

	recs := m.store.Slices(label)
	if len(recs) == 0 {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Label not found"))
		dieOnErr(err)

		return
	}

	bytes, err := json.Marshal(recs)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listTrackers(w http.ResponseWriter, _ *http.Request) {
	m.trackersLock.Lock()
	defer m.trackersLock.Unlock()

	fmt.Fprint(w, "[")
	for i, name := range m.trackerNames {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "\"%s\"", name)
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listTrackerDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	tracker := m.findTrackerOr404(w, name)
	if tracker == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(tracker)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) findTrackerOr404(
	w http.ResponseWriter,
	name string,
) tracking.TimeTracker {
	m.trackersLock.Lock()
	tracker := m.trackers[name]
	m.trackersLock.Unlock()

	if tracker == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Tracker not found"))
		dieOnErr(err)
	}

	return tracker
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bytes, err := json.Marshal(m.progressBars)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
