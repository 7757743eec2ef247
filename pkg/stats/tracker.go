package stats

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Tracker records the lifecycle of connections handled by the server
type Tracker interface {
	// Open records an accepted connection
	Open(remote string)
	// Close records that a connection was answered with status and closed
	Close(remote string, status int)
	// Finish completes tracking, typically when the server stops
	Finish()
}

// Summary is a snapshot of connection counters
type Summary struct {
	Active       int
	Total        int
	OK           int
	ClientErrors int
	ServerErrors int
	Duration     time.Duration
}

// ConsoleTracker implements Tracker and prints a summary when finished
type ConsoleTracker struct {
	mu        sync.Mutex
	writer    io.Writer
	startTime time.Time
	active    int
	total     int
	byStatus  map[int]int
}

// NewConsoleTracker creates a new console tracker writing to stdout
func NewConsoleTracker() *ConsoleTracker {
	return &ConsoleTracker{
		writer:    os.Stdout,
		startTime: time.Now(),
		byStatus:  make(map[int]int),
	}
}

// WithWriter sets the writer for the console tracker
func (t *ConsoleTracker) WithWriter(writer io.Writer) *ConsoleTracker {
	t.writer = writer
	return t
}

// Open records an accepted connection
func (t *ConsoleTracker) Open(remote string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active++
	t.total++
}

// Close records the status a connection was answered with
func (t *ConsoleTracker) Close(remote string, status int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active--
	t.byStatus[status]++
}

// Active returns the number of connections that are open right now
func (t *ConsoleTracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.active
}

// Count returns how many connections were answered with status
func (t *ConsoleTracker) Count(status int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.byStatus[status]
}

// Summary returns the current counters
func (t *ConsoleTracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{
		Active:   t.active,
		Total:    t.total,
		Duration: time.Since(t.startTime),
	}
	for status, n := range t.byStatus {
		switch {
		case status >= 500:
			s.ServerErrors += n
		case status >= 400:
			s.ClientErrors += n
		default:
			s.OK += n
		}
	}
	return s
}

// Finish prints the summary
func (t *ConsoleTracker) Finish() {
	s := t.Summary()

	fmt.Fprintf(t.writer, "\nServed %d connections in %s\n", s.Total, s.Duration.Round(time.Second))
	fmt.Fprintf(t.writer, "%s, %s, %s\n",
		color.GreenString("%d ok", s.OK),
		color.YellowString("%d client errors", s.ClientErrors),
		color.RedString("%d server errors", s.ServerErrors))
}
