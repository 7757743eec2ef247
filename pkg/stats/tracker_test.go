package stats

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
)

func TestConsoleTracker(t *testing.T) {
	tracker := NewConsoleTracker().WithWriter(&bytes.Buffer{})

	tracker.Open("127.0.0.1:1")
	tracker.Open("127.0.0.1:2")
	tracker.Open("127.0.0.1:3")
	if tracker.Active() != 3 {
		t.Errorf("Expected 3 active connections, got %d", tracker.Active())
	}

	tracker.Close("127.0.0.1:1", 200)
	tracker.Close("127.0.0.1:2", 404)
	tracker.Close("127.0.0.1:3", 500)

	s := tracker.Summary()
	if s.Active != 0 {
		t.Errorf("Expected 0 active connections, got %d", s.Active)
	}
	if s.Total != 3 {
		t.Errorf("Expected 3 total connections, got %d", s.Total)
	}
	if s.OK != 1 || s.ClientErrors != 1 || s.ServerErrors != 1 {
		t.Errorf("Unexpected summary: %+v", s)
	}
	if tracker.Count(404) != 1 {
		t.Errorf("Expected one 404, got %d", tracker.Count(404))
	}
}

func TestTrackerFinishOutput(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	tracker := NewConsoleTracker().WithWriter(&buf)

	tracker.Open("a")
	tracker.Close("a", 200)
	tracker.Open("b")
	tracker.Close("b", 400)
	tracker.Finish()

	output := buf.String()
	if !strings.Contains(output, "Served 2 connections") {
		t.Errorf("Expected connection count in summary, got: %s", output)
	}
	if !strings.Contains(output, "1 ok, 1 client errors, 0 server errors") {
		t.Errorf("Expected outcome counts in summary, got: %s", output)
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tracker := NewConsoleTracker().WithWriter(&bytes.Buffer{})

	numConns := 100
	var wg sync.WaitGroup
	wg.Add(numConns)

	for i := 0; i < numConns; i++ {
		go func(id int) {
			defer wg.Done()
			remote := fmt.Sprintf("10.0.0.1:%d", id)
			tracker.Open(remote)
			if id%2 == 0 {
				tracker.Close(remote, 200)
			} else {
				tracker.Close(remote, 404)
			}
		}(i)
	}

	wg.Wait()

	s := tracker.Summary()
	if s.Active != 0 {
		t.Errorf("Expected 0 active connections, got %d", s.Active)
	}
	if s.OK != numConns/2 || s.ClientErrors != numConns/2 {
		t.Errorf("Unexpected summary: %+v", s)
	}
}
