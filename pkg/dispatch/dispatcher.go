package dispatch

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Task is one unit of work, typically the handling of a single connection
type Task func()

// PanicHandler receives the value and stack of a recovered task panic
type PanicHandler func(recovered interface{}, stack []byte)

// Dispatcher runs each task on its own goroutine, optionally limiting how many run at once
type Dispatcher struct {
	semaphore chan struct{}
	wg        sync.WaitGroup
	onPanic   PanicHandler
}

// New creates a dispatcher. A maxTasks of 0 or less leaves concurrency unbounded.
func New(maxTasks int) *Dispatcher {
	d := &Dispatcher{}
	if maxTasks > 0 {
		d.semaphore = make(chan struct{}, maxTasks)
	}
	return d
}

// WithPanicHandler sets the function called when a task panics
func (d *Dispatcher) WithPanicHandler(handler PanicHandler) *Dispatcher {
	d.onPanic = handler
	return d
}

// Limit returns the maximum number of concurrent tasks, or 0 when unbounded
func (d *Dispatcher) Limit() int {
	return cap(d.semaphore)
}

// InUse returns how many limited slots are taken. It is always 0 when unbounded.
func (d *Dispatcher) InUse() int {
	return len(d.semaphore)
}

// Go starts task on a new goroutine and returns immediately.
// When the dispatcher is at its limit, reject runs on the goroutine instead of task
// and holds no slot.
func (d *Dispatcher) Go(task Task, reject Task) {
	run := task
	acquired := false
	if d.semaphore != nil {
		// Acquire a slot without waiting
		select {
		case d.semaphore <- struct{}{}:
			acquired = true
		default:
			run = reject
		}
	}
	if run == nil {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if acquired {
			defer func() { <-d.semaphore }()
		}
		defer d.recover()

		run()
	}()
}

// Wait blocks until every started task has returned
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) recover() {
	r := recover()
	if r == nil {
		return
	}
	if d.onPanic != nil {
		d.onPanic(r, debug.Stack())
		return
	}
	fmt.Printf("dispatch: recovered panic: %v\n", r)
}
