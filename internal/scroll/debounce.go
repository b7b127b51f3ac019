package scroll

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc starts a timer that calls f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer coalesces bursts of Trigger calls into one call of fn, made
// once delay has passed without another Trigger.
type Debouncer struct {
	delay time.Duration
	fn    func()
	after AfterFunc

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	stopped bool
}

// NewDebouncer returns a debouncer backed by time.AfterFunc.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return NewDebouncerWithTimers(delay, fn, realAfterFunc)
}

// NewDebouncerWithTimers uses after to start timers.
func NewDebouncerWithTimers(delay time.Duration, fn func(), after AfterFunc) *Debouncer {
	return &Debouncer{delay: delay, fn: fn, after: after}
}

// Trigger cancels any pending call and re-arms the timer.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.after(d.delay, func() { d.fire(gen) })
}

// fire runs fn unless a later Trigger or Stop superseded this timer.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Pending reports whether a call is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending call. Later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
