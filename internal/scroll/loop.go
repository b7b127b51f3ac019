package scroll

import (
	"sync"
	"time"
)

// Loop drives a FrameQueue from a ticker at the display rate.
type Loop struct {
	queue    *FrameQueue
	interval time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewLoop returns a loop running queue hz times per second.
func NewLoop(queue *FrameQueue, hz int) *Loop {
	return &Loop{
		queue:    queue,
		interval: FrameInterval(hz),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Run blocks until Stop is called.
func (l *Loop) Run() {
	defer close(l.doneCh)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case now := <-ticker.C:
			l.queue.RunFrame(now)
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.doneCh
}
