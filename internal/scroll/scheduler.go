package scroll

import (
	"sync"
	"time"
)

// Handle identifies a scheduled callback.
type Handle uint64

// Scheduler runs one callback per display frame.
type Scheduler interface {
	// ScheduleNextTick arranges for fn to run on the next frame.
	ScheduleNextTick(fn func(now time.Time)) Handle
	// Cancel drops a callback that has not run yet.
	Cancel(h Handle)
}

// Queue is a Scheduler that also accepts work from other goroutines.
type Queue interface {
	Scheduler
	Post(fn func())
}

type scheduled struct {
	h  Handle
	fn func(time.Time)
}

// FrameQueue is a thread-safe Queue. The goroutine that calls RunFrame
// owns everything the callbacks touch.
type FrameQueue struct {
	mu    sync.Mutex
	next  Handle
	ticks []scheduled
	posts []func()
}

// NewFrameQueue returns an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

func (q *FrameQueue) ScheduleNextTick(fn func(time.Time)) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.ticks = append(q.ticks, scheduled{h: q.next, fn: fn})
	return q.next
}

func (q *FrameQueue) Cancel(h Handle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, s := range q.ticks {
		if s.h == h {
			q.ticks = append(q.ticks[:i], q.ticks[i+1:]...)
			return
		}
	}
}

// Post queues fn to run at the start of the next frame.
func (q *FrameQueue) Post(fn func()) {
	q.mu.Lock()
	q.posts = append(q.posts, fn)
	q.mu.Unlock()
}

// Pending returns the number of scheduled callbacks and posted functions.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ticks) + len(q.posts)
}

// RunFrame runs posted work, then the callbacks scheduled before this
// frame began. Callbacks scheduled while running wait for the next frame.
// It returns the number of tick callbacks run.
func (q *FrameQueue) RunFrame(now time.Time) int {
	q.mu.Lock()
	posts := q.posts
	q.posts = nil
	q.mu.Unlock()

	for _, fn := range posts {
		fn()
	}

	q.mu.Lock()
	ticks := q.ticks
	q.ticks = nil
	q.mu.Unlock()

	for _, s := range ticks {
		s.fn(now)
	}
	return len(ticks)
}
