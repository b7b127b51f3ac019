package scroll

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/logger"
)

// ControllerOptions configures frame pacing and resize handling.
type ControllerOptions struct {
	FPS            int
	ResizeDebounce time.Duration
	// AfterFunc overrides the debounce timer source.
	AfterFunc AfterFunc
}

// DefaultControllerOptions returns 60 fps and a 500ms resize debounce.
func DefaultControllerOptions() ControllerOptions {
	return ControllerOptions{FPS: DefaultFPS, ResizeDebounce: DefaultResizeDebounce}
}

// Controller connects an Engine to the host's frame clock and lifecycle
// hooks. Start, Tick and the debounced restart run on the queue's frame
// goroutine. Resized and Stop may be called from any goroutine.
type Controller struct {
	engine   *Engine
	pacer    *Pacer
	queue    Queue
	debounce *Debouncer

	handle  Handle
	pending bool

	stopped  atomic.Bool
	haltOnce sync.Once
	halted   chan error
}

// NewController wires engine to queue.
func NewController(engine *Engine, queue Queue, opts ControllerOptions) *Controller {
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	c := &Controller{
		engine: engine,
		pacer:  NewPacer(opts.FPS),
		queue:  queue,
		halted: make(chan error, 1),
	}
	c.debounce = NewDebouncerWithTimers(opts.ResizeDebounce, func() {
		queue.Post(c.restart)
	}, opts.AfterFunc)
	return c
}

// Engine returns the controlled engine.
func (c *Controller) Engine() *Engine {
	return c.engine
}

// Halted delivers the error that stopped the animation.
func (c *Controller) Halted() <-chan error {
	return c.halted
}

// Start restarts the engine and schedules the first tick.
func (c *Controller) Start() error {
	if err := c.engine.Restart(); err != nil {
		c.halt(err)
		return err
	}
	c.pacer.Reset()
	c.schedule()
	return nil
}

// Tick is the per-frame callback. The next tick is requested before any
// work so early frames still keep the chain alive.
func (c *Controller) Tick(now time.Time) {
	c.pending = false
	if c.stopped.Load() {
		return
	}
	c.schedule()

	if !c.pacer.Due(now) {
		return
	}

	err := c.engine.Frame()
	switch {
	case errors.Is(err, ErrNotStarted):
		return
	case err != nil:
		c.halt(err)
		return
	}

	if p, ok := c.engine.Surface().(Presenter); ok {
		if err := p.Present(); err != nil {
			logger.Debug("present failed, frame dropped", zap.Error(err))
		}
	}
}

// Resized requests a debounced restart.
func (c *Controller) Resized() {
	if c.stopped.Load() {
		return
	}
	c.debounce.Trigger()
}

// Stop cancels the pending tick and the debounce timer.
func (c *Controller) Stop() {
	if c.stopped.Swap(true) {
		return
	}
	c.debounce.Stop()
	c.queue.Post(c.cancel)
}

func (c *Controller) schedule() {
	c.handle = c.queue.ScheduleNextTick(c.Tick)
	c.pending = true
}

func (c *Controller) cancel() {
	if c.pending {
		c.queue.Cancel(c.handle)
		c.pending = false
	}
}

func (c *Controller) restart() {
	if c.stopped.Load() {
		return
	}
	if err := c.engine.Restart(); err != nil {
		c.halt(err)
		return
	}
	c.pacer.Reset()
}

func (c *Controller) halt(err error) {
	c.stopped.Store(true)
	c.debounce.Stop()
	c.cancel()
	c.haltOnce.Do(func() {
		c.halted <- err
	})
}
