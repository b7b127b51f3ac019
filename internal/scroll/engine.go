// Package scroll composites an endless landscape from two alternating
// off-screen strips.
package scroll

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/logger"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/raster"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/sprite"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/terrain"
)

var (
	// ErrHalted is returned by every call after a fatal regeneration error.
	ErrHalted = errors.New("scroll engine halted")
	// ErrNotStarted is returned by Frame before the first successful
	// Restart. It is not fatal.
	ErrNotStarted = errors.New("scroll engine not started")
)

// Surface is the host canvas frames are composited onto.
type Surface interface {
	Size() (w, h int)
	Clear(r image.Rectangle)
	FillGradient(r image.Rectangle, top, bottom color.RGBA)
	DrawImage(img image.Image, x, y int)
}

// Presenter is implemented by surfaces that must be flushed after each
// composited frame.
type Presenter interface {
	Present() error
}

// State is the engine lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Sky colors.
var (
	DefaultSkyTop    = color.RGBA{0x87, 0xce, 0xeb, 0xff}
	DefaultSkyBottom = color.RGBA{0x2a, 0x6f, 0xc9, 0xff}
)

// Options tunes scrolling.
type Options struct {
	Speed       int // pixels per frame
	StartOffset int // offset after a restart, at most 0
	SkyTop      color.RGBA
	SkyBottom   color.RGBA
}

// DefaultOptions returns the stock scroll settings.
func DefaultOptions() Options {
	return Options{
		Speed:       DefaultSpeed,
		StartOffset: DefaultStartOffset,
		SkyTop:      DefaultSkyTop,
		SkyBottom:   DefaultSkyBottom,
	}
}

// Engine owns the scroll state: the leaving and entering buffers, the
// offset of the leaving buffer's left edge and the ground profile the
// generator carries from strip to strip.
type Engine struct {
	surface Surface
	gen     *terrain.Generator
	catalog sprite.Catalog
	opts    Options

	state    State
	err      error
	profile  terrain.Profile
	leaving  *raster.Buffer
	entering *raster.Buffer
	offset   int

	frames  uint64
	skipped uint64
	swaps   uint64
}

// NewEngine returns an engine in the uninitialized state.
func NewEngine(surface Surface, gen *terrain.Generator, catalog sprite.Catalog, opts Options) *Engine {
	if opts.Speed < 1 {
		opts.Speed = 1
	}
	opts.StartOffset = min(opts.StartOffset, 0)
	return &Engine{surface: surface, gen: gen, catalog: catalog, opts: opts}
}

func (e *Engine) Surface() Surface { return e.surface }
func (e *Engine) State() State { return e.state }
func (e *Engine) Offset() int { return e.offset }
func (e *Engine) Leaving() *raster.Buffer { return e.leaving }
func (e *Engine) Entering() *raster.Buffer { return e.entering }
func (e *Engine) Profile() terrain.Profile { return e.profile }

// Err returns the error that halted the engine.
func (e *Engine) Err() error { return e.err }

// Stats returns the number of composited, skipped and swap frames.
func (e *Engine) Stats() (frames, skipped, swaps uint64) {
	return e.frames, e.skipped, e.swaps
}

// Restart sizes both buffers to the surface, resets the ground profile
// and scroll offset, and generates two fresh strips. Buffers are reused
// when the size has not changed. A zero-area surface leaves the engine
// uninitialized until the next Restart.
func (e *Engine) Restart() error {
	if e.state == StateHalted {
		return ErrHalted
	}

	w, h := e.surface.Size()
	if w <= 0 || h <= 0 {
		logger.Debug("restart deferred, surface has no area", zap.Int("width", w), zap.Int("height", h))
		e.state = StateUninitialized
		return nil
	}

	tile := e.gen.Options().TileSize
	bw := raster.RoundUpToTile(w, tile)
	if e.leaving == nil || e.leaving.Width() != bw || e.leaving.Height() != h {
		e.leaving = raster.NewBuffer(bw, h)
		e.entering = raster.NewBuffer(bw, h)
	}

	e.gen.Reset(&e.profile)
	e.offset = e.opts.StartOffset

	for _, buf := range []*raster.Buffer{e.leaving, e.entering} {
		if err := e.regenerate(buf); err != nil {
			return e.halt(err)
		}
	}

	e.state = StateRunning
	logger.Info("landscape restarted",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("buffer_width", bw),
		zap.Int("ground", e.profile.GroundY))
	return nil
}

// Frame composites one frame, then advances the offset. When the leaving
// buffer has scrolled fully off the left edge it is regenerated in place
// and the buffers swap roles.
func (e *Engine) Frame() error {
	switch e.state {
	case StateHalted:
		return ErrHalted
	case StateUninitialized:
		e.skip("not started")
		return ErrNotStarted
	}

	w, h := e.surface.Size()
	if w <= 0 || h <= 0 {
		e.skip("surface has no area")
		return nil
	}

	view := image.Rect(0, 0, w, h)
	e.surface.Clear(view)
	e.surface.FillGradient(view, e.opts.SkyTop, e.opts.SkyBottom)
	e.surface.DrawImage(e.leaving, e.offset, 0)
	e.surface.DrawImage(e.entering, e.offset+e.leaving.Width(), 0)
	e.frames++

	e.offset -= e.opts.Speed
	if e.offset+e.leaving.Width() < 0 {
		if err := e.regenerate(e.leaving); err != nil {
			return e.halt(err)
		}
		e.leaving, e.entering = e.entering, e.leaving
		e.offset = 0
		e.swaps++
		logger.Debug("buffers swapped",
			zap.Uint64("swaps", e.swaps),
			zap.Int("ground", e.profile.GroundY))
	}
	return nil
}

// regenerate fills buf with the next strip.
func (e *Engine) regenerate(buf *raster.Buffer) error {
	tile := e.gen.Options().TileSize
	strip, err := e.gen.Generate(&e.profile, buf.Width()/tile, buf.Height())
	if err != nil {
		return fmt.Errorf("generate strip: %w", err)
	}
	if err := raster.Rasterize(buf, strip, e.catalog, tile); err != nil {
		return err
	}
	return nil
}

func (e *Engine) skip(reason string) {
	e.skipped++
	logger.Debug("frame skipped", zap.String("reason", reason), zap.Uint64("skipped", e.skipped))
}

func (e *Engine) halt(err error) error {
	e.state = StateHalted
	e.err = err
	logger.Error("landscape halted", zap.Error(err))
	return err
}
