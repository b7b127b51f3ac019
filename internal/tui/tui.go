// Package tui shows the landscape in the local terminal.
package tui

import (
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/config"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/logger"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/raster"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/render"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/scroll"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/sprite"
)

// Surface composites into an RGBA canvas twice as tall as the screen and
// presents it as half-block cells.
type Surface struct {
	*raster.Canvas
	screen tcell.Screen
}

// NewSurface sizes a canvas to screen.
func NewSurface(screen tcell.Screen) *Surface {
	w, h := screen.Size()
	return &Surface{Canvas: raster.NewCanvas(w, 2*h), screen: screen}
}

// Sync resizes the canvas to the current screen size.
func (s *Surface) Sync() {
	w, h := s.screen.Size()
	s.Resize(w, 2*h)
}

// Present copies the canvas to the screen and shows it.
func (s *Surface) Present() error {
	img := s.Image()
	w, h := s.screen.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			top, bottom := render.PixelAt(img, x, 2*y), render.PixelAt(img, x, 2*y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			s.screen.SetContent(x, y, render.HalfBlock, nil, style)
		}
	}
	s.screen.Show()
	return nil
}

// App runs a controller against a tcell screen until the viewer quits.
type App struct {
	screen  tcell.Screen
	surface *Surface
	queue   *scroll.FrameQueue
	ctrl    *scroll.Controller
	hz      int
}

// New wires a landscape to an initialized screen.
func New(cfg *config.Config, screen tcell.Screen, catalog sprite.Catalog) (*App, error) {
	surface := NewSurface(screen)
	queue := scroll.NewFrameQueue()
	ctrl, err := cfg.NewController(surface, catalog, cfg.TerminalTerrainOptions(), queue)
	if err != nil {
		return nil, err
	}
	return &App{
		screen:  screen,
		surface: surface,
		queue:   queue,
		ctrl:    ctrl,
		hz:      cfg.Scroll.DisplayHz,
	}, nil
}

// Controller returns the app's controller.
func (a *App) Controller() *scroll.Controller {
	return a.ctrl
}

// Run blocks until the viewer quits or the landscape halts. It returns
// the halt error, if any.
func (a *App) Run() error {
	a.screen.HideCursor()
	if err := a.ctrl.Start(); err != nil {
		return err
	}

	loop := scroll.NewLoop(a.queue, a.hz)
	go loop.Run()
	defer func() {
		a.ctrl.Stop()
		loop.Stop()
		<-loop.Done()
	}()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case err := <-a.ctrl.Halted():
			return err
		case ev := <-events:
			if !a.handleEvent(ev) {
				return nil
			}
		}
	}
}

// handleEvent returns false when the viewer asked to quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q') {
			return false
		}
		if ev.Key() == tcell.KeyCtrlL {
			a.queue.Post(func() { a.screen.Sync() })
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		logger.Debug("terminal resized", zap.Int("cols", w), zap.Int("rows", h))
		a.queue.Post(a.surface.Sync)
		a.ctrl.Resized()
	}
	return true
}
