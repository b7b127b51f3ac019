// Package window shows the landscape in a desktop window.
package window

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/config"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/logger"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/scroll"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/sprite"
)

// Game adapts a controller to ebiten. Update is the host frame callback;
// ebiten calls Layout, Update and Draw from one goroutine so the queue
// runs there too.
type Game struct {
	cfg     *config.Config
	surface *Surface
	queue   *scroll.FrameQueue
	ctrl    *scroll.Controller

	width, height int
	started       bool
}

// New wires a landscape to a window of the configured size.
func New(cfg *config.Config, catalog sprite.Catalog) (*Game, error) {
	surface := NewSurface(cfg.Window.Width, cfg.Window.Height)
	queue := scroll.NewFrameQueue()
	ctrl, err := cfg.NewController(surface, catalog, cfg.TerrainOptions(), queue)
	if err != nil {
		return nil, err
	}
	return &Game{
		cfg:     cfg,
		surface: surface,
		queue:   queue,
		ctrl:    ctrl,
		width:   cfg.Window.Width,
		height:  cfg.Window.Height,
	}, nil
}

// Run opens the window and blocks until it is closed or the landscape
// halts.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.cfg.Window.Width, g.cfg.Window.Height)
	ebiten.SetWindowTitle(g.cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.cfg.Scroll.DisplayHz)
	defer g.ctrl.Stop()

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (g *Game) Update() error {
	if !g.started {
		if err := g.ctrl.Start(); err != nil {
			return err
		}
		g.started = true
	}

	select {
	case err := <-g.ctrl.Halted():
		return err
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	g.queue.RunFrame(time.Now())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if img := g.surface.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
}

// Layout keeps one logical pixel per screen pixel, so a window resize is
// a surface resize.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		logger.Debug("window resized", zap.Int("width", g.width), zap.Int("height", g.height))
		g.surface.Resize(g.width, g.height)
		g.ctrl.Resized()
	}
	return max(outsideWidth, 1), max(outsideHeight, 1)
}
