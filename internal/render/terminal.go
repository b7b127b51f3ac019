package render

import (
	"io"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/raster"
)

// Terminal is a drawing surface that presents frames as ANSI half-block
// cells. A terminal of cols x rows cells is cols x 2*rows pixels.
type Terminal struct {
	*raster.Canvas
	engine *Engine
	out    io.Writer
}

// NewTerminal returns a surface writing to out.
func NewTerminal(out io.Writer, cols, rows int) *Terminal {
	return &Terminal{
		Canvas: raster.NewCanvas(cols, 2*rows),
		engine: NewEngine(cols, rows),
		out:    out,
	}
}

// Resize changes the cell grid. The next frame is drawn in full.
func (t *Terminal) Resize(cols, rows int) {
	t.Canvas.Resize(cols, 2*rows)
	t.engine.Resize(cols, rows)
}

// Cells returns the terminal size in cells.
func (t *Terminal) Cells() (int, int) {
	return t.engine.Size()
}

// Present writes the cells that changed since the last frame.
func (t *Terminal) Present() error {
	frame := t.engine.Render(t.Image())
	if frame == "" {
		return nil
	}
	_, err := io.WriteString(t.out, frame)
	return err
}

// Redraw forces the next Present to repaint every cell.
func (t *Terminal) Redraw() {
	t.engine.Invalidate()
}
