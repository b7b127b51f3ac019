package render

import (
	"image"
	"image/color"
	"strings"
)

// HalfBlock draws the foreground in the top half of a cell and the
// background in the bottom half, giving two square-ish pixels per cell.
const HalfBlock = '▀'

// Cell represents a single terminal cell with full RGB color.
type Cell struct {
	Ch            rune
	FgR, FgG, FgB uint8
	BgR, BgG, BgB uint8
}

var sentinel = Cell{Ch: '\x00', FgR: 255, BgB: 255}

// HalfBlockCell packs two vertically stacked pixels into one cell.
func HalfBlockCell(top, bottom color.RGBA) Cell {
	return Cell{
		Ch:  HalfBlock,
		FgR: top.R, FgG: top.G, FgB: top.B,
		BgR: bottom.R, BgG: bottom.G, BgB: bottom.B,
	}
}

// Engine is a per-terminal double-buffer diff renderer. Each frame it
// converts an RGBA image of width x 2*height pixels into cells and emits
// only the cells that changed since the previous frame.
type Engine struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	firstFrame    bool
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{}
	e.Resize(width, height)
	return e
}

// Resize adjusts the renderer for a new terminal size. The next frame is
// drawn in full.
func (e *Engine) Resize(width, height int) {
	e.width = max(width, 0)
	e.height = max(height, 0)
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	e.firstFrame = true
}

// Size returns the terminal size in cells.
func (e *Engine) Size() (int, int) {
	return e.width, e.height
}

// Invalidate forces a full redraw on the next frame.
func (e *Engine) Invalidate() {
	e.firstFrame = true
}

func (e *Engine) makeBuffer(fill Cell) [][]Cell {
	buf := make([][]Cell, e.height)
	for y := 0; y < e.height; y++ {
		buf[y] = make([]Cell, e.width)
		for x := 0; x < e.width; x++ {
			buf[y][x] = fill
		}
	}
	return buf
}

// Render produces the ANSI output that turns the previous frame into img.
// Pixels outside img render black.
func (e *Engine) Render(img *image.RGBA) string {
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			e.next[y][x] = HalfBlockCell(PixelAt(img, x, 2*y), PixelAt(img, x, 2*y+1))
		}
	}

	// Diff current vs next, emit only changed cells
	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := e.next[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				// Only emit cursor position if not consecutive
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCellSGR(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	e.current, e.next = e.next, e.current
	e.firstFrame = false

	return sb.String()
}

// PixelAt returns the pixel at (x, y), or opaque black outside img.
func PixelAt(img *image.RGBA, x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return color.RGBA{A: 0xff}
	}
	return img.RGBAAt(x, y)
}

// Preview renders img as half-block lines without cursor movement, for
// printing a still image to a terminal. Transparent pixels take bg.
func Preview(img image.Image, bg color.RGBA) string {
	b := img.Bounds()
	at := func(x, y int) color.RGBA {
		if y >= b.Max.Y {
			return bg
		}
		c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
		if c.A == 0 {
			return bg
		}
		return c
	}

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			WriteCellSGR(&sb, HalfBlockCell(at(x, y), at(x, y+1)))
		}
		sb.WriteString(Reset)
		sb.WriteByte('\n')
	}
	return sb.String()
}
