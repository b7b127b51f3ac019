// Package raster paints terrain strips into off-screen pixel buffers.
package raster

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/sprite"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/terrain"
)

// Buffer is an off-screen RGBA image whose width is a whole number of
// tiles. Version changes every time the contents are repainted.
type Buffer struct {
	*image.RGBA
	version uint64
}

// NewBuffer allocates a transparent buffer.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{RGBA: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (b *Buffer) Width() int  { return b.Rect.Dx() }
func (b *Buffer) Height() int { return b.Rect.Dy() }

// Version identifies the current contents.
func (b *Buffer) Version() uint64 { return b.version }

// Clear resets every pixel to transparent.
func (b *Buffer) Clear() {
	clear(b.Pix)
	b.version++
}

// Rasterize clears dst and draws every placement of s in order. Sprites
// are bottom-aligned on their anchor tile, and the strip's reference row
// rests on the buffer's half height. An unresolvable sprite aborts
// the whole strip.
func Rasterize(dst *Buffer, s *terrain.Strip, catalog sprite.Catalog, tile int) error {
	if tile <= 0 {
		return fmt.Errorf("rasterize: tile size %d", tile)
	}
	if dst.Width()%tile != 0 {
		return fmt.Errorf("rasterize: buffer width %d is not a multiple of %d", dst.Width(), tile)
	}
	if s.Columns*tile > dst.Width() {
		return fmt.Errorf("rasterize: %d columns do not fit %dpx", s.Columns, dst.Width())
	}

	dst.Clear()
	vp := Viewport{Width: dst.Width(), Height: dst.Height(), Tile: tile, Reference: s.Reference}
	for _, p := range s.Placements {
		img, err := catalog.Resolve(p.Sprite)
		if err != nil {
			return fmt.Errorf("rasterize column %d row %d: %w", p.Col, p.Row, err)
		}
		b := img.Bounds()
		at := vp.Anchor(p.Col, p.Row, b.Dy())
		r := image.Rectangle{Min: at, Max: at.Add(b.Size())}
		if !r.Overlaps(dst.Rect) {
			continue
		}
		draw.Draw(dst, r, img, b.Min, draw.Over)
	}
	return nil
}
