package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/sprite"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/terrain"
)

// Panorama rasterizes every strip of seq side by side over a sky
// gradient. A transparent sky leaves the background clear.
func Panorama(seq *terrain.Sequence, catalog sprite.Catalog, top, bottom color.RGBA) (*image.RGBA, error) {
	tile := seq.TileSize
	out := image.NewRGBA(image.Rect(0, 0, seq.Width()*tile, seq.BufferHeight))
	Gradient(out, out.Rect, top, bottom)

	x := 0
	for _, s := range seq.Strips {
		buf := NewBuffer(s.Columns*tile, seq.BufferHeight)
		if err := Rasterize(buf, s, catalog, tile); err != nil {
			return nil, err
		}
		r := image.Rect(x, 0, x+buf.Width(), buf.Height())
		draw.Draw(out, r, buf.RGBA, image.Point{}, draw.Over)
		x += buf.Width()
	}
	return out, nil
}
