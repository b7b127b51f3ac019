package raster

import "image"

// Viewport maps tile coordinates onto a buffer of Width x Height pixels.
// Row Reference sits on the horizontal line through the middle of the
// buffer.
type Viewport struct {
	Width, Height int
	Tile          int
	Reference     int
}

// RoundUpToTile returns the smallest multiple of tile that is >= n.
func RoundUpToTile(n, tile int) int {
	if tile <= 0 {
		return n
	}
	return (n + tile - 1) / tile * tile
}

// Columns is the number of whole tiles needed to cover Width.
func (v Viewport) Columns() int {
	return RoundUpToTile(v.Width, v.Tile) / v.Tile
}

// BufferWidth is Width rounded up to a whole number of tiles.
func (v Viewport) BufferWidth() int {
	return RoundUpToTile(v.Width, v.Tile)
}

// Half is the pixel y of the reference row's bottom edge.
func (v Viewport) Half() int {
	return v.Height / 2
}

// Baseline returns the pixel point at the bottom-left corner of tile
// (col, row).
func (v Viewport) Baseline(col, row int) image.Point {
	return image.Pt(col*v.Tile, (row-v.Reference)*v.Tile+v.Half())
}

// Anchor returns the top-left pixel of a sprite h pixels tall whose bottom
// edge rests on tile (col, row).
func (v Viewport) Anchor(col, row, h int) image.Point {
	p := v.Baseline(col, row)
	p.Y -= h
	return p
}

// TileAt converts a pixel coordinate into the tile whose band contains it.
// Returns -1,-1 when the point lies outside the buffer.
func (v Viewport) TileAt(x, y int) (int, int) {
	if x < 0 || y < 0 || x >= v.Width || y >= v.Height || v.Tile <= 0 {
		return -1, -1
	}
	// row r covers [(r-1)*tile, r*tile) relative to Half
	rel := y - v.Half()
	row := rel / v.Tile
	if rel < 0 && rel%v.Tile != 0 {
		row--
	}
	return x / v.Tile, row + 1 + v.Reference
}
