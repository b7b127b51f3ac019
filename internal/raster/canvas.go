package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Canvas is an in-memory drawing surface backed by an RGBA image.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas returns a transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize reallocates the canvas when its size changes. Contents are lost.
func (c *Canvas) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if c.img != nil && c.img.Rect.Dx() == width && c.img.Rect.Dy() == height {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

func (c *Canvas) Size() (int, int) {
	return c.img.Rect.Dx(), c.img.Rect.Dy()
}

// Image exposes the pixels for hosts that present them.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

func (c *Canvas) Clear(r image.Rectangle) {
	draw.Draw(c.img, r, image.Transparent, image.Point{}, draw.Src)
}

func (c *Canvas) FillGradient(r image.Rectangle, top, bottom color.RGBA) {
	Gradient(c.img, r, top, bottom)
}

func (c *Canvas) DrawImage(img image.Image, x, y int) {
	img = unwrap(img)
	b := img.Bounds()
	r := image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+b.Dx(), y+b.Dy())}
	draw.Draw(c.img, r, img, b.Min, draw.Over)
}

// unwrap exposes a Buffer's RGBA image so draw takes its fast path.
func unwrap(img image.Image) image.Image {
	if b, ok := img.(*Buffer); ok {
		return b.RGBA
	}
	return img
}

// Gradient fills r on dst with a vertical blend from top to bottom.
func Gradient(dst draw.Image, r image.Rectangle, top, bottom color.RGBA) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	span := max(r.Dy()-1, 1)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		c := Lerp(top, bottom, float64(y-r.Min.Y)/float64(span))
		row := image.Rect(r.Min.X, y, r.Max.X, y+1)
		draw.Draw(dst, row, image.NewUniform(c), image.Point{}, draw.Src)
	}
}

// Lerp blends a toward b by t in [0,1].
func Lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}
