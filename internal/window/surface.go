package window

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/raster"
)

type texture struct {
	img     *ebiten.Image
	version uint64
	frame   uint64
}

// Surface composites on the GPU. Terrain buffers are uploaded once per
// repaint and reused until their version changes.
type Surface struct {
	offscreen *ebiten.Image
	textures  map[*raster.Buffer]*texture
	frame     uint64
}

// NewSurface allocates an offscreen image of the given size.
func NewSurface(width, height int) *Surface {
	s := &Surface{textures: make(map[*raster.Buffer]*texture)}
	s.Resize(width, height)
	return s
}

// Resize reallocates the offscreen image when its size changes.
func (s *Surface) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if w, h := s.Size(); s.offscreen != nil && w == width && h == height {
		return
	}
	if s.offscreen != nil {
		s.offscreen.Deallocate()
		s.offscreen = nil
	}
	if width > 0 && height > 0 {
		s.offscreen = ebiten.NewImage(width, height)
	}
}

func (s *Surface) Size() (int, int) {
	if s.offscreen == nil {
		return 0, 0
	}
	b := s.offscreen.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the composited frame, or nil while the surface has no area.
func (s *Surface) Image() *ebiten.Image {
	return s.offscreen
}

func (s *Surface) Clear(r image.Rectangle) {
	if s.offscreen == nil {
		return
	}
	if r.Eq(s.offscreen.Bounds()) {
		s.offscreen.Clear()
		return
	}
	s.offscreen.SubImage(r).(*ebiten.Image).Clear()
}

func (s *Surface) FillGradient(r image.Rectangle, top, bottom color.RGBA) {
	if s.offscreen == nil {
		return
	}
	r = r.Intersect(s.offscreen.Bounds())
	if r.Empty() {
		return
	}
	vs, is := gradientVertices(r, top, bottom)
	s.offscreen.DrawTriangles(vs, is, whiteImage(), &ebiten.DrawTrianglesOptions{})
}

func (s *Surface) DrawImage(img image.Image, x, y int) {
	if s.offscreen == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	if buf, ok := img.(*raster.Buffer); ok {
		s.offscreen.DrawImage(s.upload(buf), op)
		return
	}
	s.offscreen.DrawImage(ebiten.NewImageFromImage(img), op)
}

// Present releases textures of buffers that were not drawn this frame.
func (s *Surface) Present() error {
	for buf, t := range s.textures {
		if t.frame != s.frame {
			t.img.Deallocate()
			delete(s.textures, buf)
		}
	}
	s.frame++
	return nil
}

// Textures reports how many terrain buffers are resident on the GPU.
func (s *Surface) Textures() int {
	return len(s.textures)
}

func (s *Surface) upload(buf *raster.Buffer) *ebiten.Image {
	t, ok := s.textures[buf]
	if ok && t.img.Bounds() != buf.Rect {
		t.img.Deallocate()
		ok = false
	}
	if !ok {
		t = &texture{img: ebiten.NewImage(buf.Width(), buf.Height())}
		t.img.WritePixels(buf.Pix)
		t.version = buf.Version()
		s.textures[buf] = t
	} else if t.version != buf.Version() {
		t.img.WritePixels(buf.Pix)
		t.version = buf.Version()
	}
	t.frame = s.frame
	return t.img
}

var white *ebiten.Image

// whiteImage is the source for solid fills; vertex colors tint it.
func whiteImage() *ebiten.Image {
	if white == nil {
		white = ebiten.NewImage(3, 3)
		white.Fill(color.White)
	}
	return white
}

// gradientVertices covers r with two triangles blending top to bottom.
func gradientVertices(r image.Rectangle, top, bottom color.RGBA) ([]ebiten.Vertex, []uint16) {
	corner := func(x, y int, c color.RGBA) ebiten.Vertex {
		return ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			SrcX:   1,
			SrcY:   1,
			ColorR: float32(c.R) / 255,
			ColorG: float32(c.G) / 255,
			ColorB: float32(c.B) / 255,
			ColorA: float32(c.A) / 255,
		}
	}
	vs := []ebiten.Vertex{
		corner(r.Min.X, r.Min.Y, top),
		corner(r.Max.X, r.Min.Y, top),
		corner(r.Min.X, r.Max.Y, bottom),
		corner(r.Max.X, r.Max.Y, bottom),
	}
	return vs, []uint16{0, 1, 2, 1, 3, 2}
}
