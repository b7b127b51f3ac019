package sprite

import (
	"image"
	"image/color"
	"math"
)

// designTile is the pixel size one tile is drawn at before scaling.
const designTile = 16

// Palette
var (
	grassLight = color.RGBA{112, 178, 64, 255}
	grassDark  = color.RGBA{62, 128, 44, 255}
	dirtLight  = color.RGBA{150, 104, 62, 255}
	dirtDark   = color.RGBA{104, 68, 40, 255}
	stoneLight = color.RGBA{150, 150, 144, 255}
	stoneDark  = color.RGBA{96, 96, 92, 255}
	barkLight  = color.RGBA{120, 82, 48, 255}
	barkDark   = color.RGBA{78, 52, 32, 255}
	leafLight  = color.RGBA{88, 160, 70, 255}
	leafDark   = color.RGBA{36, 96, 40, 255}
	deadLight  = color.RGBA{140, 126, 110, 255}
	deadDark   = color.RGBA{92, 80, 70, 255}
	stemGreen  = color.RGBA{52, 120, 40, 255}
)

var petalColors = []color.RGBA{
	{220, 60, 70, 255},
	{240, 200, 60, 255},
	{160, 90, 210, 255},
}

// grassBlades holds the blade tip columns per grass variant.
var grassBlades = [4][]int{
	{1, 5, 8, 12, 14},
	{2, 6, 9, 11, 15},
	{0, 4, 7, 10, 13},
	{3, 5, 9, 12, 15},
}

// art is a design-resolution pixmap.
type art struct {
	img *image.RGBA
	n   *noise
}

func newArt(wTiles, hTiles int, seed int64) *art {
	return &art{
		img: image.NewRGBA(image.Rect(0, 0, wTiles*designTile, hTiles*designTile)),
		n:   newNoise(seed),
	}
}

func (a *art) set(x, y int, c color.RGBA) {
	if image.Pt(x, y).In(a.img.Bounds()) {
		a.img.SetRGBA(x, y, c)
	}
}

// shade blends between dark and light using noise at (x, y).
func (a *art) shade(x, y int, dark, light color.RGBA, freq float64) color.RGBA {
	return lerp(dark, light, a.n.fractal(float64(x), float64(y), freq, 3))
}

func (a *art) dirt(x, y int) color.RGBA {
	return a.shade(x, y, dirtDark, dirtLight, 0.35)
}

func (a *art) grass(x, y int) color.RGBA {
	return a.shade(x, y, grassDark, grassLight, 0.25)
}

// ground fills column x from surface downwards: a grass band, then dirt.
func (a *art) ground(x, surface int) {
	h := a.img.Bounds().Dy()
	for y := surface; y < h; y++ {
		if y < surface+5 {
			a.set(x, y, a.grass(x, y))
		} else {
			a.set(x, y, a.dirt(x, y))
		}
	}
}

// disc fills an ellipse shaded from dark at the bottom to light at the top.
func (a *art) disc(cx, cy, rx, ry float64, dark, light color.RGBA) {
	b := a.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy > 1 {
				continue
			}
			t := 0.55 - dy*0.35 + (a.n.fractal(float64(x), float64(y), 0.3, 2)-0.5)*0.5
			a.set(x, y, lerp(dark, light, t))
		}
	}
}

// line draws a thick line from (x0,y0) to (x1,y1).
func (a *art) line(x0, y0, x1, y1, width float64, dark, light color.RGBA) {
	steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))*2) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + (x1-x0)*t
		y := y0 + (y1-y0)*t
		for dx := -width / 2; dx < width/2; dx++ {
			px := int(math.Floor(x + dx))
			a.set(px, int(y), a.shade(px, int(y), dark, light, 0.5))
		}
	}
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

// --- Ground ---

func grassTile(v int) *image.RGBA {
	a := newArt(1, 1, int64(100+v))
	for x := 0; x < designTile; x++ {
		a.ground(x, 2)
	}
	for _, x := range grassBlades[v%len(grassBlades)] {
		a.set(x, 1, grassLight)
		a.set(x, 0, grassLight)
	}
	return a.img
}

func dirtTile(v int) *image.RGBA {
	a := newArt(1, 1, int64(200+v))
	for y := 0; y < designTile; y++ {
		for x := 0; x < designTile; x++ {
			a.set(x, y, a.dirt(x+v*designTile, y))
		}
	}
	if v%2 == 1 {
		sx, sy := 3+v*3%9, 4+v*5%8
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 3; dx++ {
				a.set(sx+dx, sy+dy, stoneDark)
			}
		}
		a.set(sx+1, sy, stoneLight)
	}
	return a.img
}

// slopeTile draws a two-tile-tall slope. The lower tile is solid; the upper
// tile holds the diagonal surface, rising to the right when up is true.
func slopeTile(up bool) *image.RGBA {
	a := newArt(1, 2, 300)
	for x := 0; x < designTile; x++ {
		// +2 lines the slope up with the grass line of a flat tile.
		surface := x + 1 + 2
		if up {
			surface = designTile - x + 2
		}
		a.ground(x, surface)
	}
	return a.img
}

// --- Objects ---

func flower(v int) *image.RGBA {
	a := newArt(1, 1, int64(400+v))
	petal := petalColors[v%len(petalColors)]
	cx := 6 + v%3*2
	for y := 7; y < designTile; y++ {
		a.set(cx, y, stemGreen)
	}
	a.set(cx-1, 11, leafLight)
	a.set(cx+1, 12, leafLight)
	for _, d := range [][2]int{{0, -2}, {-2, 0}, {2, 0}, {0, 2}, {-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		a.set(cx+d[0], 5+d[1], petal)
	}
	a.set(cx, 5, color.RGBA{250, 240, 200, 255})
	return a.img
}

func bush(v int) *image.RGBA {
	a := newArt(2, 1, int64(500+v))
	a.disc(10, 10, 9, 6.5, leafDark, leafLight)
	a.disc(22, 10.5, 9, 6, leafDark, leafLight)
	a.disc(16, 7, 8, 6.5, leafDark, leafLight)
	if v%2 == 1 {
		for _, p := range [][2]int{{9, 7}, {19, 6}, {24, 10}, {14, 11}} {
			a.set(p[0], p[1], petalColors[0])
		}
	}
	return a.img
}

func tree(wTiles, hTiles int, seed int64) *image.RGBA {
	a := newArt(wTiles, hTiles, seed)
	w := float64(wTiles * designTile)
	h := float64(hTiles * designTile)
	cx := w / 2

	a.line(cx, h, cx, h*0.4, w/8, barkDark, barkLight)

	r := w * 0.42
	a.disc(cx-r*0.55, h*0.45, r*0.7, r*0.6, leafDark, leafLight)
	a.disc(cx+r*0.55, h*0.45, r*0.7, r*0.6, leafDark, leafLight)
	a.disc(cx, h*0.28, r, r*0.85, leafDark, leafLight)
	return a.img
}

func deadTree(seed int64) *image.RGBA {
	a := newArt(2, 3, seed)
	a.line(16, 48, 16, 10, 4, deadDark, deadLight)
	a.line(16, 26, 6, 14, 2, deadDark, deadLight)
	a.line(16, 20, 26, 8, 2, deadDark, deadLight)
	a.line(16, 32, 24, 24, 2, deadDark, deadLight)
	a.line(8, 17, 4, 9, 1, deadDark, deadLight)
	return a.img
}

func boulder(wTiles int, seed int64) *image.RGBA {
	a := newArt(wTiles, 1, seed)
	w := float64(wTiles * designTile)
	a.disc(w/2, 11, w/2-1.5, 5.5, stoneDark, stoneLight)
	return a.img
}

// NewBuiltin returns a registry of procedurally drawn sprites scaled to
// tile pixels. It needs no asset files.
func NewBuiltin(tile int) *Registry {
	raw := map[string]*image.RGBA{
		"slope_up":    slopeTile(true),
		"slope_down":  slopeTile(false),
		"tree_1":      tree(2, 3, 600),
		"tree_2":      tree(3, 4, 601),
		"dead_tree_1": deadTree(700),
		"boulder_1":   boulder(1, 800),
		"boulder_2":   boulder(2, 801),
		"bush_1":      bush(0),
		"bush_2":      bush(1),
	}
	for v := 0; v < 4; v++ {
		raw[idOf("grass", v)] = grassTile(v)
		raw[idOf("dirt", v)] = dirtTile(v)
	}
	for v := 0; v < 3; v++ {
		raw[idOf("flower", v)] = flower(v)
	}

	reg := NewRegistry(tile)
	for id, img := range raw {
		reg.Add(id, scale(img, designTile, tile))
	}
	return reg
}

func idOf(prefix string, v int) string {
	return prefix + "_" + string(rune('1'+v))
}
