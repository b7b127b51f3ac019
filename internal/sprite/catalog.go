// Package sprite resolves symbolic sprite ids to decoded images.
package sprite

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"golang.org/x/image/draw"
)

// ErrNotFound is returned when a sprite id is missing from a catalog.
var ErrNotFound = errors.New("sprite not found")

// Catalog looks up a sprite image by id. Implementations must be fully
// loaded before the first Resolve call.
type Catalog interface {
	Resolve(id string) (image.Image, error)
}

// Registry is an in-memory Catalog of images already scaled to one tile size.
type Registry struct {
	tile    int
	sprites map[string]image.Image
}

// NewRegistry creates an empty registry for the given tile size in pixels.
func NewRegistry(tile int) *Registry {
	return &Registry{
		tile:    tile,
		sprites: make(map[string]image.Image),
	}
}

// TileSize returns the pixel size of one tile.
func (r *Registry) TileSize() int {
	return r.tile
}

// Add stores img under id, replacing any previous sprite.
func (r *Registry) Add(id string, img image.Image) {
	r.sprites[id] = img
}

// Resolve implements Catalog.
func (r *Registry) Resolve(id string) (image.Image, error) {
	img, ok := r.sprites[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return img, nil
}

// Has returns whether the registry holds id.
func (r *Registry) Has(id string) bool {
	_, ok := r.sprites[id]
	return ok
}

// IDs returns every sprite id in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.sprites))
	for id := range r.sprites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Missing returns the ids from want that the registry cannot resolve.
func (r *Registry) Missing(want []string) []string {
	var missing []string
	for _, id := range want {
		if !r.Has(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// Merge copies every sprite of other into r, overriding on id collisions.
func (r *Registry) Merge(other *Registry) {
	for id, img := range other.sprites {
		r.sprites[id] = img
	}
}

// TileSpan returns how many whole tiles img covers horizontally and
// vertically, rounding partial tiles up.
func TileSpan(img image.Image, tile int) (w, h int) {
	b := img.Bounds()
	return (b.Dx() + tile - 1) / tile, (b.Dy() + tile - 1) / tile
}

// scale resizes src by tile/sourceTile with nearest-neighbour sampling so
// pixel art stays crisp.
func scale(src image.Image, sourceTile, tile int) *image.RGBA {
	b := src.Bounds()
	w := b.Dx() * tile / sourceTile
	h := b.Dy() * tile / sourceTile
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
