// Package terrain generates strips of side-view landscape tiles.
package terrain

import "fmt"

// Kind classifies a placement.
type Kind int

const (
	KindGrass Kind = iota
	KindSlopeUp
	KindSlopeDown
	KindDirt
	KindObject
)

var kindNames = [...]string{"grass", "slope_up", "slope_down", "dirt", "object"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown placement kind %q", s)
}

// IsSurface reports whether the placement is the walkable surface of its
// column. Every column holds exactly one surface placement.
func (k Kind) IsSurface() bool {
	return k == KindGrass || k == KindSlopeUp || k == KindSlopeDown
}

// Placement is one sprite anchored at a tile coordinate. The anchor is the
// sprite's bottom-left tile; taller sprites extend upward. Rows grow
// downward; the strip's Reference row is drawn at half height.
type Placement struct {
	Sprite string
	Col    int
	Row    int
	Kind   Kind
}

// EntryRow is the ground row the surface meets on its left edge.
func (p Placement) EntryRow() int {
	if p.Kind == KindSlopeDown {
		return p.Row - 1
	}
	return p.Row
}

// ExitRow is the ground row the surface meets on its right edge.
func (p Placement) ExitRow() int {
	if p.Kind == KindSlopeUp {
		return p.Row - 1
	}
	return p.Row
}

// Profile is the ground height at the generation cursor. It is carried from
// one strip to the next so consecutive strips join without a seam.
type Profile struct {
	GroundY int
	// Cooldown is the number of columns left in which no object may be
	// planted after a large one.
	Cooldown int
}

// Strip is the output of one Generate call. Placements are in paint order.
type Strip struct {
	Columns     int
	Reference   int // row drawn at half the buffer height
	BottomRow   int
	EntryGround int
	ExitGround  int
	Placements  []Placement
}

// Surfaces returns the surface placement of each column, indexed by column.
// Columns without a surface hold the zero Placement.
func (s *Strip) Surfaces() []Placement {
	out := make([]Placement, s.Columns)
	for _, p := range s.Placements {
		if p.Kind.IsSurface() && p.Col >= 0 && p.Col < s.Columns {
			out[p.Col] = p
		}
	}
	return out
}

// Objects returns the decorative placements.
func (s *Strip) Objects() []Placement {
	var out []Placement
	for _, p := range s.Placements {
		if p.Kind == KindObject {
			out = append(out, p)
		}
	}
	return out
}

// BottomRow returns the lowest tile row that still intersects a buffer of
// the given height when row reference rests on its half height.
func BottomRow(bufferHeight, tile, reference int) int {
	below := bufferHeight - bufferHeight/2
	return reference + (below+tile-1)/tile
}
