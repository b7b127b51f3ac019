package terrain

import (
	"errors"
	"fmt"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/pick"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/sprite"
)

var (
	// ErrAsymmetricSteps is returned when step-up and step-down weights differ.
	ErrAsymmetricSteps = errors.New("step-up and step-down weights must be equal")
	// ErrInvalidOptions covers every other rejected generator setting.
	ErrInvalidOptions = errors.New("invalid terrain options")
)

// Object categories.
const (
	Flowers   = "flowers"
	Trees     = "trees"
	Bushes    = "bushes"
	DeadTrees = "dead_trees"
	Boulders  = "boulders"
)

// ObjectWeight is the relative chance of planting an object of a category.
type ObjectWeight struct {
	Category string  `yaml:"category"`
	Weight   float64 `yaml:"weight"`
}

// SpriteSet lists the sprite ids the generator draws from.
type SpriteSet struct {
	Grass     []string            `yaml:"grass"`
	Dirt      []string            `yaml:"dirt"`
	SlopeUp   string              `yaml:"slope_up"`
	SlopeDown string              `yaml:"slope_down"`
	Objects   map[string][]string `yaml:"objects"`
}

// IDs returns every sprite id the set references.
func (s SpriteSet) IDs() []string {
	ids := append([]string(nil), s.Grass...)
	ids = append(ids, s.Dirt...)
	ids = append(ids, s.SlopeUp, s.SlopeDown)
	for _, cat := range []string{Flowers, Trees, Bushes, DeadTrees, Boulders} {
		ids = append(ids, s.Objects[cat]...)
	}
	return ids
}

// DefaultSprites matches the built-in sprite registry.
func DefaultSprites() SpriteSet {
	return SpriteSet{
		Grass:     []string{"grass_1", "grass_2", "grass_3", "grass_4"},
		Dirt:      []string{"dirt_1", "dirt_2", "dirt_3", "dirt_4"},
		SlopeUp:   "slope_up",
		SlopeDown: "slope_down",
		Objects: map[string][]string{
			Flowers:   {"flower_1", "flower_2", "flower_3"},
			Trees:     {"tree_1", "tree_2"},
			Bushes:    {"bush_1", "bush_2"},
			DeadTrees: {"dead_tree_1"},
			Boulders:  {"boulder_1", "boulder_2"},
		},
	}
}

// DefaultObjects returns the default category weights.
func DefaultObjects() []ObjectWeight {
	return []ObjectWeight{
		{Category: Flowers, Weight: 0.4},
		{Category: Trees, Weight: 0.2},
		{Category: Bushes, Weight: 0.2},
		{Category: DeadTrees, Weight: 0.1},
		{Category: Boulders, Weight: 0.1},
	}
}

// Options configures a Generator.
type Options struct {
	TileSize        int
	TargetGroundRow int

	// Action weights. Plain grass takes the remainder up to 1.
	StepUpWeight   float64
	StepDownWeight float64
	PlantWeight    float64

	// Larger divisors make drift correction gentler.
	UpCorrectionDivisor   float64
	DownCorrectionDivisor float64

	// Objects at least LargeObjectWidth tiles wide block planting for the
	// following LargeObjectCooldown columns. Zero cooldown disables it.
	LargeObjectWidth    int
	LargeObjectCooldown int

	Objects []ObjectWeight
	Sprites SpriteSet
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		TileSize:              32,
		TargetGroundRow:       8,
		StepUpWeight:          0.125,
		StepDownWeight:        0.125,
		PlantWeight:           0.25,
		UpCorrectionDivisor:   10,
		DownCorrectionDivisor: 10,
		LargeObjectWidth:      3,
		LargeObjectCooldown:   2,
		Objects:               DefaultObjects(),
		Sprites:               DefaultSprites(),
	}
}

type action int

const (
	actionGrass action = iota
	actionStepUp
	actionStepDown
	actionPlant
)

// Generator synthesizes strips tile by tile from weighted random actions.
type Generator struct {
	opts       Options
	src        pick.Source
	actions    *pick.Table[action]
	categories *pick.Table[string]
	widths     map[string]int
}

// NewGenerator validates opts and checks that catalog resolves every sprite
// the generator can place.
func NewGenerator(opts Options, catalog sprite.Catalog, src pick.Source) (*Generator, error) {
	if opts.TileSize <= 0 {
		return nil, fmt.Errorf("%w: tile size %d", ErrInvalidOptions, opts.TileSize)
	}
	if opts.UpCorrectionDivisor <= 0 || opts.DownCorrectionDivisor <= 0 {
		return nil, fmt.Errorf("%w: correction divisors must be positive", ErrInvalidOptions)
	}
	if opts.LargeObjectCooldown < 0 {
		return nil, fmt.Errorf("%w: negative cooldown", ErrInvalidOptions)
	}
	if opts.StepUpWeight != opts.StepDownWeight {
		return nil, fmt.Errorf("%w: up %.3f, down %.3f", ErrAsymmetricSteps, opts.StepUpWeight, opts.StepDownWeight)
	}

	actions, err := pick.NewTableWithRemainder(actionGrass,
		pick.Entry[action]{Weight: opts.StepUpWeight, Value: actionStepUp},
		pick.Entry[action]{Weight: opts.StepDownWeight, Value: actionStepDown},
		pick.Entry[action]{Weight: opts.PlantWeight, Value: actionPlant},
	)
	if err != nil {
		return nil, fmt.Errorf("action weights: %w", err)
	}

	set := opts.Sprites
	if len(set.Grass) == 0 || len(set.Dirt) == 0 || set.SlopeUp == "" || set.SlopeDown == "" {
		return nil, fmt.Errorf("%w: grass, dirt and slope sprites are required", ErrInvalidOptions)
	}

	entries := make([]pick.Entry[string], 0, len(opts.Objects))
	for _, o := range opts.Objects {
		if len(set.Objects[o.Category]) == 0 {
			return nil, fmt.Errorf("%w: object category %q has no sprites", ErrInvalidOptions, o.Category)
		}
		entries = append(entries, pick.Entry[string]{Weight: o.Weight, Value: o.Category})
	}
	categories, err := pick.NewTable(entries...)
	if err != nil {
		return nil, fmt.Errorf("object weights: %w", err)
	}

	widths := make(map[string]int)
	for _, id := range set.IDs() {
		img, err := catalog.Resolve(id)
		if err != nil {
			return nil, err
		}
		w, _ := sprite.TileSpan(img, opts.TileSize)
		widths[id] = max(w, 1)
	}

	return &Generator{
		opts:       opts,
		src:        src,
		actions:    actions,
		categories: categories,
		widths:     widths,
	}, nil
}

// Options returns the generator's settings.
func (g *Generator) Options() Options {
	return g.opts
}

// Reset puts p back on the target ground row.
func (g *Generator) Reset(p *Profile) {
	p.GroundY = g.opts.TargetGroundRow
	p.Cooldown = 0
}

// Generate produces one strip of columns tiles for a buffer bufferHeight
// pixels tall, starting at p.GroundY and leaving p at the strip's exit height.
func (g *Generator) Generate(p *Profile, columns, bufferHeight int) (*Strip, error) {
	if columns <= 0 || bufferHeight <= 0 {
		return nil, fmt.Errorf("%w: strip %d columns, %dpx tall", ErrInvalidOptions, columns, bufferHeight)
	}

	s := &Strip{
		Columns:     columns,
		Reference:   g.opts.TargetGroundRow,
		BottomRow:   BottomRow(bufferHeight, g.opts.TileSize, g.opts.TargetGroundRow),
		EntryGround: p.GroundY,
		Placements:  make([]Placement, 0, columns*4),
	}

	for col := 0; col < columns; {
		used, cooldown := g.step(p, s, col)
		col += used
		p.Cooldown = max(p.Cooldown-used, 0)
		if cooldown > 0 {
			p.Cooldown = cooldown
		}
	}

	s.ExitGround = p.GroundY
	return s, nil
}

// Sequence generates n consecutive strips from the target ground row.
func (g *Generator) Sequence(n, columns, bufferHeight int) (*Sequence, error) {
	seq := &Sequence{TileSize: g.opts.TileSize, BufferHeight: bufferHeight}
	var p Profile
	g.Reset(&p)
	for i := 0; i < n; i++ {
		s, err := g.Generate(&p, columns, bufferHeight)
		if err != nil {
			return nil, err
		}
		seq.Strips = append(seq.Strips, s)
	}
	return seq, nil
}

// step places one action at col and returns the columns it consumed and
// any cooldown it starts.
func (g *Generator) step(p *Profile, s *Strip, col int) (int, int) {
	switch g.actions.Pick(g.src) {
	case actionStepUp:
		if g.cancelled(g.opts.TargetGroundRow-p.GroundY, g.opts.UpCorrectionDivisor) {
			break
		}
		g.surface(s, col, p.GroundY, g.opts.Sprites.SlopeUp, KindSlopeUp)
		p.GroundY--
		return 1, 0

	case actionStepDown:
		if g.cancelled(p.GroundY-g.opts.TargetGroundRow, g.opts.DownCorrectionDivisor) {
			break
		}
		p.GroundY++
		g.surface(s, col, p.GroundY, g.opts.Sprites.SlopeDown, KindSlopeDown)
		return 1, 0

	case actionPlant:
		if p.Cooldown > 0 {
			break
		}
		category := g.categories.Pick(g.src)
		id := pick.UniformPick(g.src, g.opts.Sprites.Objects[category])
		w := g.widths[id]
		if col+w > s.Columns {
			break
		}
		for i := 0; i < w; i++ {
			g.grass(s, col+i, p.GroundY)
		}
		s.Placements = append(s.Placements, Placement{Sprite: id, Col: col, Row: p.GroundY - 1, Kind: KindObject})
		if g.opts.LargeObjectCooldown > 0 && w >= g.opts.LargeObjectWidth {
			return w, g.opts.LargeObjectCooldown
		}
		return w, 0
	}

	g.grass(s, col, p.GroundY)
	return 1, 0
}

// cancelled draws against a cancel probability of drift/divisor when the
// drift is positive. No draw is made when the step cannot be cancelled.
func (g *Generator) cancelled(drift int, divisor float64) bool {
	if drift <= 0 {
		return false
	}
	return g.src.Float64() < float64(drift)/divisor
}

func (g *Generator) grass(s *Strip, col, row int) {
	g.surface(s, col, row, pick.UniformPick(g.src, g.opts.Sprites.Grass), KindGrass)
}

// surface places the column's surface sprite and fills dirt beneath it down
// to the strip's bottom row.
func (g *Generator) surface(s *Strip, col, row int, id string, kind Kind) {
	s.Placements = append(s.Placements, Placement{Sprite: id, Col: col, Row: row, Kind: kind})
	for r := row + 1; r <= s.BottomRow; r++ {
		dirt := pick.UniformPick(g.src, g.opts.Sprites.Dirt)
		s.Placements = append(s.Placements, Placement{Sprite: dirt, Col: col, Row: r, Kind: KindDirt})
	}
}
