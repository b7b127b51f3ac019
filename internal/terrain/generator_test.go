package terrain

import (
	"bytes"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/pick"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/sprite"
)

// scripted replays fixed draws, then settles on plain grass and index 0.
type scripted struct {
	floats []float64
	ints   []int
}

func (s *scripted) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scripted) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0] % n
	s.ints = s.ints[1:]
	return v
}

func newGenerator(t *testing.T, opts Options, src pick.Source) *Generator {
	t.Helper()
	g, err := NewGenerator(opts, sprite.NewBuiltin(opts.TileSize), src)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func TestBottomRow(t *testing.T) {
	tests := []struct {
		height, tile, reference, want int
	}{
		{640, 32, 0, 10},
		{720, 32, 0, 12},
		{1080, 32, 0, 17},
		{81, 8, 0, 6},
		{80, 8, 0, 5},
		{240, 32, 8, 12},
		{720, 32, 8, 20},
		{24, 8, 2, 4},
	}
	for _, tt := range tests {
		if got := BottomRow(tt.height, tt.tile, tt.reference); got != tt.want {
			t.Errorf("BottomRow(%d, %d, %d) = %d, want %d", tt.height, tt.tile, tt.reference, got, tt.want)
		}
	}
}

func TestDirtCoversEveryColumnForAnyDrift(t *testing.T) {
	opts := DefaultOptions()
	const height = 720
	bottom := BottomRow(height, opts.TileSize, opts.TargetGroundRow)

	for seed := int64(1); seed <= 5; seed++ {
		g := newGenerator(t, opts, rand.New(rand.NewSource(seed)))
		for start := opts.TargetGroundRow - 10; start <= bottom+2; start++ {
			p := &Profile{GroundY: start}
			s, err := g.Generate(p, 40, height)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}

			dirt := make(map[[2]int]int)
			for _, pl := range s.Placements {
				if pl.Kind == KindDirt {
					dirt[[2]int{pl.Col, pl.Row}]++
				}
			}

			for col, surf := range s.Surfaces() {
				if surf.Sprite == "" {
					t.Fatalf("seed %d start %d: column %d has no surface", seed, start, col)
				}
				for row := surf.Row + 1; row <= s.BottomRow; row++ {
					if dirt[[2]int{col, row}] != 1 {
						t.Fatalf("seed %d start %d: column %d row %d has %d dirt tiles, want 1",
							seed, start, col, row, dirt[[2]int{col, row}])
					}
					delete(dirt, [2]int{col, row})
				}
			}
			if len(dirt) != 0 {
				t.Fatalf("seed %d start %d: stray dirt placements %v", seed, start, dirt)
			}
		}
	}
}

func TestContinuityAcrossStrips(t *testing.T) {
	opts := DefaultOptions()
	g := newGenerator(t, opts, rand.New(rand.NewSource(11)))
	p := &Profile{}
	g.Reset(p)

	var prev *Strip
	for i := 0; i < 50; i++ {
		s, err := g.Generate(p, 12, 720)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if prev != nil && s.EntryGround != prev.ExitGround {
			t.Fatalf("strip %d enters at %d, previous exited at %d", i, s.EntryGround, prev.ExitGround)
		}

		ground := s.EntryGround
		for col, surf := range s.Surfaces() {
			if surf.EntryRow() != ground {
				t.Fatalf("strip %d column %d (%s) enters at row %d, ground was %d", i, col, surf.Kind, surf.EntryRow(), ground)
			}
			ground = surf.ExitRow()
		}
		if ground != s.ExitGround || p.GroundY != s.ExitGround {
			t.Fatalf("strip %d: last column exits at %d, strip exit %d, profile %d", i, ground, s.ExitGround, p.GroundY)
		}
		prev = s
	}
}

func TestFirstColumnStartsAtPreviousExit(t *testing.T) {
	opts := DefaultOptions()
	g := newGenerator(t, opts, rand.New(rand.NewSource(3)))
	p := &Profile{}
	g.Reset(p)

	for i := 0; i < 100; i++ {
		a, _ := g.Generate(p, 10, 640)
		b, _ := g.Generate(p, 10, 640)
		first := b.Surfaces()[0]
		if first.EntryRow() != a.ExitGround {
			t.Fatalf("iteration %d: strip B column 0 enters at %d, strip A exits at %d", i, first.EntryRow(), a.ExitGround)
		}
		if first.Kind != KindSlopeDown && first.Row != a.ExitGround {
			t.Fatalf("iteration %d: %s surface at row %d, want %d", i, first.Kind, first.Row, a.ExitGround)
		}
	}
}

func TestObjectsNeverOverflow(t *testing.T) {
	opts := DefaultOptions()
	opts.StepUpWeight = 0.05
	opts.StepDownWeight = 0.05
	opts.PlantWeight = 0.85
	opts.LargeObjectCooldown = 0

	builtin := sprite.NewBuiltin(opts.TileSize)
	g := newGenerator(t, opts, rand.New(rand.NewSource(5)))
	p := &Profile{}
	g.Reset(p)

	for i := 0; i < 200; i++ {
		columns := 1 + i%7
		s, err := g.Generate(p, columns, 640)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		for _, obj := range s.Objects() {
			img, _ := builtin.Resolve(obj.Sprite)
			w, _ := sprite.TileSpan(img, opts.TileSize)
			if obj.Col+w > columns {
				t.Fatalf("%s (width %d) at column %d overflows %d columns", obj.Sprite, w, obj.Col, columns)
			}
		}
	}
}

func TestWideObjectNearEdgeFallsBackToGrass(t *testing.T) {
	opts := DefaultOptions()
	// plant (0.3), trees (0.5), tree_2 which is 3 tiles wide
	src := &scripted{floats: []float64{0.3, 0.5}, ints: []int{1}}
	g := newGenerator(t, opts, src)
	p := &Profile{GroundY: opts.TargetGroundRow}

	s, err := g.Generate(p, 2, 640)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if objs := s.Objects(); len(objs) != 0 {
		t.Fatalf("expected no objects, got %v", objs)
	}
	for col, surf := range s.Surfaces() {
		if surf.Kind != KindGrass {
			t.Errorf("column %d: %s, want grass", col, surf.Kind)
		}
	}
}

func TestObjectStandsOnGrassFootprint(t *testing.T) {
	opts := DefaultOptions()
	src := &scripted{floats: []float64{0.3, 0.5}, ints: []int{1}}
	g := newGenerator(t, opts, src)
	p := &Profile{GroundY: opts.TargetGroundRow}

	s, _ := g.Generate(p, 4, 640)
	objs := s.Objects()
	if len(objs) != 1 {
		t.Fatalf("expected one object, got %v", objs)
	}
	tree := objs[0]
	if tree.Sprite != "tree_2" || tree.Col != 0 || tree.Row != opts.TargetGroundRow-1 {
		t.Errorf("object = %+v, want tree_2 at column 0 row %d", tree, opts.TargetGroundRow-1)
	}

	// painted after the grass and dirt beneath it
	last, objAt := -1, -1
	for i, pl := range s.Placements {
		switch {
		case pl.Kind == KindObject:
			objAt = i
		case pl.Col < 3:
			last = i
		}
	}
	if objAt < last {
		t.Errorf("object at index %d painted before footprint tile at %d", objAt, last)
	}
}

func TestLargeObjectCooldown(t *testing.T) {
	opts := DefaultOptions()
	opts.LargeObjectWidth = 3
	opts.LargeObjectCooldown = 2

	src := &scripted{
		floats: []float64{0.3, 0.5, 0.3, 0.3, 0.3, 0.1},
		ints:   []int{1},
	}
	g := newGenerator(t, opts, src)
	p := &Profile{GroundY: opts.TargetGroundRow}

	s, _ := g.Generate(p, 6, 640)
	var got []Placement
	for _, obj := range s.Objects() {
		got = append(got, Placement{Sprite: obj.Sprite, Col: obj.Col})
	}
	want := []Placement{{Sprite: "tree_2", Col: 0}, {Sprite: "flower_1", Col: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("objects = %v, want %v", got, want)
	}
}

func TestStepUpCancelledFarAboveTarget(t *testing.T) {
	opts := DefaultOptions()
	start := opts.TargetGroundRow - int(opts.UpCorrectionDivisor)

	// step-up, then a cancel draw that any probability of 1 catches
	src := &scripted{floats: []float64{0.0, 0.999}}
	g := newGenerator(t, opts, src)
	p := &Profile{GroundY: start}

	s, _ := g.Generate(p, 1, 640)
	if surf := s.Surfaces()[0]; surf.Kind != KindGrass {
		t.Errorf("surface %s, want grass", surf.Kind)
	}
	if p.GroundY != start {
		t.Errorf("ground moved to %d, want %d", p.GroundY, start)
	}
}

func TestStepUpBelowTargetNeverCancels(t *testing.T) {
	opts := DefaultOptions()
	start := opts.TargetGroundRow + 3

	// only the action draw: no cancel draw happens below target
	src := &scripted{floats: []float64{0.0}}
	g := newGenerator(t, opts, src)
	p := &Profile{GroundY: start}

	s, _ := g.Generate(p, 1, 640)
	surf := s.Surfaces()[0]
	if surf.Kind != KindSlopeUp || surf.Row != start {
		t.Errorf("surface = %+v, want slope_up at row %d", surf, start)
	}
	if p.GroundY != start-1 {
		t.Errorf("ground = %d, want %d", p.GroundY, start-1)
	}
}

func TestStepDownPlacesSlopeAtNewRow(t *testing.T) {
	opts := DefaultOptions()
	start := opts.TargetGroundRow - 2

	src := &scripted{floats: []float64{0.2}}
	g := newGenerator(t, opts, src)
	p := &Profile{GroundY: start}

	s, _ := g.Generate(p, 1, 640)
	surf := s.Surfaces()[0]
	if surf.Kind != KindSlopeDown || surf.Row != start+1 {
		t.Errorf("surface = %+v, want slope_down at row %d", surf, start+1)
	}
	if surf.EntryRow() != start {
		t.Errorf("slope_down enters at %d, want %d", surf.EntryRow(), start)
	}
}

func TestGroundStaysWithinCorrectionBand(t *testing.T) {
	opts := DefaultOptions()
	g := newGenerator(t, opts, rand.New(rand.NewSource(99)))
	p := &Profile{}
	g.Reset(p)

	lo := opts.TargetGroundRow - int(opts.UpCorrectionDivisor)
	hi := opts.TargetGroundRow + int(opts.DownCorrectionDivisor)
	for i := 0; i < 500; i++ {
		if _, err := g.Generate(p, 20, 720); err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if p.GroundY < lo || p.GroundY > hi {
			t.Fatalf("ground %d escaped [%d, %d]", p.GroundY, lo, hi)
		}
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	opts := DefaultOptions()
	run := func() []*Strip {
		g := newGenerator(t, opts, rand.New(rand.NewSource(2024)))
		p := &Profile{}
		g.Reset(p)
		var out []*Strip
		for i := 0; i < 5; i++ {
			s, _ := g.Generate(p, 30, 720)
			out = append(out, s)
		}
		return out
	}
	if !reflect.DeepEqual(run(), run()) {
		t.Error("same seed produced different strips")
	}
}

// Viewport 320px wide, 32px tiles: ten columns, one surface each.
func TestTenColumnStripScenario(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetGroundRow = 8
	g := newGenerator(t, opts, rand.New(rand.NewSource(8)))
	p := &Profile{}
	g.Reset(p)

	columns := (320 + opts.TileSize - 1) / opts.TileSize
	s, err := g.Generate(p, columns, 480)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	perColumn := make(map[int]int)
	total := 0
	for _, pl := range s.Placements {
		if pl.Kind.IsSurface() {
			perColumn[pl.Col]++
			total++
		}
	}
	if total != 10 {
		t.Fatalf("got %d surface placements, want 10", total)
	}
	for col := 0; col < 10; col++ {
		if perColumn[col] != 1 {
			t.Errorf("column %d has %d surface placements", col, perColumn[col])
		}
	}
}

func TestNewGeneratorRejects(t *testing.T) {
	catalog := sprite.NewBuiltin(32)
	src := rand.New(rand.NewSource(1))

	tests := []struct {
		name   string
		mutate func(*Options)
		want   error
	}{
		{"asymmetric steps", func(o *Options) { o.StepDownWeight = 0.2 }, ErrAsymmetricSteps},
		{"actions leave no grass", func(o *Options) { o.StepUpWeight, o.StepDownWeight, o.PlantWeight = 0.4, 0.4, 0.3 }, pick.ErrDegenerateWeights},
		{"zero plant weight", func(o *Options) { o.PlantWeight = 0 }, pick.ErrDegenerateWeights},
		{"objects under one", func(o *Options) { o.Objects = []ObjectWeight{{Flowers, 0.3}, {Trees, 0.3}} }, pick.ErrDegenerateWeights},
		{"unknown category", func(o *Options) { o.Objects = []ObjectWeight{{"mushrooms", 1}} }, ErrInvalidOptions},
		{"missing sprite", func(o *Options) { o.Sprites.Grass = []string{"grass_9"} }, sprite.ErrNotFound},
		{"no dirt", func(o *Options) { o.Sprites.Dirt = nil }, ErrInvalidOptions},
		{"zero tile", func(o *Options) { o.TileSize = 0 }, ErrInvalidOptions},
		{"zero divisor", func(o *Options) { o.UpCorrectionDivisor = 0 }, ErrInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Sprites = DefaultSprites()
			tt.mutate(&opts)
			_, err := NewGenerator(opts, catalog, src)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	g := newGenerator(t, opts, rand.New(rand.NewSource(4)))
	p := &Profile{}
	g.Reset(p)

	seq := &Sequence{TileSize: opts.TileSize, BufferHeight: 640}
	for i := 0; i < 3; i++ {
		s, _ := g.Generate(p, 10, 640)
		seq.Strips = append(seq.Strips, s)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, seq); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(got, seq) {
		t.Error("sequence changed across JSON round trip")
	}
	if got.Width() != 30 {
		t.Errorf("Width = %d, want 30", got.Width())
	}
	if got.Strips[0].Reference != opts.TargetGroundRow {
		t.Errorf("Reference = %d, want %d", got.Strips[0].Reference, opts.TargetGroundRow)
	}
}

func TestReadJSONRejectsBadKind(t *testing.T) {
	in := `{"tile_size":32,"buffer_height":640,"strips":[{"columns":1,"placements":[{"sprite":"x","col":0,"row":8,"kind":"lava"}]}]}`
	if _, err := ReadJSON(bytes.NewBufferString(in)); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestSequenceIsContinuous(t *testing.T) {
	opts := DefaultOptions()
	g := newGenerator(t, opts, rand.New(rand.NewSource(5)))
	seq, err := g.Sequence(6, 25, 640)
	if err != nil {
		t.Fatal(err)
	}
	if len(seq.Strips) != 6 || seq.Width() != 150 {
		t.Fatalf("got %d strips, %d columns", len(seq.Strips), seq.Width())
	}
	if seq.Strips[0].EntryGround != opts.TargetGroundRow {
		t.Errorf("first strip entry %d, want target %d", seq.Strips[0].EntryGround, opts.TargetGroundRow)
	}
	for i := 1; i < len(seq.Strips); i++ {
		if seq.Strips[i].EntryGround != seq.Strips[i-1].ExitGround {
			t.Errorf("strip %d enters at %d, previous exits at %d", i, seq.Strips[i].EntryGround, seq.Strips[i-1].ExitGround)
		}
	}
	if _, err := g.Sequence(1, 0, 640); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("zero columns: err = %v, want ErrInvalidOptions", err)
	}
}
