package sprite

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinSizes(t *testing.T) {
	tests := []struct {
		id     string
		wTiles int
		hTiles int
	}{
		{"grass_1", 1, 1},
		{"grass_4", 1, 1},
		{"dirt_1", 1, 1},
		{"dirt_4", 1, 1},
		{"slope_up", 1, 2},
		{"slope_down", 1, 2},
		{"flower_1", 1, 1},
		{"flower_3", 1, 1},
		{"bush_1", 2, 1},
		{"tree_1", 2, 3},
		{"tree_2", 3, 4},
		{"dead_tree_1", 2, 3},
		{"boulder_1", 1, 1},
		{"boulder_2", 2, 1},
	}

	for _, tile := range []int{8, 16, 32} {
		reg := NewBuiltin(tile)
		for _, tt := range tests {
			img, err := reg.Resolve(tt.id)
			if err != nil {
				t.Fatalf("tile %d: resolve %s: %v", tile, tt.id, err)
			}
			b := img.Bounds()
			if b.Dx() != tt.wTiles*tile || b.Dy() != tt.hTiles*tile {
				t.Errorf("tile %d: %s is %dx%d, want %dx%d", tile, tt.id, b.Dx(), b.Dy(), tt.wTiles*tile, tt.hTiles*tile)
			}
			if w, h := TileSpan(img, tile); w != tt.wTiles || h != tt.hTiles {
				t.Errorf("tile %d: %s spans %dx%d tiles, want %dx%d", tile, tt.id, w, h, tt.wTiles, tt.hTiles)
			}
		}
	}
}

func TestBuiltinDirtIsOpaque(t *testing.T) {
	reg := NewBuiltin(32)
	for _, id := range []string{"dirt_1", "dirt_2", "dirt_3", "dirt_4"} {
		img, _ := reg.Resolve(id)
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
					t.Fatalf("%s pixel (%d,%d) not opaque", id, x, y)
				}
			}
		}
	}
}

func TestBuiltinSlopeLowerHalfSolid(t *testing.T) {
	reg := NewBuiltin(16)
	for _, id := range []string{"slope_up", "slope_down"} {
		img, _ := reg.Resolve(id)
		// the bottom row of the lower tile is always ground
		for x := 0; x < 16; x++ {
			if _, _, _, a := img.At(x, 31).RGBA(); a == 0 {
				t.Errorf("%s: bottom pixel %d transparent", id, x)
			}
		}
	}
	up, _ := reg.Resolve("slope_up")
	if _, _, _, a := up.At(0, 4).RGBA(); a != 0 {
		t.Error("slope_up: upper-left should be sky")
	}
	if _, _, _, a := up.At(15, 6).RGBA(); a == 0 {
		t.Error("slope_up: upper-right should be ground")
	}
}

func TestResolveMissing(t *testing.T) {
	reg := NewRegistry(32)
	_, err := reg.Resolve("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if missing := NewBuiltin(32).Missing([]string{"grass_1", "lava_1"}); len(missing) != 1 || missing[0] != "lava_1" {
		t.Errorf("Missing = %v, want [lava_1]", missing)
	}
}

func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{255, 0, 0, 255}
	writePNG(t, filepath.Join(dir, "grass_1.png"), 32, 32, red)
	writePNG(t, filepath.Join(dir, "tree_1.png"), 64, 96, red)
	writePNG(t, filepath.Join(dir, "broken.png"), 20, 32, red)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadDir(dir, 32, 16)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	if got := reg.IDs(); len(got) != 2 || got[0] != "grass_1" || got[1] != "tree_1" {
		t.Fatalf("IDs = %v, want [grass_1 tree_1]", got)
	}

	tree, _ := reg.Resolve("tree_1")
	if b := tree.Bounds(); b.Dx() != 32 || b.Dy() != 48 {
		t.Errorf("tree_1 scaled to %dx%d, want 32x48", b.Dx(), b.Dy())
	}
	if r, _, _, _ := tree.At(5, 5).RGBA(); r>>8 != 255 {
		t.Errorf("scaled pixel lost its color")
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "absent"), 32, 32); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestMergeOverrides(t *testing.T) {
	base := NewBuiltin(16)
	custom := NewRegistry(16)
	marker := image.NewRGBA(image.Rect(0, 0, 16, 16))
	custom.Add("grass_1", marker)

	base.Merge(custom)
	got, _ := base.Resolve("grass_1")
	if got != image.Image(marker) {
		t.Error("merge did not override grass_1")
	}
	if !base.Has("dirt_1") {
		t.Error("merge dropped builtin sprites")
	}
}

func TestNoiseDeterministic(t *testing.T) {
	a, b := newNoise(9), newNoise(9)
	for i := 0; i < 50; i++ {
		x, y := float64(i)*0.37, float64(i)*0.11
		if a.at(x, y) != b.at(x, y) {
			t.Fatalf("noise differs at (%v,%v)", x, y)
		}
		if v := a.fractal(x, y, 0.3, 3); v < 0 || v > 1 {
			t.Fatalf("fractal out of range: %v", v)
		}
	}
}
