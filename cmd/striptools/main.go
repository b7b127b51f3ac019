package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/config"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/raster"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/render"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/sprite"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/terrain"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "validate":
		os.Exit(runValidate(args))
	case "viz":
		os.Exit(runViz(args))
	case "stats":
		os.Exit(runStats(args))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: striptools <command> [options] <arg>

Commands:
  validate [-source-tile N] <sprite-dir>   Check a PNG directory provides every sprite
  viz      [-cols N] <strips.json>         Render strips as half-block ANSI art
  stats    [-width PX] [-height PX] <n>    Generate n strips and show their distribution`)
}

// --- validate ---

func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	sourceTile := fs.Int("source-tile", config.Default().Sprites.SourceTileSize, "pixels per tile in the source PNGs")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: striptools validate [-source-tile N] <sprite-dir>")
		return 1
	}

	dir := fs.Arg(0)
	reg, err := sprite.LoadDir(dir, *sourceTile, *sourceTile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}

	fmt.Printf("Validating %s (%d sprites)...\n", dir, len(reg.IDs()))
	missing := reg.Missing(terrain.DefaultSprites().IDs())
	for _, id := range missing {
		fmt.Printf("  MISSING: %s.png\n", id)
	}
	for _, id := range reg.IDs() {
		img, _ := reg.Resolve(id)
		w, h := sprite.TileSpan(img, *sourceTile)
		fmt.Printf("  %-14s %dx%d tiles\n", id, w, h)
	}

	if len(missing) > 0 {
		fmt.Printf("\n%d sprite(s) missing, the built-in art fills them in\n", len(missing))
		return 1
	}
	fmt.Println("\nAll sprites present")
	return 0
}

// --- viz ---

func runViz(args []string) int {
	fs := flag.NewFlagSet("viz", flag.ExitOnError)
	cols := fs.Int("cols", 120, "output width in terminal columns")
	fs.Parse(args)
	if fs.NArg() != 1 || *cols <= 0 {
		fmt.Fprintln(os.Stderr, "Usage: striptools viz [-cols N] <strips.json>")
		return 1
	}

	seq, err := terrain.LoadJSON(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	catalog, err := cfg.Catalog(seq.TileSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sprites: %v\n", err)
		return 1
	}
	opts, err := cfg.ScrollOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	img, err := raster.Panorama(seq, catalog, opts.SkyTop, opts.SkyBottom)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("%s (%d strips, %d columns, tile %dpx)\n", fs.Arg(0), len(seq.Strips), seq.Width(), seq.TileSize)
	fmt.Print(render.Preview(shrink(img, *cols), color.RGBA{A: 255}))
	return 0
}

// shrink scales img to cols pixels wide, keeping the aspect ratio and an
// even height so every cell gets two pixels.
func shrink(img *image.RGBA, cols int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() <= cols {
		return img
	}
	h := b.Dy() * cols / b.Dx()
	h = max(h+h%2, 2)
	dst := image.NewRGBA(image.Rect(0, 0, cols, h))
	draw.ApproxBiLinear.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	return dst
}

// --- stats ---

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	width := fs.Int("width", 1280, "viewport width in pixels")
	height := fs.Int("height", 720, "viewport height in pixels")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: striptools stats [-width PX] [-height PX] [-seed N] <n>")
		return 1
	}
	n, err := strconv.Atoi(fs.Arg(0))
	if err != nil || n <= 0 {
		fmt.Fprintf(os.Stderr, "Error: strip count %q must be a positive integer\n", fs.Arg(0))
		return 1
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	tile := cfg.Terrain.TileSize
	catalog, err := cfg.Catalog(tile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sprites: %v\n", err)
		return 1
	}
	gen, err := terrain.NewGenerator(cfg.TerrainOptions(), catalog, cfg.Rand())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	seq, err := gen.Sequence(n, raster.RoundUpToTile(*width, tile)/tile, *height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	printStats(seq, cfg.Terrain.TargetGroundRow)
	return 0
}

func printStats(seq *terrain.Sequence, target int) {
	total := seq.Width()
	fmt.Printf("%d strips, %d columns\n\n", len(seq.Strips), total)

	counts := make(map[string]int)
	minRow, maxRow, sum := target, target, 0
	for _, s := range seq.Strips {
		for _, p := range s.Placements {
			switch {
			case p.Kind.IsSurface():
				counts[p.Kind.String()]++
				minRow, maxRow = min(minRow, p.Row), max(maxRow, p.Row)
				sum += p.Row
			case p.Kind == terrain.KindObject:
				counts[p.Sprite]++
			}
		}
	}

	// Print sorted by count descending
	type entry struct {
		name  string
		count int
	}
	var sorted []entry
	for name, count := range counts {
		sorted = append(sorted, entry{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].name < sorted[j].name
	})

	for _, e := range sorted {
		pct := float64(e.count) / float64(total) * 100
		bar := strings.Repeat("█", int(pct/2))
		fmt.Printf("  %-12s %5d (%5.1f%%) %s\n", e.name, e.count, pct, bar)
	}

	fmt.Printf("\nGround rows: target %d, min %d, max %d, mean %.2f\n",
		target, minRow, maxRow, float64(sum)/float64(total))
}
