// stripgen generates a run of continuous landscape strips and writes them
// as a stitched PNG panorama or as placement JSON.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/config"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/raster"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/sprite"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/terrain"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	n := flag.Int("n", 4, "number of strips")
	width := flag.Int("width", 1280, "viewport width in pixels (rounded up to whole tiles)")
	height := flag.Int("height", 720, "viewport height in pixels")
	sky := flag.Bool("sky", true, "paint the sky gradient behind PNG output")
	out := flag.String("o", "", "output file, .png or .json (default: JSON on stdout)")
	flag.Parse()

	if *n <= 0 || *width <= 0 || *height <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -n, -width and -height must be positive")
		fmt.Fprintln(os.Stderr, "Usage: stripgen [-n N] [-width PX] [-height PX] [-seed N] [-o file.png|file.json]")
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tile := cfg.Terrain.TileSize
	catalog, err := cfg.Catalog(tile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sprites: %v\n", err)
		os.Exit(1)
	}
	gen, err := terrain.NewGenerator(cfg.TerrainOptions(), catalog, cfg.Rand())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	columns := raster.RoundUpToTile(*width, tile) / tile
	fmt.Fprintf(os.Stderr, "Generating %d strips of %d columns, %dpx tall...\n", *n, columns, *height)
	seq, err := gen.Sequence(*n, columns, *height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *out == "":
		err = terrain.WriteJSON(os.Stdout, seq)
	case strings.EqualFold(filepath.Ext(*out), ".png"):
		var top, bottom color.RGBA
		if *sky {
			opts, serr := cfg.ScrollOptions()
			if serr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", serr)
				os.Exit(1)
			}
			top, bottom = opts.SkyTop, opts.SkyBottom
		}
		err = writePNG(*out, seq, catalog, top, bottom)
	default:
		err = terrain.SaveJSON(*out, seq)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
	if *out != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", *out)
	}

	printSummary(seq)
}

func writePNG(path string, seq *terrain.Sequence, catalog sprite.Catalog, top, bottom color.RGBA) error {
	img, err := raster.Panorama(seq, catalog, top, bottom)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printSummary prints the surface distribution and ground drift.
func printSummary(seq *terrain.Sequence) {
	counts := make(map[terrain.Kind]int)
	objects := 0
	for _, s := range seq.Strips {
		for _, p := range s.Placements {
			switch {
			case p.Kind.IsSurface():
				counts[p.Kind]++
			case p.Kind == terrain.KindObject:
				objects++
			}
		}
	}
	total := seq.Width()
	fmt.Fprintf(os.Stderr, "\nSurface distribution:\n")
	for _, k := range []terrain.Kind{terrain.KindGrass, terrain.KindSlopeUp, terrain.KindSlopeDown} {
		fmt.Fprintf(os.Stderr, "  %-12s %5d (%5.1f%%)\n", k, counts[k], float64(counts[k])/float64(total)*100)
	}
	fmt.Fprintf(os.Stderr, "  %-12s %5d\n", "objects", objects)
	last := seq.Strips[len(seq.Strips)-1]
	fmt.Fprintf(os.Stderr, "Ground: entry %d, exit %d\n", seq.Strips[0].EntryGround, last.ExitGround)
}
