package sprite

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/logger"
)

// LoadPNG reads a PNG whose dimensions are whole multiples of sourceTile.
func LoadPNG(path string, sourceTile int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || b.Dx()%sourceTile != 0 || b.Dy()%sourceTile != 0 {
		return nil, fmt.Errorf("%s: %dx%d is not a whole number of %dpx tiles", path, b.Dx(), b.Dy(), sourceTile)
	}
	return img, nil
}

// LoadDir loads every PNG in dir into a registry. The file name without
// extension is the sprite id (grass_1.png -> "grass_1"). Sprites are drawn
// at sourceTile pixels per tile and rescaled to tile.
// Files that fail to load are skipped with a warning.
func LoadDir(dir string, sourceTile, tile int) (*Registry, error) {
	if sourceTile <= 0 || tile <= 0 {
		return nil, fmt.Errorf("invalid tile sizes %d -> %d", sourceTile, tile)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read sprites dir %s: %w", dir, err)
	}

	reg := NewRegistry(tile)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		img, err := LoadPNG(path, sourceTile)
		if err != nil {
			logger.Warn("skipping sprite", zap.String("path", path), zap.Error(err))
			continue
		}

		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		reg.Add(id, scale(img, sourceTile, tile))
	}

	logger.Debug("sprites loaded", zap.String("dir", dir), zap.Int("count", len(reg.sprites)))
	return reg, nil
}
