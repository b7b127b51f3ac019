// Package config handles landscape configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/scroll"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/sprite"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/terrain"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all landscape settings.
type Config struct {
	Scroll   ScrollConfig   `yaml:"scroll"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Sky      SkyConfig      `yaml:"sky"`
	Sprites  SpritesConfig  `yaml:"sprites"`
	Terminal TerminalConfig `yaml:"terminal"`
	Server   ServerConfig   `yaml:"server"`
	Window   WindowConfig   `yaml:"window"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ScrollConfig holds frame pacing and scroll settings.
type ScrollConfig struct {
	FPS            int           `yaml:"fps"`
	DisplayHz      int           `yaml:"display_hz"` // host frame callback rate
	Speed          int           `yaml:"speed"`      // pixels per frame
	StartOffset    int           `yaml:"start_offset"`
	ResizeDebounce time.Duration `yaml:"resize_debounce"`
}

// TerrainConfig holds generator tuning.
type TerrainConfig struct {
	TileSize              int                    `yaml:"tile_size"`
	TargetGroundRow       int                    `yaml:"target_ground_row"`
	Seed                  int64                  `yaml:"seed"` // 0 = time based
	StepUpWeight          float64                `yaml:"step_up_weight"`
	StepDownWeight        float64                `yaml:"step_down_weight"`
	PlantWeight           float64                `yaml:"plant_weight"`
	UpCorrectionDivisor   float64                `yaml:"up_correction_divisor"`
	DownCorrectionDivisor float64                `yaml:"down_correction_divisor"`
	LargeObjectWidth      int                    `yaml:"large_object_width"`
	LargeObjectCooldown   int                    `yaml:"large_object_cooldown"`
	Objects               []terrain.ObjectWeight `yaml:"objects"`
}

// SkyConfig holds the background gradient as hex colors.
type SkyConfig struct {
	Top    string `yaml:"top"`
	Bottom string `yaml:"bottom"`
}

// SpritesConfig selects the sprite art.
type SpritesConfig struct {
	Dir            string `yaml:"dir"` // empty = built-in art
	SourceTileSize int    `yaml:"source_tile_size"`
}

// TerminalConfig overrides terrain geometry for terminal hosts, where a
// pixel is half a character cell.
type TerminalConfig struct {
	TileSize        int `yaml:"tile_size"`
	TargetGroundRow int `yaml:"target_ground_row"`
}

// ServerConfig holds SSH server settings.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	HostKey string `yaml:"host_key"`
}

// WindowConfig holds desktop window settings.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	t := terrain.DefaultOptions()
	return &Config{
		Scroll: ScrollConfig{
			FPS:            scroll.DefaultFPS,
			DisplayHz:      scroll.DefaultDisplayHz,
			Speed:          scroll.DefaultSpeed,
			StartOffset:    scroll.DefaultStartOffset,
			ResizeDebounce: scroll.DefaultResizeDebounce,
		},
		Terrain: TerrainConfig{
			TileSize:              t.TileSize,
			TargetGroundRow:       t.TargetGroundRow,
			StepUpWeight:          t.StepUpWeight,
			StepDownWeight:        t.StepDownWeight,
			PlantWeight:           t.PlantWeight,
			UpCorrectionDivisor:   t.UpCorrectionDivisor,
			DownCorrectionDivisor: t.DownCorrectionDivisor,
			LargeObjectWidth:      t.LargeObjectWidth,
			LargeObjectCooldown:   t.LargeObjectCooldown,
			Objects:               t.Objects,
		},
		Sky: SkyConfig{
			Top:    "#87ceeb",
			Bottom: "#2a6fc9",
		},
		Sprites: SpritesConfig{
			SourceTileSize: 32,
		},
		Terminal: TerminalConfig{
			TileSize:        8,
			TargetGroundRow: 2,
		},
		Server: ServerConfig{
			Addr:    ":2222",
			HostKey: "host_key",
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Landscape",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings no host can run with. Weight tables are
// checked again, more strictly, when the generator is built.
func (c *Config) Validate() error {
	switch {
	case c.Scroll.FPS <= 0:
		return fmt.Errorf("%w: scroll.fps must be positive, got %d", ErrInvalid, c.Scroll.FPS)
	case c.Scroll.DisplayHz <= 0:
		return fmt.Errorf("%w: scroll.display_hz must be positive, got %d", ErrInvalid, c.Scroll.DisplayHz)
	case c.Scroll.Speed <= 0:
		return fmt.Errorf("%w: scroll.speed must be positive, got %d", ErrInvalid, c.Scroll.Speed)
	case c.Scroll.StartOffset > 0:
		return fmt.Errorf("%w: scroll.start_offset must not be positive, got %d", ErrInvalid, c.Scroll.StartOffset)
	case c.Scroll.ResizeDebounce < 0:
		return fmt.Errorf("%w: scroll.resize_debounce is negative", ErrInvalid)
	case c.Terrain.TileSize <= 0:
		return fmt.Errorf("%w: terrain.tile_size must be positive, got %d", ErrInvalid, c.Terrain.TileSize)
	case c.Terminal.TileSize <= 0:
		return fmt.Errorf("%w: terminal.tile_size must be positive, got %d", ErrInvalid, c.Terminal.TileSize)
	case c.Sprites.SourceTileSize <= 0:
		return fmt.Errorf("%w: sprites.source_tile_size must be positive, got %d", ErrInvalid, c.Sprites.SourceTileSize)
	}

	known := terrain.DefaultSprites().Objects
	for _, o := range c.Terrain.Objects {
		if _, ok := known[o.Category]; !ok {
			return fmt.Errorf("%w: unknown object category %q", ErrInvalid, o.Category)
		}
	}

	for name, hex := range map[string]string{"sky.top": c.Sky.Top, "sky.bottom": c.Sky.Bottom} {
		if _, err := ParseHex(hex); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
		}
	}
	return nil
}

// TerrainOptions converts the terrain section for pixel hosts.
func (c *Config) TerrainOptions() terrain.Options {
	t := c.Terrain
	opts := terrain.DefaultOptions()
	opts.TileSize = t.TileSize
	opts.TargetGroundRow = t.TargetGroundRow
	opts.StepUpWeight = t.StepUpWeight
	opts.StepDownWeight = t.StepDownWeight
	opts.PlantWeight = t.PlantWeight
	opts.UpCorrectionDivisor = t.UpCorrectionDivisor
	opts.DownCorrectionDivisor = t.DownCorrectionDivisor
	opts.LargeObjectWidth = t.LargeObjectWidth
	opts.LargeObjectCooldown = t.LargeObjectCooldown
	opts.Objects = append([]terrain.ObjectWeight(nil), t.Objects...)
	return opts
}

// TerminalTerrainOptions is TerrainOptions with the terminal geometry.
func (c *Config) TerminalTerrainOptions() terrain.Options {
	opts := c.TerrainOptions()
	opts.TileSize = c.Terminal.TileSize
	opts.TargetGroundRow = c.Terminal.TargetGroundRow
	return opts
}

// ScrollOptions converts the scroll and sky sections.
func (c *Config) ScrollOptions() (scroll.Options, error) {
	top, err := ParseHex(c.Sky.Top)
	if err != nil {
		return scroll.Options{}, fmt.Errorf("sky.top: %w", err)
	}
	bottom, err := ParseHex(c.Sky.Bottom)
	if err != nil {
		return scroll.Options{}, fmt.Errorf("sky.bottom: %w", err)
	}
	return scroll.Options{
		Speed:       c.Scroll.Speed,
		StartOffset: c.Scroll.StartOffset,
		SkyTop:      top,
		SkyBottom:   bottom,
	}, nil
}

// ControllerOptions converts the pacing settings.
func (c *Config) ControllerOptions() scroll.ControllerOptions {
	return scroll.ControllerOptions{
		FPS:            c.Scroll.FPS,
		ResizeDebounce: c.Scroll.ResizeDebounce,
	}
}

// Catalog returns the built-in art at tile pixels, overridden by any PNGs
// in the sprite directory.
func (c *Config) Catalog(tile int) (*sprite.Registry, error) {
	reg := sprite.NewBuiltin(tile)
	if c.Sprites.Dir == "" {
		return reg, nil
	}
	custom, err := sprite.LoadDir(c.Sprites.Dir, c.Sprites.SourceTileSize, tile)
	if err != nil {
		return nil, err
	}
	reg.Merge(custom)
	return reg, nil
}

// Rand returns the random source for the configured seed.
func (c *Config) Rand() *rand.Rand {
	seed := c.Terrain.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// ParseHex parses "#rrggbb" or "#rgb" into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
