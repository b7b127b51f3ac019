package config

import "flag"

// Flags are the command-line overrides shared by every command.
type Flags struct {
	Config    string
	Debug     bool
	Seed      int64
	FPS       int
	Speed     int
	TileSize  int
	SpriteDir string
	LogFile   string
}

// RegisterFlags defines the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.Int64Var(&f.Seed, "seed", 0, "Terrain seed (0 = config or time based)")
	fs.IntVar(&f.FPS, "fps", 0, "Target frame rate")
	fs.IntVar(&f.Speed, "speed", 0, "Scroll speed in pixels per frame")
	fs.IntVar(&f.TileSize, "tile", 0, "Tile size in pixels")
	fs.StringVar(&f.SpriteDir, "sprites", "", "Directory of PNG sprites overriding the built-in art")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Seed != 0 {
		cfg.Terrain.Seed = f.Seed
	}
	if f.FPS > 0 {
		cfg.Scroll.FPS = f.FPS
	}
	if f.Speed > 0 {
		cfg.Scroll.Speed = f.Speed
	}
	if f.TileSize > 0 {
		cfg.Terrain.TileSize = f.TileSize
	}
	if f.SpriteDir != "" {
		cfg.Sprites.Dir = f.SpriteDir
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
