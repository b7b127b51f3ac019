// landscape shows an endlessly scrolling procedural landscape in a desktop
// window or in the current terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/config"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/logger"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/tui"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/window"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	mode := flag.String("mode", "window", "Display mode: window or tui")
	dump := flag.String("dump-config", "", "Write the effective config to this path (- for stdout) and exit")
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if *dump != "" {
		if err := dumpConfig(cfg, *dump); err != nil {
			fmt.Fprintf(os.Stderr, "dump config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	switch *mode {
	case "window":
		err = runWindow(cfg)
	case "tui":
		err = runTUI(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode: %s (want window or tui)\n", *mode)
		os.Exit(2)
	}
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dumpConfig(cfg *config.Config, path string) error {
	if path == "-" {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	return cfg.SaveTo(path)
}

func runWindow(cfg *config.Config) error {
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}

	catalog, err := cfg.Catalog(cfg.Terrain.TileSize)
	if err != nil {
		return err
	}
	game, err := window.New(cfg, catalog)
	if err != nil {
		return err
	}
	logger.Info("opening window",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("tile", cfg.Terrain.TileSize))
	return game.Run()
}

func runTUI(cfg *config.Config) error {
	// The screen owns stdout and stderr, so logs only go to a file.
	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, nil); err != nil {
		return err
	}

	catalog, err := cfg.Catalog(cfg.Terminal.TileSize)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()

	app, err := tui.New(cfg, screen, catalog)
	if err != nil {
		return err
	}
	return app.Run()
}
