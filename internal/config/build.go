package config

import (
	"fmt"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/scroll"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/sprite"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/terrain"
)

// NewController builds a generator, engine and controller drawing onto
// surface with the given terrain geometry. The controller is not started.
func (c *Config) NewController(surface scroll.Surface, catalog sprite.Catalog, topts terrain.Options, queue scroll.Queue) (*scroll.Controller, error) {
	gen, err := terrain.NewGenerator(topts, catalog, c.Rand())
	if err != nil {
		return nil, fmt.Errorf("terrain generator: %w", err)
	}
	sopts, err := c.ScrollOptions()
	if err != nil {
		return nil, err
	}
	engine := scroll.NewEngine(surface, gen, catalog, sopts)
	return scroll.NewController(engine, queue, c.ControllerOptions()), nil
}
