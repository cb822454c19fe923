package fetch

import (
	"context"

	"github.com/conn-castle/bottle/internal/manifest"
)

// Definitions resolves tool definitions for one command run, fetching each
// name at most once.
type Definitions struct {
	Source *Source
	Ctx    context.Context
	cache  map[string]*manifest.ToolDefinition
}

// NewDefinitions returns a caching definition resolver over source.
func NewDefinitions(ctx context.Context, source *Source) *Definitions {
	return &Definitions{Source: source, Ctx: ctx}
}

// Fetch returns the definition for name.
func (d *Definitions) Fetch(name string) (*manifest.ToolDefinition, error) {
	if def, ok := d.cache[name]; ok {
		return def, nil
	}
	def, err := d.Source.ToolDefinition(d.Ctx, name)
	if err != nil {
		return nil, err
	}
	if d.cache == nil {
		d.cache = map[string]*manifest.ToolDefinition{}
	}
	d.cache[name] = def
	return def, nil
}
