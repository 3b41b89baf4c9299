// Package plugin provides the ordered passes run over a component model
// between extraction and synthesis.
package plugin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/sfc"
)

// Plugin mutates a model in place.
type Plugin interface {
	Name() string
	Apply(m *component.Model)
}

// StylePlugin rewrites one style block. Its Apply runs it over the model's
// style blocks.
type StylePlugin interface {
	Plugin
	ApplyStyle(b *sfc.Block)
}

// Plugin names.
const (
	StoreImportName = "store-import"
	ParamTypesName  = "param-types"
	StyleUnitsName  = "style-units"
	JSExtName       = "js-ext"
)

// ErrUnknownPlugin is returned when a registry lookup fails.
var ErrUnknownPlugin = errors.New("unknown plugin")

// ErrDuplicatePlugin is returned when a registry receives a name twice.
var ErrDuplicatePlugin = errors.New("duplicate plugin")

// Registry stores plugins by name with deterministic ordering.
type Registry struct {
	ordered []Plugin
	index   map[string]Plugin
}

// NewRegistry creates a registry from plugins.
func NewRegistry(plugins ...Plugin) (*Registry, error) {
	r := &Registry{index: make(map[string]Plugin, len(plugins))}

	for _, p := range plugins {
		if _, exists := r.index[p.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.Name())
		}

		r.index[p.Name()] = p
		r.ordered = append(r.ordered, p)
	}

	return r, nil
}

// DefaultRegistry holds the built-in plugins.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(StoreImport{}, ParamTypes{}, StyleUnits{}, JSExt{})
	if err != nil {
		panic(err)
	}

	return r
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ordered))
	for _, p := range r.ordered {
		names = append(names, p.Name())
	}

	return names
}

// Lookup returns the plugin registered under name.
func (r *Registry) Lookup(name string) (Plugin, bool) {
	p, ok := r.index[name]

	return p, ok
}

// Pipeline builds a pipeline running the named plugins in the given order.
func (r *Registry) Pipeline(names ...string) (*Pipeline, error) {
	p := &Pipeline{}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		plugin, ok := r.Lookup(name)
		if !ok {
			if hint, found := r.Suggest(name); found {
				return nil, fmt.Errorf("%w: %s (did you mean %s?)", ErrUnknownPlugin, name, hint)
			}

			return nil, fmt.Errorf("%w: %s (known: %s)", ErrUnknownPlugin, name, strings.Join(r.Names(), ", "))
		}

		p.Register(plugin)
	}

	return p, nil
}

// Pipeline runs plugins strictly in registration order.
type Pipeline struct {
	plugins []Plugin
}

// NewPipeline returns a pipeline over plugins.
func NewPipeline(plugins ...Plugin) *Pipeline {
	return &Pipeline{plugins: plugins}
}

// Register appends a plugin.
func (p *Pipeline) Register(plugin Plugin) {
	p.plugins = append(p.plugins, plugin)
}

// Names returns the plugin names in run order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.plugins))
	for _, plugin := range p.plugins {
		names = append(names, plugin.Name())
	}

	return names
}

// Run applies every plugin to m. Each plugin sees the previous ones' edits.
func (p *Pipeline) Run(m *component.Model) {
	for _, plugin := range p.plugins {
		plugin.Apply(m)
	}
}

// applyStyles runs a style plugin over the model's style blocks.
func applyStyles(sp StylePlugin, m *component.Model) {
	for i := range m.Blocks {
		if m.Blocks[i].Type == sfc.Style {
			sp.ApplyStyle(&m.Blocks[i])
		}
	}
}
