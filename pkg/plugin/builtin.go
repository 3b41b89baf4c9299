package plugin

import (
	"strings"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/esimport"
	"github.com/Sumatoshi-tech/sfcshift/pkg/lessunit"
	"github.com/Sumatoshi-tech/sfcshift/pkg/sfc"
)

// StoreImport adds `import store from '@/store'` when a computed member
// reads from the store and nothing binds the store name yet.
type StoreImport struct{}

// Name implements Plugin.
func (StoreImport) Name() string { return StoreImportName }

// Apply implements Plugin.
func (StoreImport) Apply(m *component.Model) {
	if !m.HasStoreBound() || esimport.Binding(m.Imports, component.StoreLocal) != nil {
		return
	}

	m.Imports = append(m.Imports, esimport.New(component.StoreModule, component.StoreLocal))
}

// ParamTypes annotates untyped function parameters. See Annotate.
type ParamTypes struct{}

// Name implements Plugin.
func (ParamTypes) Name() string { return ParamTypesName }

// Apply implements Plugin.
func (ParamTypes) Apply(m *component.Model) {
	route := false

	for _, root := range m.Roots() {
		if Annotate(root) {
			route = true
		}
	}

	if route {
		m.Imports = EnsureRouteImport(m.Imports)
	}
}

// StyleUnits rewrites px2rem mixin calls in Less style blocks.
type StyleUnits struct{}

// Name implements Plugin.
func (StyleUnits) Name() string { return StyleUnitsName }

// Apply implements Plugin.
func (s StyleUnits) Apply(m *component.Model) {
	applyStyles(s, m)
}

// ApplyStyle implements StylePlugin.
func (StyleUnits) ApplyStyle(b *sfc.Block) {
	if b.Lang() != "less" {
		return
	}

	b.Content = lessunit.Rewrite(b.Content)
}

// JSExt strips the .js suffix from import sources.
type JSExt struct{}

// Name implements Plugin.
func (JSExt) Name() string { return JSExtName }

// Apply implements Plugin.
func (JSExt) Apply(m *component.Model) {
	for _, im := range m.Imports {
		if src, ok := strings.CutSuffix(im.Source, ".js"); ok {
			im.SetSource(src)
		}
	}
}
