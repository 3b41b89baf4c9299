// Package component defines the style-independent model of a component
// declaration shared by extractors, passes and synthesizers.
package component

import (
	"fmt"

	"github.com/Sumatoshi-tech/sfcshift/pkg/esimport"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
	"github.com/Sumatoshi-tech/sfcshift/pkg/sfc"
)

// Member is the part every member kind shares.
type Member struct {
	Key      string
	Comments []*jsast.Node
	Trailing []*jsast.Node
}

// DataMember is a reactive data field.
type DataMember struct {
	Member
	Init *jsast.Node
}

// PropMember is an input property. Descriptor may be nil.
type PropMember struct {
	Member
	Descriptor *jsast.Node
}

// ComputedMember is a computed property. Store-bound members read from the
// shared store under StoreNamespace.
type ComputedMember struct {
	Member
	Accessor       *jsast.Node
	Setter         *jsast.Node
	StoreBound     bool
	StoreNamespace string
}

// WatchMember is a watcher keyed by its target expression. Options holds
// extra watcher option nodes such as deep: true.
type WatchMember struct {
	Member
	Handler *jsast.Node
	Options []*jsast.Node
}

// MethodMember is an instance method.
type MethodMember struct {
	Member
	Fn *jsast.Node
}

// LifecycleMember is a hook from LifecycleHooks.
type LifecycleMember struct {
	Member
	Fn *jsast.Node
}

// Model is the normalized form of one component declaration.
type Model struct {
	name string

	Components *jsast.Node
	Filters    *jsast.Node
	Directives *jsast.Node
	Mixins     *jsast.Node
	// Options are unrecognized top-level options carried verbatim.
	Options []*jsast.Node

	Props     []*PropMember
	Data      []*DataMember
	Computed  []*ComputedMember
	Watch     []*WatchMember
	Methods   []*MethodMember
	Lifecycle []*LifecycleMember

	Imports         []*esimport.Import
	Other           []*jsast.Node
	Blocks          []sfc.Block
	LeadingComments []*jsast.Node
	Diagnostics     []Diagnostic
}

// New returns a model named name.
func New(name string) (*Model, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequiredField, OptName)
	}

	return &Model{name: name}, nil
}

// Name returns the component name.
func (m *Model) Name() string {
	return m.name
}

// Opaque returns the opaque option node stored under key.
func (m *Model) Opaque(key string) *jsast.Node {
	switch key {
	case OptComponents:
		return m.Components
	case OptFilters:
		return m.Filters
	case OptDirectives:
		return m.Directives
	case OptMixins:
		return m.Mixins
	default:
		return nil
	}
}

// SetOpaque stores an opaque option node under key.
func (m *Model) SetOpaque(key string, n *jsast.Node) {
	switch key {
	case OptComponents:
		m.Components = n
	case OptFilters:
		m.Filters = n
	case OptDirectives:
		m.Directives = n
	case OptMixins:
		m.Mixins = n
	}
}

// HasStoreBound reports whether any computed member reads from the store.
func (m *Model) HasStoreBound() bool {
	for _, c := range m.Computed {
		if c.StoreBound {
			return true
		}
	}

	return false
}

// Warn records a tolerated anomaly.
func (m *Model) Warn(kind DiagnosticKind, at *jsast.Node, format string, args ...any) {
	d := Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...)}
	if at != nil {
		d.Line = at.Line()
	}

	m.Diagnostics = append(m.Diagnostics, d)
}

// Roots returns every retained sub-tree in the model: member values, opaque
// fields, pass-through options and other statements.
func (m *Model) Roots() []*jsast.Node {
	var roots []*jsast.Node

	add := func(nodes ...*jsast.Node) {
		for _, n := range nodes {
			if n != nil {
				roots = append(roots, n)
			}
		}
	}

	for _, key := range OpaqueOptions {
		add(m.Opaque(key))
	}

	add(m.Options...)

	for _, p := range m.Props {
		add(p.Descriptor)
	}

	for _, d := range m.Data {
		add(d.Init)
	}

	for _, c := range m.Computed {
		add(c.Accessor, c.Setter)
	}

	for _, w := range m.Watch {
		add(w.Handler)
		add(w.Options...)
	}

	for _, fn := range m.Methods {
		add(fn.Fn)
	}

	for _, l := range m.Lifecycle {
		add(l.Fn)
	}

	add(m.Other...)

	return roots
}
