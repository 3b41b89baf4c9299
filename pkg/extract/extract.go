// Package extract reduces a parsed behavior block in either authoring style
// to a component.Model.
package extract

import (
	"fmt"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/esimport"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
)

// Extractor builds a model from one behavior-block tree. Implementations
// never edit the tree.
type Extractor interface {
	Style() component.Style
	// Dialect picks the grammar for a behavior block with the given lang.
	Dialect(lang string) jsast.Dialect
	Extract(tree *jsast.Tree) (*component.Model, error)
}

// New returns the extractor for a style.
func New(style component.Style) (Extractor, error) {
	switch style {
	case component.ObjectStyle:
		return Object{}, nil
	case component.ClassStyle:
		return Class{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", component.ErrUnknownStyle, style)
	}
}

// entry is a container child with the comments attached to it.
type entry struct {
	node     *jsast.Node
	leading  []*jsast.Node
	trailing []*jsast.Node
}

// attach groups the named children of a container with their comments.
// A comment starting on the line where the previous entry ends is trailing
// when trailing is set; other comments lead the next entry. Comments left
// at the end trail the last entry.
func attach(container *jsast.Node, trailing bool) []*entry {
	var (
		entries []*entry
		pending []*jsast.Node
	)

	for _, c := range container.NamedChildren() {
		if c.Kind != jsast.KindComment {
			entries = append(entries, &entry{node: c, leading: pending})
			pending = nil

			continue
		}

		if trailing && len(pending) == 0 && len(entries) > 0 {
			last := entries[len(entries)-1]
			if c.Line() == last.node.EndLine() {
				last.trailing = append(last.trailing, c)

				continue
			}
		}

		pending = append(pending, c)
	}

	if len(pending) > 0 && len(entries) > 0 {
		last := entries[len(entries)-1]
		last.trailing = append(last.trailing, pending...)
	}

	return entries
}

func (e *entry) member(key string) component.Member {
	return component.Member{Key: key, Comments: e.leading, Trailing: e.trailing}
}

// program is the top-level split shared by both strategies.
type program struct {
	imports []*esimport.Import
	other   []*jsast.Node
	export  *entry
}

// isDefaultExport reports whether n is an export default statement.
func isDefaultExport(n *jsast.Node) bool {
	if n.Kind != jsast.KindExportStatement {
		return false
	}

	for _, c := range n.Children {
		if !c.Named && c.Kind == "default" {
			return true
		}
	}

	return false
}

func splitProgram(root *jsast.Node) program {
	var p program

	for _, e := range attach(root, false) {
		switch {
		case e.node.Kind == jsast.KindImportStatement:
			im := esimport.FromNode(e.node)
			im.Comments = e.leading
			p.imports = append(p.imports, im)
		case p.export == nil && isDefaultExport(e.node):
			p.export = e
		default:
			p.other = append(p.other, e.leading...)
			p.other = append(p.other, e.node)
		}

		p.other = append(p.other, e.trailing...)
	}

	return p
}

// newModel builds the model shell shared by both strategies.
func newModel(name string, p program) (*component.Model, error) {
	m, err := component.New(name)
	if err != nil {
		return nil, err
	}

	m.Imports = p.imports
	m.Other = p.other
	m.LeadingComments = p.export.leading

	return m, nil
}

// functionValue returns the function a member stands for: the method itself,
// or the function-valued right-hand side of a pair.
func functionValue(member *jsast.Node) *jsast.Node {
	if member.Kind == jsast.KindMethodDefinition {
		return member
	}

	if member.Kind != jsast.KindPair {
		return nil
	}

	value := jsast.Unparen(jsast.MemberValue(member))
	if jsast.IsFunction(value) {
		return value
	}

	return nil
}

func unrecognized(m *component.Model, at *jsast.Node, format string, args ...any) {
	m.Warn(component.UnrecognizedMemberShape, at, format, args...)
}
