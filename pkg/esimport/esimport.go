// Package esimport models ES module import statements so passes can check
// and extend them while keeping untouched statements verbatim.
package esimport

import (
	"strings"

	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
)

// Specifier is one named import.
type Specifier struct {
	Imported string
	Local    string
}

// Import is a parsed or generated import statement. Parsed imports keep
// their node and are edited in place; generated ones are rendered from parts.
type Import struct {
	Node      *jsast.Node
	Comments  []*jsast.Node
	Source    string
	Default   string
	Namespace string
	Named     []Specifier
}

// New returns a generated import.
func New(source, def string, named ...string) *Import {
	im := &Import{Source: source, Default: def}

	for _, name := range named {
		im.Named = append(im.Named, Specifier{Imported: name, Local: name})
	}

	return im
}

// FromNode decodes an import_statement node.
func FromNode(n *jsast.Node) *Import {
	im := &Import{Node: n}

	if src, ok := jsast.StringValue(n.ChildByField("source")); ok {
		im.Source = src
	}

	clause := n.ChildOfKind(jsast.KindImportClause)
	for _, c := range clause.NamedChildren() {
		switch c.Kind {
		case jsast.KindIdentifier:
			im.Default = c.Text()
		case jsast.KindNamespaceImport:
			if id := c.ChildOfKind(jsast.KindIdentifier); id != nil {
				im.Namespace = id.Text()
			}
		case jsast.KindNamedImports:
			for _, spec := range c.ChildrenOfKind(jsast.KindImportSpecifier) {
				name := specifierName(spec.ChildByField("name"))
				local := name

				if alias := spec.ChildByField("alias"); alias != nil {
					local = alias.Text()
				}

				im.Named = append(im.Named, Specifier{Imported: name, Local: local})
			}
		}
	}

	return im
}

func specifierName(n *jsast.Node) string {
	if s, ok := jsast.StringValue(n); ok {
		return s
	}

	return n.Text()
}

// Binds reports whether the import introduces the local name.
func (im *Import) Binds(local string) bool {
	if im.Default == local || im.Namespace == local {
		return true
	}

	for _, s := range im.Named {
		if s.Local == local {
			return true
		}
	}

	return false
}

// HasNamed reports whether the import names the exported identifier.
func (im *Import) HasNamed(imported string) bool {
	for _, s := range im.Named {
		if s.Imported == imported {
			return true
		}
	}

	return false
}

// AddNamed adds a named specifier. Parsed statements are edited in place;
// it returns false when the statement shape cannot take one, such as a
// namespace or side-effect import.
func (im *Import) AddNamed(name string) bool {
	if im.HasNamed(name) {
		return true
	}

	if im.Node != nil && !im.editNode(name) {
		return false
	}

	if im.Node == nil && im.Namespace != "" {
		return false
	}

	im.Named = append(im.Named, Specifier{Imported: name, Local: name})

	return true
}

func (im *Import) editNode(name string) bool {
	clause := im.Node.ChildOfKind(jsast.KindImportClause)
	if clause == nil || clause.ChildOfKind(jsast.KindNamespaceImport) != nil {
		return false
	}

	if named := clause.ChildOfKind(jsast.KindNamedImports); named != nil {
		specs := named.ChildrenOfKind(jsast.KindImportSpecifier)
		if len(specs) == 0 {
			named.Replace("{ " + name + " }")

			return true
		}

		specs[len(specs)-1].Append(", " + name)

		return true
	}

	def := clause.ChildOfKind(jsast.KindIdentifier)
	if def == nil {
		return false
	}

	def.Append(", { " + name + " }")

	return true
}

// SetSource rewrites the module specifier.
func (im *Import) SetSource(source string) {
	im.Source = source

	if im.Node == nil {
		return
	}

	if src := im.Node.ChildByField("source"); src != nil {
		src.Replace(jsast.Quote(source))
	}
}

// Render prints the statement without its comments.
func (im *Import) Render(opts jsast.PrintOptions) string {
	if im.Node != nil {
		return jsast.Print(im.Node, opts)
	}

	var parts []string

	if im.Default != "" {
		parts = append(parts, im.Default)
	}

	if im.Namespace != "" {
		parts = append(parts, "* as "+im.Namespace)
	}

	if len(im.Named) > 0 {
		names := make([]string, 0, len(im.Named))

		for _, s := range im.Named {
			if s.Local != s.Imported {
				names = append(names, s.Imported+" as "+s.Local)
			} else {
				names = append(names, s.Imported)
			}
		}

		parts = append(parts, "{ "+strings.Join(names, ", ")+" }")
	}

	if len(parts) == 0 {
		return "import " + jsast.Quote(im.Source) + ";"
	}

	return "import " + strings.Join(parts, ", ") + " from " + jsast.Quote(im.Source) + ";"
}

// BySource returns the first import of the module.
func BySource(list []*Import, source string) *Import {
	for _, im := range list {
		if im.Source == source {
			return im
		}
	}

	return nil
}

// Binding returns the first import binding the local name.
func Binding(list []*Import, local string) *Import {
	for _, im := range list {
		if im.Binds(local) {
			return im
		}
	}

	return nil
}

// EnsureNamed makes sure some import of source names the identifier. It
// reuses an existing import of the module when it can take a specifier and
// otherwise appends a new statement. It returns the possibly extended list.
func EnsureNamed(list []*Import, source, name string) []*Import {
	for _, im := range list {
		if im.Source == source && im.HasNamed(name) {
			return list
		}
	}

	for _, im := range list {
		if im.Source == source && im.AddNamed(name) {
			return list
		}
	}

	return append(list, New(source, "", name))
}

// Without returns the imports whose source is not any of the modules.
func Without(list []*Import, sources ...string) []*Import {
	out := make([]*Import, 0, len(list))

	for _, im := range list {
		drop := false

		for _, s := range sources {
			if im.Source == s {
				drop = true
			}
		}

		if !drop {
			out = append(out, im)
		}
	}

	return out
}

// Write adds the statements to b one per line, each after its comments.
// Parsed statements are written as nodes so their edits print with b.
func Write(b *jsast.Builder, list []*Import, opts jsast.PrintOptions) {
	for _, im := range list {
		for _, c := range im.Comments {
			b.Node(c).Line()
		}

		if im.Node != nil {
			b.Node(im.Node)
		} else {
			b.Text(im.Render(opts))
		}

		b.Line()
	}
}
