// Package storemod rewrites store modules into typed TypeScript modules: a
// state interface is derived from the module and the module object is bound
// to a typed constant.
package storemod

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/sfcshift/pkg/casing"
	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/esimport"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
)

// Store typing vocabulary.
const (
	ModuleType      = "Module"
	RootStateType   = "RootState"
	RootStateModule = "@/types/store"
	Binding         = "storeModule"
	StateSuffix     = "State"
)

// IndexModule is the file name of the root store module, which is not a
// namespaced module.
const IndexModule = "index.js"

// Options tunes the generated layout.
type Options struct {
	Indent string
}

// Result is a rewritten store module.
type Result struct {
	Code string `json:"code"`
	// Interface is the name of the generated state interface.
	Interface string `json:"interface"`
	// Fields are the interface fields in order.
	Fields []string `json:"fields"`
}

// field is one interface member with the comments it carries over.
type field struct {
	key      string
	comments []*jsast.Node
	trailing []*jsast.Node
}

// module is a store module split into its top-level parts.
type module struct {
	imports []*esimport.Import
	other   []*jsast.Node
	export  *jsast.Node
}

// Rewrite converts the store module at path with contents src.
func Rewrite(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	if filepath.Ext(name) != ".js" {
		return nil, fmt.Errorf("%w: %s is not a .js module", component.ErrUnsupportedInputKind, name)
	}

	tree, err := jsast.Parse(ctx, src, jsast.DialectJS)
	if err != nil {
		return nil, err
	}

	mod := split(tree.Root)
	if mod.export == nil {
		return nil, fmt.Errorf("%w: no default export", component.ErrMissingDeclaration)
	}

	indent := opts.Indent
	if indent == "" {
		indent = "    "
	}

	iface := interfaceName(name)

	imports := esimport.EnsureNamed(mod.imports, component.StoreHelperScope, ModuleType)
	imports = esimport.EnsureNamed(imports, RootStateModule, RootStateType)

	b := jsast.NewBuilder(indent)
	esimport.Write(b, imports, jsast.PrintOptions{})
	b.BlankLine()

	var fields []field

	obj := jsast.Unparen(mod.export.ChildByField("value"))
	if obj != nil && obj.Kind == jsast.KindObject {
		fields = stateFields(obj)

		statements(b, mod.other)
		b.BlankLine()
		writeInterface(b, iface, fields)
		b.BlankLine()
		b.Textf("const %s: %s<%s, %s> = ", Binding, ModuleType, iface, RootStateType).Node(obj).Text(";").Line()
		b.BlankLine()
		b.Textf("export default %s;", Binding).Line()
	} else {
		fields = moduleFields(mod.imports)

		writeInterface(b, iface, fields)
		b.BlankLine()
		statements(b, mod.other)
		b.BlankLine()
		b.Node(mod.export).Line()
	}

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}

	return &Result{Code: b.String(jsast.PrintOptions{}), Interface: iface, Fields: keys}, nil
}

func split(root *jsast.Node) module {
	var mod module

	for _, n := range root.NamedChildren() {
		switch {
		case n.Kind == jsast.KindImportStatement:
			mod.imports = append(mod.imports, esimport.FromNode(n))
		case mod.export == nil && isDefaultExport(n):
			mod.export = n
		default:
			mod.other = append(mod.other, n)
		}
	}

	return mod
}

func isDefaultExport(n *jsast.Node) bool {
	return n.Kind == jsast.KindExportStatement && n.HasToken("default")
}

func statements(b *jsast.Builder, nodes []*jsast.Node) {
	for i, n := range nodes {
		if i > 0 && n.PrecededByBlankLine() {
			b.BlankLine()
		}

		b.Node(n).Line()
	}
}

func writeInterface(b *jsast.Builder, name string, fields []field) {
	if len(fields) == 0 {
		b.Textf("export interface %s {}", name).Line()

		return
	}

	b.Textf("export interface %s {", name).Line().Indent()

	for _, f := range fields {
		for _, c := range f.comments {
			b.Node(c).Line()
		}

		b.Textf("%s: %s;", jsast.PropertyName(f.key, ""), component.FallbackType)

		for _, c := range f.trailing {
			b.Text(" ").Node(c)
		}

		b.Line()
	}

	b.Dedent().Text("}").Line()
}

// stateFields mirrors the keys of the module's state, given as an object or
// a function returning one.
func stateFields(obj *jsast.Node) []field {
	member := jsast.ObjectProperty(obj, component.StoreRoot)
	if member == nil {
		return nil
	}

	state := member
	if member.Kind != jsast.KindMethodDefinition {
		state = jsast.Unparen(jsast.MemberValue(member))
	}

	if jsast.IsFunction(state) {
		state = jsast.ReturnedExpression(state)
	}

	if state == nil || state.Kind != jsast.KindObject {
		return nil
	}

	var (
		out     []field
		pending []*jsast.Node
		prev    *jsast.Node
	)

	for _, c := range state.NamedChildren() {
		if c.Kind == jsast.KindComment {
			if prev != nil && c.Line() == prev.EndLine() {
				out[len(out)-1].trailing = append(out[len(out)-1].trailing, c)
			} else {
				pending = append(pending, c)
			}

			continue
		}

		prev = nil

		key, ok := jsast.PropertyKey(c)
		if !ok {
			pending = nil

			continue
		}

		out = append(out, field{key: key, comments: pending})
		pending = nil
		prev = c
	}

	return out
}

// interfaceName derives the state interface from the file name. A root.js
// module gets RootModuleState, distinct from the imported RootState.
func interfaceName(name string) string {
	base := casing.UpperCamel(strings.TrimSuffix(filepath.Base(name), ".js"))
	if base+StateSuffix == RootStateType {
		base += "Module"
	}

	return base + StateSuffix
}

// moduleFields mirrors the base names of imported sub-modules. The store
// library and the root-state module are not sub-modules.
func moduleFields(imports []*esimport.Import) []field {
	var out []field

	for _, im := range imports {
		if im.Source == component.StoreHelperScope || im.Source == RootStateModule {
			continue
		}

		base := path.Base(im.Source)
		base = strings.TrimSuffix(base, path.Ext(base))

		out = append(out, field{key: base})
	}

	return out
}
