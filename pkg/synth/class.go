package synth

import (
	"strings"

	"github.com/Sumatoshi-tech/sfcshift/pkg/casing"
	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/esimport"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
)

// Class renders decorated class components in TypeScript.
type Class struct {
	Options
}

// Style implements Synthesizer.
func (Class) Style() component.Style {
	return component.ClassStyle
}

// Dialect implements Synthesizer.
func (Class) Dialect() jsast.Dialect {
	return jsast.DialectTS
}

// Synthesize implements Synthesizer.
func (c Class) Synthesize(m *component.Model) (*jsast.Node, error) {
	if err := checkModel(m); err != nil {
		return nil, err
	}

	w := newWriter(c.Options, false)
	w.header(classImports(m), m.Other)
	w.comments(m.LeadingComments)

	classDecorator(w, m)
	w.Textf("export default class %s extends %s {", casing.UpperCamel(m.Name()), component.BaseType).Line().Indent()

	for i, emit := range classMembers(w, m) {
		if i > 0 {
			w.BlankLine()
		}

		emit()
	}

	w.Dedent().Text("}").Line()

	return w.Build(), nil
}

// classImports drops the base module and decorator module imports and
// appends one decorator module import naming the helpers the class uses.
// Other helpers imported from the decorator module are kept on it.
func classImports(m *component.Model) []*esimport.Import {
	helpers := []string{component.ComponentDecorator, component.BaseType}
	if len(m.Props) > 0 {
		helpers = append(helpers, component.PropDecorator)
	}

	if len(m.Watch) > 0 {
		helpers = append(helpers, component.WatchDecorator)
	}

	gen := esimport.New(component.DecoratorModule, "", helpers...)

	for _, im := range m.Imports {
		if im.Source != component.DecoratorModule {
			continue
		}

		for _, s := range im.Named {
			switch s.Imported {
			case component.ComponentDecorator, component.BaseType, component.PropDecorator, component.WatchDecorator:
			default:
				if !gen.Binds(s.Local) {
					gen.Named = append(gen.Named, s)
				}
			}
		}
	}

	kept := esimport.Without(m.Imports, component.BaseModule, component.DecoratorModule, component.ClassComponent)

	return append(kept, gen)
}

func classDecorator(w *writer, m *component.Model) {
	w.Textf("@%s({", component.ComponentDecorator).Line().Indent()
	w.Textf("%s: %s,", component.OptName, jsast.Quote(m.Name())).Line()

	for _, key := range component.OpaqueOptions {
		if n := m.Opaque(key); n != nil {
			w.Node(n).Text(",").Line()
		}
	}

	for _, opt := range m.Options {
		w.Node(opt).Text(",").Line()
	}

	w.Dedent().Text("})").Line()
}

// classMembers returns the member emitters in output order.
func classMembers(w *writer, m *component.Model) []func() {
	var out []func()

	for _, p := range m.Props {
		out = append(out, func() {
			w.comments(p.Comments)
			w.Textf("@%s(", component.PropDecorator)

			if p.Descriptor != nil {
				w.Node(p.Descriptor)
			} else {
				w.Text("{}")
			}

			w.Text(")").Line()
			w.Textf("public %s!: %s;", jsast.PropertyName(p.Key, ""), component.FallbackType)
			w.trailing(p.Trailing)
			w.Line()
		})
	}

	for _, d := range m.Data {
		out = append(out, func() {
			w.comments(d.Comments)
			w.Textf("public %s: %s", jsast.PropertyName(d.Key, ""), component.FallbackType)

			if d.Init != nil {
				w.Text(" = ").Node(d.Init)
			}

			w.Text(";")
			w.trailing(d.Trailing)
			w.Line()
		})
	}

	for _, c := range m.Computed {
		out = append(out, func() {
			w.comments(c.Comments)
			name := jsast.PropertyName(c.Key, "")

			if c.StoreBound {
				storeGetter(w, name, c)
			} else {
				w.method("public ", "get ", name, c.Accessor)
			}

			w.trailing(c.Trailing)
			w.Line()

			if c.Setter != nil {
				w.BlankLine()
				w.method("public ", "set ", name, c.Setter)
				w.Line()
			}
		})
	}

	for _, wm := range m.Watch {
		out = append(out, func() {
			w.comments(wm.Comments)
			w.Textf("@%s(%s", component.WatchDecorator, jsast.Quote(wm.Key))

			if len(wm.Options) > 0 {
				w.Text(", { ")
				w.list(wm.Options)
				w.Text(" }")
			}

			w.Text(")").Line()
			w.method("public ", "", "on"+casing.WatchSuffix(wm.Key, component.WatchSigil)+"Change", wm.Handler)
			w.trailing(wm.Trailing)
			w.Line()
		})
	}

	for _, fn := range m.Methods {
		out = append(out, func() {
			w.comments(fn.Comments)
			w.method("public ", "", jsast.PropertyName(fn.Key, ""), fn.Fn)
			w.trailing(fn.Trailing)
			w.Line()
		})
	}

	for _, l := range m.Lifecycle {
		out = append(out, func() {
			w.comments(l.Comments)
			w.method("public ", "", jsast.PropertyName(l.Key, ""), l.Fn)
			w.trailing(l.Trailing)
			w.Line()
		})
	}

	return out
}

// storeGetter writes a getter reading the store-bound member straight from
// the store. Accessors whose path cannot be read are called with the
// namespaced state instead.
func storeGetter(w *writer, name string, c *component.ComputedMember) {
	w.Text("public ")

	if jsast.IsAsync(c.Accessor) {
		w.Text("async ")
	}

	w.Textf("get %s() {", name).Line().Indent()

	if path, ok := StorePath(c); ok {
		w.Textf("return %s;", path).Line()
	} else {
		base := append([]string{component.StoreLocal, component.StoreRoot}, namespaceSegments(c.StoreNamespace)...)
		w.Text("return (").Node(c.Accessor).Textf(")(%s);", strings.Join(base, ".")).Line()
	}

	w.Dedent().Text("}")
}

// StorePath returns the store.state.<namespace>.<tail> chain a store-bound
// member reads. The tail is the accessor's return path after its root
// parameter, or the dotted path of a string accessor. Namespace segments
// already leading the tail are not repeated.
func StorePath(c *component.ComputedMember) (string, bool) {
	var tail []string

	if s, ok := jsast.StringValue(c.Accessor); ok {
		tail = strings.Split(s, ".")
	} else {
		path := jsast.MemberPath(jsast.ReturnedExpression(c.Accessor))
		params := jsast.Params(c.Accessor)

		if len(path) == 0 || len(params) == 0 {
			return "", false
		}

		if root, _ := jsast.ParamBinding(params[0]); root == "" || path[0] != root {
			return "", false
		}

		tail = path[1:]
	}

	ns := namespaceSegments(c.StoreNamespace)
	if hasPrefix(tail, ns) {
		tail = tail[len(ns):]
	}

	parts := append([]string{component.StoreLocal, component.StoreRoot}, ns...)

	return strings.Join(append(parts, tail...), "."), true
}

func namespaceSegments(ns string) []string {
	var out []string

	for _, s := range strings.Split(ns, "/") {
		if s != "" {
			out = append(out, s)
		}
	}

	return out
}

func hasPrefix(s, prefix []string) bool {
	if len(prefix) == 0 || len(s) < len(prefix) {
		return false
	}

	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}

	return true
}
