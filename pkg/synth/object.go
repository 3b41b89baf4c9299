package synth

import (
	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/esimport"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
)

// Object renders options-object components in plain JavaScript.
type Object struct {
	Options
}

// Style implements Synthesizer.
func (Object) Style() component.Style {
	return component.ObjectStyle
}

// Dialect implements Synthesizer.
func (Object) Dialect() jsast.Dialect {
	return jsast.DialectJS
}

// Synthesize implements Synthesizer.
func (o Object) Synthesize(m *component.Model) (*jsast.Node, error) {
	if err := checkModel(m); err != nil {
		return nil, err
	}

	w := newWriter(o.Options, true)
	w.header(objectImports(m), m.Other)
	w.comments(m.LeadingComments)

	w.Text("export default {").Line().Indent()
	w.Textf("%s: %s,", component.OptName, jsast.Quote(m.Name())).Line()

	for _, key := range component.OpaqueOptions {
		if n := m.Opaque(key); n != nil {
			w.Node(n).Text(",").Line()
		}
	}

	objectSection(w, component.OptProps, len(m.Props), func() {
		for _, p := range m.Props {
			w.comments(p.Comments)
			w.Text(jsast.PropertyName(p.Key, "") + ": ")

			if p.Descriptor != nil {
				w.Node(p.Descriptor)
			} else {
				w.Text("{}")
			}

			endMember(w, p.Trailing)
		}
	})

	objectData(w, m.Data)

	objectSection(w, component.OptComputed, len(m.Computed), func() {
		objectComputed(w, m.Computed)
	})

	objectSection(w, component.OptWatch, len(m.Watch), func() {
		for _, wm := range m.Watch {
			objectWatcher(w, wm)
		}
	})

	objectSection(w, component.OptMethods, len(m.Methods), func() {
		for _, fn := range m.Methods {
			w.comments(fn.Comments)
			objectFunction(w, fn.Key, fn.Fn)
			endMember(w, fn.Trailing)
		}
	})

	for _, opt := range m.Options {
		w.Node(opt).Text(",").Line()
	}

	for _, l := range m.Lifecycle {
		w.comments(l.Comments)
		objectFunction(w, l.Key, l.Fn)
		endMember(w, l.Trailing)
	}

	w.Dedent().Text("};").Line()

	return w.Build(), nil
}

// objectImports drops the decorator module imports and makes sure the store
// helper is imported when store-bound members are regrouped.
func objectImports(m *component.Model) []*esimport.Import {
	list := esimport.Without(m.Imports, component.DecoratorModule, component.ClassComponent)

	if m.HasStoreBound() && esimport.Binding(list, component.StoreHelper) == nil {
		list = append(list, esimport.New(component.StoreHelperScope, "", component.StoreHelper))
	}

	return list
}

func endMember(w *writer, trailing []*jsast.Node) {
	w.Text(",")
	w.trailing(trailing)
	w.Line()
}

// objectSection writes `key: { ... },`, or `key: {},` when empty.
func objectSection(w *writer, key string, n int, emit func()) {
	if n == 0 {
		w.Textf("%s: {},", key).Line()

		return
	}

	w.Textf("%s: {", key).Line().Indent()
	emit()
	w.Dedent().Text("},").Line()
}

func objectData(w *writer, data []*component.DataMember) {
	w.Textf("%s() {", component.OptData).Line().Indent()

	if len(data) == 0 {
		w.Text("return {};").Line()
	} else {
		w.Text("return {").Line().Indent()

		for _, d := range data {
			w.comments(d.Comments)

			switch {
			case d.Init == nil:
				w.Text(jsast.PropertyName(d.Key, "") + ": undefined")
			case d.Init.Kind == jsast.KindShorthandProperty:
				w.Node(d.Init)
			default:
				w.Text(jsast.PropertyName(d.Key, "") + ": ").Node(d.Init)
			}

			endMember(w, d.Trailing)
		}

		w.Dedent().Text("};").Line()
	}

	w.Dedent().Text("},").Line()
}

// objectFunction writes a function-valued member. Methods are rebuilt in
// shorthand form; function values are kept as they are.
func objectFunction(w *writer, key string, fn *jsast.Node) {
	name := jsast.PropertyName(key, "")

	if fn.Kind == jsast.KindMethodDefinition {
		w.method("", "", name, fn)

		return
	}

	w.Text(name + ": ").Node(fn)
}

// objectComputed writes computed members. Store-bound members are grouped
// per namespace into one mapState spread, placed where the first member of
// the namespace appeared.
func objectComputed(w *writer, computed []*component.ComputedMember) {
	groups := map[string][]*component.ComputedMember{}

	for _, c := range computed {
		if c.StoreBound {
			groups[c.StoreNamespace] = append(groups[c.StoreNamespace], c)
		}
	}

	written := map[string]bool{}

	for _, c := range computed {
		if !c.StoreBound {
			w.comments(c.Comments)
			objectAccessor(w, c)
			endMember(w, c.Trailing)

			continue
		}

		if written[c.StoreNamespace] {
			continue
		}

		written[c.StoreNamespace] = true

		w.Textf("...%s(", component.StoreHelper)

		if c.StoreNamespace != "" {
			w.Text(jsast.Quote(c.StoreNamespace) + ", ")
		}

		w.Text("{").Line().Indent()

		for _, member := range groups[c.StoreNamespace] {
			w.comments(member.Comments)

			if member.Accessor.Kind == jsast.KindMethodDefinition {
				w.method("", "", jsast.PropertyName(member.Key, ""), member.Accessor)
			} else {
				w.Text(jsast.PropertyName(member.Key, "") + ": ").Node(member.Accessor)
			}

			endMember(w, member.Trailing)
		}

		w.Dedent().Text("}),").Line()
	}
}

func objectAccessor(w *writer, c *component.ComputedMember) {
	if c.Setter == nil {
		objectFunction(w, c.Key, c.Accessor)

		return
	}

	w.Text(jsast.PropertyName(c.Key, "") + ": {").Line().Indent()
	objectFunction(w, "get", c.Accessor)
	w.Text(",").Line()
	objectFunction(w, "set", c.Setter)
	w.Text(",").Line()
	w.Dedent().Text("}")
}

// objectWatcher writes a watcher as an unnamed function, or as an object
// with a handler when it carries options.
func objectWatcher(w *writer, wm *component.WatchMember) {
	w.comments(wm.Comments)
	w.Text(jsast.PropertyName(wm.Key, component.WatchSigil) + ": ")

	if len(wm.Options) == 0 {
		w.function(wm.Handler)
		endMember(w, wm.Trailing)

		return
	}

	w.Text("{").Line().Indent()
	w.Text("handler: ")
	w.function(wm.Handler)
	w.Text(",").Line()

	for _, opt := range wm.Options {
		w.Node(opt).Text(",").Line()
	}

	w.Dedent().Text("}")
	endMember(w, wm.Trailing)
}
