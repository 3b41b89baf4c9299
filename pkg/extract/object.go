package extract

import (
	"fmt"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
)

// Object extracts options-object components:
//
//	export default { name: 'cmp', data() { ... }, methods: { ... } }
type Object struct{}

// Style implements Extractor.
func (Object) Style() component.Style {
	return component.ObjectStyle
}

// Dialect implements Extractor.
func (Object) Dialect(lang string) jsast.Dialect {
	return jsast.DialectForLang(lang)
}

// Extract implements Extractor.
func (Object) Extract(tree *jsast.Tree) (*component.Model, error) {
	p := splitProgram(tree.Root)
	if p.export == nil {
		return nil, fmt.Errorf("%w: no default export", component.ErrMissingDeclaration)
	}

	obj := optionsObject(p.export.node)
	if obj == nil {
		return nil, fmt.Errorf("%w: default export is not an options object", component.ErrMissingDeclaration)
	}

	entries := attach(obj, true)

	name, err := optionsName(entries)
	if err != nil {
		return nil, err
	}

	m, err := newModel(name, p)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		key, ok := jsast.PropertyKey(e.node)
		if !ok {
			m.Options = append(m.Options, e.node)

			continue
		}

		switch {
		case key == component.OptName:
		case component.IsOpaqueOption(key):
			m.SetOpaque(key, e.node)
		case key == component.OptProps:
			objectProps(m, e.node)
		case key == component.OptData:
			objectData(m, e.node)
		case key == component.OptComputed:
			objectComputed(m, e.node)
		case key == component.OptWatch:
			objectWatch(m, e.node)
		case key == component.OptMethods:
			objectMethods(m, e.node)
		case component.IsLifecycleHook(key):
			if fn := functionValue(e.node); fn != nil {
				m.Lifecycle = append(m.Lifecycle, &component.LifecycleMember{Member: e.member(key), Fn: fn})
			} else {
				unrecognized(m, e.node, "lifecycle hook %q is not a function", key)
			}
		default:
			m.Options = append(m.Options, e.node)
		}
	}

	return m, nil
}

// optionsObject unwraps export default {...}, Vue.extend({...}) and
// defineComponent({...}).
func optionsObject(export *jsast.Node) *jsast.Node {
	value := jsast.Unparen(export.ChildByField("value"))
	if value == nil {
		return nil
	}

	if value.Kind == jsast.KindCallExpression {
		switch jsast.CalleeName(value) {
		case component.BaseType + ".extend", "defineComponent":
			args := jsast.Arguments(value)
			if len(args) == 0 {
				return nil
			}

			value = jsast.Unparen(args[0])
		default:
			return nil
		}
	}

	if value.Kind != jsast.KindObject {
		return nil
	}

	return value
}

func optionsName(entries []*entry) (string, error) {
	for _, e := range entries {
		key, ok := jsast.PropertyKey(e.node)
		if !ok || key != component.OptName {
			continue
		}

		if name, isString := jsast.StringValue(jsast.MemberValue(e.node)); isString && name != "" {
			return name, nil
		}

		return "", fmt.Errorf("%w: %s must be a string literal", component.ErrMissingRequiredField, component.OptName)
	}

	return "", fmt.Errorf("%w: %s", component.ErrMissingRequiredField, component.OptName)
}

// objectValue returns the object literal a category option holds.
func objectValue(m *component.Model, option *jsast.Node, key string) *jsast.Node {
	value := jsast.Unparen(jsast.MemberValue(option))
	if value == nil || value.Kind != jsast.KindObject {
		unrecognized(m, option, "%s is not an object literal", key)

		return nil
	}

	return value
}

func objectProps(m *component.Model, option *jsast.Node) {
	value := jsast.Unparen(jsast.MemberValue(option))

	if value != nil && value.Kind == jsast.KindArray {
		for _, el := range value.NamedChildren() {
			if key, ok := jsast.StringValue(el); ok {
				m.Props = append(m.Props, &component.PropMember{Member: component.Member{Key: key}})
			}
		}

		return
	}

	obj := objectValue(m, option, component.OptProps)
	if obj == nil {
		return
	}

	for _, e := range attach(obj, true) {
		key, ok := jsast.PropertyKey(e.node)
		if !ok || e.node.Kind != jsast.KindPair {
			unrecognized(m, e.node, "prop is not a key: value pair")

			continue
		}

		m.Props = append(m.Props, &component.PropMember{Member: e.member(key), Descriptor: jsast.MemberValue(e.node)})
	}
}

func objectData(m *component.Model, option *jsast.Node) {
	fn := functionValue(option)
	if fn == nil {
		unrecognized(m, option, "data is not a function")

		return
	}

	ret := jsast.ReturnedExpression(fn)
	if ret == nil || ret.Kind != jsast.KindObject {
		unrecognized(m, option, "data does not return an object literal")

		return
	}

	if body := jsast.Body(fn); body.Kind == jsast.KindStatementBlock && len(jsast.Statements(body)) > 1 {
		unrecognized(m, body, "statements in data other than the returned object are dropped")
	}

	for _, e := range attach(ret, true) {
		key, ok := jsast.PropertyKey(e.node)

		switch {
		case ok && e.node.Kind == jsast.KindPair:
			m.Data = append(m.Data, &component.DataMember{Member: e.member(key), Init: jsast.MemberValue(e.node)})
		case ok && e.node.Kind == jsast.KindShorthandProperty:
			m.Data = append(m.Data, &component.DataMember{Member: e.member(key), Init: e.node})
		default:
			unrecognized(m, e.node, "data member is not a key: value pair")
		}
	}
}

func objectComputed(m *component.Model, option *jsast.Node) {
	obj := objectValue(m, option, component.OptComputed)
	if obj == nil {
		return
	}

	for _, e := range attach(obj, true) {
		if e.node.Kind == jsast.KindSpreadElement {
			storeComputed(m, e)

			continue
		}

		key, ok := jsast.PropertyKey(e.node)
		if !ok {
			unrecognized(m, e.node, "computed member has no static key")

			continue
		}

		if fn := functionValue(e.node); fn != nil {
			m.Computed = append(m.Computed, &component.ComputedMember{Member: e.member(key), Accessor: fn})

			continue
		}

		value := jsast.Unparen(jsast.MemberValue(e.node))
		if value != nil && value.Kind == jsast.KindObject {
			getter := jsast.ObjectProperty(value, "get")
			setter := jsast.ObjectProperty(value, "set")

			if getter != nil && functionValue(getter) != nil {
				c := &component.ComputedMember{Member: e.member(key), Accessor: functionValue(getter)}
				if setter != nil {
					c.Setter = functionValue(setter)
				}

				m.Computed = append(m.Computed, c)

				continue
			}
		}

		unrecognized(m, e.node, "computed %q is neither a function nor a get/set object", key)
	}
}

// storeComputed expands ...mapState('ns', { key: accessor }) and
// ...mapState('ns', ['key']) into store-bound members.
func storeComputed(m *component.Model, e *entry) {
	call := jsast.Unparen(e.node.FirstNamedChild())
	if jsast.CalleeName(call) != component.StoreHelper {
		unrecognized(m, e.node, "spread in computed is not a %s call", component.StoreHelper)

		return
	}

	args := jsast.Arguments(call)
	namespace := ""

	if len(args) > 0 {
		if ns, ok := jsast.StringValue(args[0]); ok {
			namespace = ns
			args = args[1:]
		}
	}

	if len(args) == 0 {
		unrecognized(m, call, "%s call without a mapping", component.StoreHelper)

		return
	}

	mapping := jsast.Unparen(args[0])

	switch mapping.Kind {
	case jsast.KindArray:
		for _, el := range mapping.NamedChildren() {
			if key, ok := jsast.StringValue(el); ok {
				m.Computed = append(m.Computed, &component.ComputedMember{
					Member:         component.Member{Key: key},
					Accessor:       el,
					StoreBound:     true,
					StoreNamespace: namespace,
				})
			}
		}
	case jsast.KindObject:
		for _, inner := range attach(mapping, true) {
			key, ok := jsast.PropertyKey(inner.node)
			if !ok {
				continue
			}

			accessor := functionValue(inner.node)
			if accessor == nil {
				if s := jsast.MemberValue(inner.node); s != nil && s.Kind == jsast.KindString {
					accessor = s
				}
			}

			if accessor == nil {
				unrecognized(m, inner.node, "store mapping %q is neither a function nor a path", key)

				continue
			}

			member := inner.member(key)
			member.Comments = append(append([]*jsast.Node{}, e.leading...), member.Comments...)
			e.leading = nil

			m.Computed = append(m.Computed, &component.ComputedMember{
				Member:         member,
				Accessor:       accessor,
				StoreBound:     true,
				StoreNamespace: namespace,
			})
		}
	default:
		unrecognized(m, call, "%s mapping is neither an object nor an array", component.StoreHelper)
	}
}

func objectWatch(m *component.Model, option *jsast.Node) {
	obj := objectValue(m, option, component.OptWatch)
	if obj == nil {
		return
	}

	for _, e := range attach(obj, true) {
		key, ok := jsast.PropertyKey(e.node)
		if !ok {
			unrecognized(m, e.node, "watcher has no static key")

			continue
		}

		if fn := functionValue(e.node); fn != nil {
			m.Watch = append(m.Watch, &component.WatchMember{Member: e.member(key), Handler: fn})

			continue
		}

		value := jsast.Unparen(jsast.MemberValue(e.node))
		if value != nil && value.Kind == jsast.KindObject {
			if handler := jsast.ObjectProperty(value, "handler"); handler != nil && functionValue(handler) != nil {
				w := &component.WatchMember{Member: e.member(key), Handler: functionValue(handler)}

				for _, opt := range jsast.ObjectMembers(value) {
					if opt != handler {
						w.Options = append(w.Options, opt)
					}
				}

				m.Watch = append(m.Watch, w)

				continue
			}
		}

		unrecognized(m, e.node, "watcher %q has no function handler", key)
	}
}

func objectMethods(m *component.Model, option *jsast.Node) {
	obj := objectValue(m, option, component.OptMethods)
	if obj == nil {
		return
	}

	for _, e := range attach(obj, true) {
		key, ok := jsast.PropertyKey(e.node)
		fn := functionValue(e.node)

		if !ok || fn == nil {
			unrecognized(m, e.node, "method is not a function")

			continue
		}

		m.Methods = append(m.Methods, &component.MethodMember{Member: e.member(key), Fn: fn})
	}
}
