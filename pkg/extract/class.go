package extract

import (
	"fmt"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
)

// Class extracts decorated class components:
//
//	@Component({ name: 'cmp' })
//	export default class Cmp extends Vue { ... }
type Class struct{}

// Style implements Extractor.
func (Class) Style() component.Style {
	return component.ClassStyle
}

// Dialect implements Extractor. Decorators and field types need the
// TypeScript grammar regardless of the block's lang.
func (Class) Dialect(string) jsast.Dialect {
	return jsast.DialectTS
}

// Extract implements Extractor.
func (Class) Extract(tree *jsast.Tree) (*component.Model, error) {
	p := splitProgram(tree.Root)
	if p.export == nil {
		return nil, fmt.Errorf("%w: no default export", component.ErrMissingDeclaration)
	}

	class := exportedClass(p.export.node)
	if class == nil {
		return nil, fmt.Errorf("%w: default export is not a class", component.ErrMissingDeclaration)
	}

	if super := superclass(class); super != component.BaseType {
		return nil, fmt.Errorf("%w: class extends %q, want %s", component.ErrMissingDeclaration, super, component.BaseType)
	}

	options, err := componentOptions(p.export.node, class)
	if err != nil {
		return nil, err
	}

	entries := attach(options, true)

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

		switch {
		case ok && key == component.OptName:
		case ok && component.IsOpaqueOption(key):
			m.SetOpaque(key, e.node)
		default:
			m.Options = append(m.Options, e.node)
		}
	}

	classMembers(m, class.ChildByField("body"))

	return m, nil
}

func exportedClass(export *jsast.Node) *jsast.Node {
	if decl := export.ChildByField("declaration"); decl != nil && isClass(decl) {
		return decl
	}

	if value := jsast.Unparen(export.ChildByField("value")); value != nil && isClass(value) {
		return value
	}

	return nil
}

func isClass(n *jsast.Node) bool {
	switch n.Kind {
	case jsast.KindClassDeclaration, jsast.KindClass, "abstract_class_declaration":
		return true
	default:
		return false
	}
}

// superclass returns the dotted name of the extended class, or "".
func superclass(class *jsast.Node) string {
	heritage := class.ChildOfKind(jsast.KindClassHeritage)
	if heritage == nil {
		return ""
	}

	expr := heritage.FirstNamedChild()
	if expr != nil && expr.Kind == jsast.KindExtendsClause {
		expr = expr.FirstNamedChild()
	}

	path := jsast.MemberPath(expr)
	if len(path) == 0 {
		return ""
	}

	return path[len(path)-1]
}

// decorators returns the decorators on the export statement and the class.
func decorators(nodes ...*jsast.Node) []*jsast.Node {
	var out []*jsast.Node

	for _, n := range nodes {
		out = append(out, n.ChildrenOfKind(jsast.KindDecorator)...)
	}

	return out
}

func componentOptions(export, class *jsast.Node) (*jsast.Node, error) {
	for _, dec := range decorators(export, class) {
		name, args := jsast.DecoratorCall(dec)
		if name != component.ComponentDecorator {
			continue
		}

		if len(args) == 0 {
			return nil, fmt.Errorf("%w: @%s has no options", component.ErrMissingRequiredField, component.ComponentDecorator)
		}

		obj := jsast.Unparen(args[0])
		if obj.Kind != jsast.KindObject {
			return nil, fmt.Errorf("%w: @%s argument is not an object literal", component.ErrMissingRequiredField, component.ComponentDecorator)
		}

		return obj, nil
	}

	return nil, fmt.Errorf("%w: class has no @%s decorator", component.ErrMissingDeclaration, component.ComponentDecorator)
}

// classMember is one class body member with the decorators written before it.
type classMember struct {
	*entry
	decorators []*jsast.Node
}

func groupClassBody(body *jsast.Node) []classMember {
	var (
		out     []classMember
		pending classMember
	)

	for _, e := range attach(body, true) {
		if e.node.Kind == jsast.KindDecorator {
			pending.decorators = append(pending.decorators, e.node)
			if pending.entry == nil {
				pending.entry = &entry{}
			}

			pending.entry.leading = append(pending.entry.leading, e.leading...)

			continue
		}

		if pending.entry != nil {
			e.leading = append(pending.entry.leading, e.leading...)
		}

		out = append(out, classMember{entry: e, decorators: append(pending.decorators, e.node.ChildrenOfKind(jsast.KindDecorator)...)})
		pending = classMember{}
	}

	return out
}

func classMembers(m *component.Model, body *jsast.Node) {
	type setter struct {
		key  string
		node *jsast.Node
	}

	var setters []setter

	for _, cm := range groupClassBody(body) {
		n := cm.node
		key, ok := jsast.PropertyKey(n)

		switch {
		case !ok:
			unrecognized(m, n, "class member %s has no static name", n.Kind)
		case jsast.IsStatic(n):
			unrecognized(m, n, "static member %q is dropped", key)
		case n.Kind == jsast.KindPublicField || n.Kind == jsast.KindFieldDefinition:
			classField(m, cm, key)
		case n.Kind != jsast.KindMethodDefinition:
			unrecognized(m, n, "class member %q of kind %s is dropped", key, n.Kind)
		case jsast.IsSetter(n):
			setters = append(setters, setter{key, n})
		case jsast.IsGetter(n):
			m.Computed = append(m.Computed, &component.ComputedMember{Member: cm.member(key), Accessor: n})
		case key == "constructor":
			unrecognized(m, n, "constructor is dropped")
		case classWatchMethod(m, cm, key):
			// Registered as one watcher per @Watch target.
		case component.IsLifecycleHook(key):
			m.Lifecycle = append(m.Lifecycle, &component.LifecycleMember{Member: cm.member(key), Fn: n})
		default:
			m.Methods = append(m.Methods, &component.MethodMember{Member: cm.member(key), Fn: n})
		}
	}

	for _, s := range setters {
		found := false

		for _, c := range m.Computed {
			if c.Key == s.key && !c.StoreBound {
				c.Setter = s.node
				found = true
			}
		}

		if !found {
			unrecognized(m, s.node, "setter %q has no getter", s.key)
		}
	}
}

func classField(m *component.Model, cm classMember, key string) {
	if len(cm.decorators) == 0 {
		m.Data = append(m.Data, &component.DataMember{Member: cm.member(key), Init: jsast.MemberValue(cm.node)})

		return
	}

	for _, dec := range cm.decorators {
		name, args := jsast.DecoratorCall(dec)
		if name != component.PropDecorator {
			continue
		}

		prop := &component.PropMember{Member: cm.member(key)}
		if len(args) > 0 {
			prop.Descriptor = args[0]
		}

		m.Props = append(m.Props, prop)

		return
	}

	unrecognized(m, cm.node, "field %q has no @%s decorator", key, component.PropDecorator)
}

// classWatchMethod adds a watcher for every usable @Watch decorator on the
// method and reports whether it added any. Methods with other decorators are
// left to the lifecycle and method rules.
func classWatchMethod(m *component.Model, cm classMember, key string) bool {
	watched := false

	for _, dec := range cm.decorators {
		name, args := jsast.DecoratorCall(dec)
		if name != component.WatchDecorator {
			continue
		}

		if len(args) == 0 {
			unrecognized(m, dec, "@%s on %q has no target", component.WatchDecorator, key)

			continue
		}

		target, ok := jsast.StringValue(args[0])
		if !ok {
			unrecognized(m, dec, "@%s target on %q is not a string literal", component.WatchDecorator, key)

			continue
		}

		w := &component.WatchMember{Member: cm.member(target), Handler: cm.node}
		if len(args) > 1 {
			if opts := jsast.Unparen(args[1]); opts.Kind == jsast.KindObject {
				w.Options = jsast.ObjectMembers(opts)
			}
		}

		m.Watch = append(m.Watch, w)
		watched = true
	}

	return watched
}
