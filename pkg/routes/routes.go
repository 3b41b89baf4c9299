// Package routes rewrites route-table modules: lazily required components
// become dynamic imports with chunk names and navigation guards get typed
// parameters. The output is TypeScript.
package routes

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/esimport"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
	"github.com/Sumatoshi-tech/sfcshift/pkg/plugin"
)

// Route descriptor keys.
const (
	KeyComponent = "component"
	KeyChildren  = "children"
)

// GuardKeys are the function-valued route fields whose parameters are typed.
var GuardKeys = []string{"beforeEnter", "beforeLeave", "redirect"}

// IndexModule is the file name of router entry modules, which are not
// route tables.
const IndexModule = "index.js"

// Result is a rewritten route table.
type Result struct {
	Code string `json:"code"`
	// Rewritten counts component fields turned into dynamic imports.
	Rewritten int `json:"rewritten"`
	// Guards counts annotated guard functions.
	Guards int `json:"guards"`
}

// Rewrite converts the route table module at path with contents src.
func Rewrite(ctx context.Context, path string, src []byte) (*Result, error) {
	if filepath.Ext(path) != ".js" {
		return nil, fmt.Errorf("%w: %s is not a .js module", component.ErrUnsupportedInputKind, path)
	}

	if filepath.Base(path) == IndexModule {
		return nil, fmt.Errorf("%w: %s is a router entry module", component.ErrUnsupportedInputKind, path)
	}

	tree, err := jsast.Parse(ctx, src, jsast.DialectJS)
	if err != nil {
		return nil, err
	}

	table := routeTable(tree.Root)
	if table == nil {
		return nil, fmt.Errorf("%w: no default-exported route array", component.ErrMissingDeclaration)
	}

	r := &rewriter{
		chunk:   strings.TrimSuffix(filepath.Base(path), ".js"),
		loaders: loaders(tree.Root),
		used:    map[string]bool{},
	}

	for _, route := range table.NamedChildren() {
		r.route(route)
	}

	r.removeUsedLoaders(tree.Root)

	prefix := ""
	if r.typedRoute {
		prefix = ensureRouteImport(tree.Root)
	}

	code := prefix + jsast.Print(tree.Root, jsast.PrintOptions{})

	return &Result{Code: code, Rewritten: r.rewritten, Guards: r.guards}, nil
}

func routeTable(root *jsast.Node) *jsast.Node {
	for _, n := range root.NamedChildren() {
		if n.Kind != jsast.KindExportStatement {
			continue
		}

		value := jsast.Unparen(n.ChildByField("value"))
		if value != nil && value.Kind == jsast.KindArray {
			return value
		}
	}

	return nil
}

// loader is a top-level variable bound to a lazy component loader.
type loader struct {
	path       string
	declarator *jsast.Node
}

// loaders maps variables declared as
//
//	const Foo = r => require.ensure([], () => r(require('./Foo.vue')), 'foo')
//
// to the required module path.
func loaders(root *jsast.Node) map[string]loader {
	out := map[string]loader{}

	for _, stmt := range root.NamedChildren() {
		if stmt.Kind != jsast.KindLexicalDeclaration && stmt.Kind != jsast.KindVariableDeclaration {
			continue
		}

		for _, decl := range stmt.ChildrenOfKind(jsast.KindVariableDeclarator) {
			name := decl.ChildByField("name")
			if name == nil || name.Kind != jsast.KindIdentifier {
				continue
			}

			if path, ok := loaderPath(jsast.Unparen(decl.ChildByField("value"))); ok {
				out[name.Text()] = loader{path: path, declarator: decl}
			}
		}
	}

	return out
}

// loaderPath finds require('path') passed to a resolve call inside a
// function that is itself an argument of an ensure call.
func loaderPath(value *jsast.Node) (string, bool) {
	if !jsast.IsFunction(value) {
		return "", false
	}

	for _, call := range value.FindAll(jsast.KindCallExpression) {
		if jsast.CalleeName(call) != "require" {
			continue
		}

		args := jsast.Arguments(call)
		if len(args) == 0 {
			continue
		}

		path, ok := jsast.StringValue(args[0])
		if !ok {
			continue
		}

		resolve := callOf(call)
		if resolve == nil {
			continue
		}

		fn := enclosingFunction(resolve)
		if fn == nil || fn == value || callOf(fn) == nil {
			continue
		}

		return path, true
	}

	return "", false
}

// callOf returns the call expression n is an argument of.
func callOf(n *jsast.Node) *jsast.Node {
	args := n.Parent
	if args == nil || args.Kind != jsast.KindArguments || args.Parent == nil {
		return nil
	}

	if args.Parent.Kind != jsast.KindCallExpression {
		return nil
	}

	return args.Parent
}

func enclosingFunction(n *jsast.Node) *jsast.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if jsast.IsFunction(p) {
			return p
		}
	}

	return nil
}

type rewriter struct {
	chunk      string
	loaders    map[string]loader
	used       map[string]bool
	typedRoute bool
	rewritten  int
	guards     int
}

func (r *rewriter) route(route *jsast.Node) {
	if route.Kind != jsast.KindObject {
		return
	}

	for _, member := range jsast.ObjectMembers(route) {
		key, ok := jsast.PropertyKey(member)
		if !ok {
			continue
		}

		switch {
		case key == KeyComponent:
			r.component(member)
		case key == KeyChildren:
			if children := jsast.Unparen(jsast.MemberValue(member)); children != nil && children.Kind == jsast.KindArray {
				for _, child := range children.NamedChildren() {
					r.route(child)
				}
			}
		case isGuardKey(key):
			r.guard(member)
		}
	}
}

func (r *rewriter) component(member *jsast.Node) {
	value := jsast.MemberValue(member)
	if value == nil {
		if member.Kind != jsast.KindShorthandProperty {
			return
		}

		value = member
	}

	name := value.Text()

	l, ok := r.loaders[name]
	if !ok {
		return
	}

	imp := fmt.Sprintf("() => import(/* webpackChunkName: %q */ %s)", r.chunk, jsast.Quote(l.path))
	if value == member {
		imp = KeyComponent + ": " + imp
	}

	value.Replace(imp)
	r.used[name] = true
	r.rewritten++
}

func (r *rewriter) guard(member *jsast.Node) {
	fn := member
	if member.Kind != jsast.KindMethodDefinition {
		fn = jsast.Unparen(jsast.MemberValue(member))
	}

	if !jsast.IsFunction(fn) {
		return
	}

	if plugin.Annotate(fn) {
		r.typedRoute = true
	}

	r.guards++
}

// removeUsedLoaders drops the declarations of loaders every reference to
// which was rewritten.
func (r *rewriter) removeUsedLoaders(root *jsast.Node) {
	for name, l := range r.loaders {
		if !r.used[name] || referenced(root, name, l.declarator) {
			continue
		}

		stmt := l.declarator.Parent
		if len(stmt.ChildrenOfKind(jsast.KindVariableDeclarator)) == 1 {
			stmt.Remove()
		}
	}
}

// referenced reports whether an identifier name is still printed outside
// the declarator.
func referenced(root *jsast.Node, name string, declarator *jsast.Node) bool {
	found := false

	root.Walk(func(n *jsast.Node) bool {
		if found || n == declarator || n.Edited() {
			return false
		}

		if (n.Kind == jsast.KindIdentifier || n.Kind == jsast.KindShorthandProperty) && n.Text() == name {
			found = true
		}

		return !found
	})

	return found
}

func isGuardKey(key string) bool {
	for _, k := range GuardKeys {
		if k == key {
			return true
		}
	}

	return false
}

// ensureRouteImport adds the route type to the router import. An existing
// statement is extended in place and a new one goes after the last import.
// With no imports at all it returns the statement to print first.
func ensureRouteImport(root *jsast.Node) string {
	var (
		imports []*esimport.Import
		last    *jsast.Node
	)

	for _, n := range root.NamedChildren() {
		if n.Kind == jsast.KindImportStatement {
			imports = append(imports, esimport.FromNode(n))
			last = n
		}
	}

	before := len(imports)

	imports = plugin.EnsureRouteImport(imports)
	if len(imports) == before {
		return ""
	}

	added := imports[len(imports)-1].Render(jsast.PrintOptions{})
	if last == nil {
		return added + "\n"
	}

	last.Append("\n" + added)

	return ""
}
