package jsast

import (
	"strings"
	"unicode"
)

var functionKinds = map[string]bool{
	KindFunctionExpression:   true,
	KindFunction:             true,
	KindGeneratorFunction:    true,
	KindArrowFunction:        true,
	KindMethodDefinition:     true,
	KindFunctionDeclaration:  true,
	KindGeneratorDeclaration: true,
}

// IsFunction reports whether n is any function-valued node.
func IsFunction(n *Node) bool {
	return n != nil && functionKinds[n.Kind]
}

// Unparen strips parenthesized_expression wrappers.
func Unparen(n *Node) *Node {
	for n != nil && n.Kind == KindParenthesized {
		n = n.FirstNamedChild()
	}

	return n
}

// StringValue returns the contents of a string literal without quotes.
func StringValue(n *Node) (string, bool) {
	if n == nil || n.Kind != KindString {
		return "", false
	}

	text := n.Text()
	if len(text) < 2 {
		return "", false
	}

	return text[1 : len(text)-1], true
}

// PropertyKey returns the static key of an object member or class member.
func PropertyKey(n *Node) (string, bool) {
	if n == nil {
		return "", false
	}

	switch n.Kind {
	case KindShorthandProperty:
		return n.Text(), true
	case KindPair:
		return keyText(n.ChildByField("key"))
	default:
		key := n.ChildByField("name")
		if key == nil {
			key = n.ChildByField("property")
		}

		return keyText(key)
	}
}

func keyText(k *Node) (string, bool) {
	if k == nil {
		return "", false
	}

	switch k.Kind {
	case KindString:
		return StringValue(k)
	case KindComputedPropertyName:
		return "", false
	default:
		return k.Text(), true
	}
}

// MemberValue returns the value expression of a pair or field definition.
func MemberValue(n *Node) *Node {
	if n == nil {
		return nil
	}

	return n.ChildByField("value")
}

// ObjectMembers returns the members of an object literal, skipping
// punctuation and comments.
func ObjectMembers(obj *Node) []*Node {
	var out []*Node

	for _, c := range obj.NamedChildren() {
		if c.Kind != KindComment {
			out = append(out, c)
		}
	}

	return out
}

// ObjectProperty returns the member of obj keyed name.
func ObjectProperty(obj *Node, name string) *Node {
	for _, m := range ObjectMembers(obj) {
		if key, ok := PropertyKey(m); ok && key == name {
			return m
		}
	}

	return nil
}

// Params returns the parameter nodes of a function.
func Params(fn *Node) []*Node {
	if fn == nil {
		return nil
	}

	if single := fn.ChildByField("parameter"); single != nil {
		return []*Node{single}
	}

	list := fn.ChildByField("parameters")
	if list == nil {
		list = fn.ChildOfKind(KindFormalParameters)
	}

	var out []*Node

	for _, c := range list.NamedChildren() {
		if c.Kind != KindComment {
			out = append(out, c)
		}
	}

	return out
}

// ParamsNode returns the formal_parameters node, or the bare arrow parameter.
func ParamsNode(fn *Node) *Node {
	if fn == nil {
		return nil
	}

	if single := fn.ChildByField("parameter"); single != nil {
		return single
	}

	if list := fn.ChildByField("parameters"); list != nil {
		return list
	}

	return fn.ChildOfKind(KindFormalParameters)
}

// ParamBinding returns the identifier bound by a parameter (empty for
// destructuring patterns) and the node an annotation attaches to.
func ParamBinding(param *Node) (string, *Node) {
	switch param.Kind {
	case KindIdentifier:
		return param.Text(), param
	case KindAssignmentPattern:
		left := param.ChildByField("left")
		if left != nil && left.Kind == KindIdentifier {
			return left.Text(), left
		}

		return "", left
	case KindRestPattern:
		inner := param.FirstNamedChild()
		if inner != nil && inner.Kind == KindIdentifier {
			return inner.Text(), param
		}

		return "", param
	case KindRequiredParameter, KindOptionalParameter:
		pattern := param.ChildByField("pattern")
		target := pattern

		if q := param.ChildOfKind("?"); q != nil {
			target = q
		}

		if pattern != nil && pattern.Kind == KindIdentifier {
			return pattern.Text(), target
		}

		return "", target
	default:
		return "", param
	}
}

// ParamHasType reports whether the parameter already carries a type.
func ParamHasType(param *Node) bool {
	if param.ChildOfKind(KindTypeAnnotation) != nil {
		return true
	}

	_, target := ParamBinding(param)

	return target != nil && target.TypeAnnotation() != ""
}

// Body returns the body of a function.
func Body(fn *Node) *Node {
	if fn == nil {
		return nil
	}

	return fn.ChildByField("body")
}

// IsAsync reports whether the function carries the async keyword.
func IsAsync(fn *Node) bool {
	return fn.HasToken("async")
}

// IsGenerator reports whether the function is a generator.
func IsGenerator(fn *Node) bool {
	if fn == nil {
		return false
	}

	return fn.Kind == KindGeneratorFunction || fn.Kind == KindGeneratorDeclaration || fn.HasToken("*")
}

// IsGetter reports whether a method definition is a get accessor.
func IsGetter(fn *Node) bool {
	return fn != nil && fn.Kind == KindMethodDefinition && fn.HasToken("get")
}

// IsSetter reports whether a method definition is a set accessor.
func IsSetter(fn *Node) bool {
	return fn != nil && fn.Kind == KindMethodDefinition && fn.HasToken("set")
}

// IsStatic reports whether a class member is static.
func IsStatic(n *Node) bool {
	return n.HasToken("static")
}

// ReturnedExpression returns the expression a function yields: the arrow's
// expression body, or the argument of the first top-level return statement.
func ReturnedExpression(fn *Node) *Node {
	body := Body(fn)
	if body == nil {
		return nil
	}

	if body.Kind != KindStatementBlock {
		return Unparen(body)
	}

	ret := body.ChildOfKind(KindReturnStatement)
	if ret == nil {
		return nil
	}

	return Unparen(ret.FirstNamedChild())
}

// Statements returns the non-comment statements of a block or program.
func Statements(block *Node) []*Node {
	var out []*Node

	for _, c := range block.NamedChildren() {
		if c.Kind != KindComment {
			out = append(out, c)
		}
	}

	return out
}

// MemberPath flattens a member-access chain such as a.b.c into its parts.
// It returns nil for anything else.
func MemberPath(n *Node) []string {
	n = Unparen(n)
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindIdentifier, KindThis, KindPropertyIdentifier:
		return []string{n.Text()}
	case KindMemberExpression:
		head := MemberPath(n.ChildByField("object"))
		prop := n.ChildByField("property")

		if head == nil || prop == nil {
			return nil
		}

		return append(head, prop.Text())
	default:
		return nil
	}
}

// CalleeName returns the dotted callee of a call expression.
func CalleeName(call *Node) string {
	if call == nil || call.Kind != KindCallExpression {
		return ""
	}

	fn := call.ChildByField("function")
	if fn != nil && fn.Kind == KindImport {
		return "import"
	}

	return strings.Join(MemberPath(fn), ".")
}

// Arguments returns the argument expressions of a call.
func Arguments(call *Node) []*Node {
	if call == nil {
		return nil
	}

	args := call.ChildByField("arguments")
	if args == nil {
		args = call.ChildOfKind(KindArguments)
	}

	var out []*Node

	for _, c := range args.NamedChildren() {
		if c.Kind != KindComment {
			out = append(out, c)
		}
	}

	return out
}

// DecoratorCall returns the name and arguments of a decorator such as
// @Name or @Name(args).
func DecoratorCall(dec *Node) (string, []*Node) {
	expr := dec.FirstNamedChild()
	if expr == nil {
		return "", nil
	}

	switch expr.Kind {
	case KindCallExpression:
		path := MemberPath(expr.ChildByField("function"))
		if len(path) == 0 {
			return "", nil
		}

		return path[len(path)-1], Arguments(expr)
	default:
		path := MemberPath(expr)
		if len(path) == 0 {
			return "", nil
		}

		return path[len(path)-1], nil
	}
}

// Quote renders s as a single-quoted string literal.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)

	return "'" + r.Replace(s) + "'"
}

// IsIdentifierName reports whether s can be written as a bare property key.
func IsIdentifierName(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}

// PropertyName renders key for use as an object or class member name.
// Keys starting with the sigil are always quoted.
func PropertyName(key, sigil string) string {
	if IsIdentifierName(key) && (sigil == "" || !strings.HasPrefix(key, sigil)) {
		return key
	}

	return Quote(key)
}
