package jsast

import (
	"sort"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// fieldNames lists the grammar fields recorded on converted nodes.
var fieldNames = []string{
	"name", "value", "key", "body", "parameters", "parameter", "arguments",
	"function", "object", "property", "source", "declaration", "left", "right",
	"pattern", "type", "argument", "alias", "return_type", "type_arguments",
	"type_parameters", "decorator", "constructor", "index",
}

// Tree owns the source text and the arena of nodes converted from a parse.
type Tree struct {
	Source     []byte
	Dialect    Dialect
	Root       *Node
	nodes      []*Node
	lineStarts []int
}

func newTree(src []byte, dialect Dialect) *Tree {
	starts := []int{0}

	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &Tree{Source: src, Dialect: dialect, lineStarts: starts}
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// NodeByID returns the node with the given arena id, or nil.
func (t *Tree) NodeByID(id int) *Node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}

	return t.nodes[id]
}

type span struct {
	start, end int
	kind       string
}

func (t *Tree) build(sn sitter.Node, parent *Node, field string) *Node {
	n := &Node{
		Kind:    sn.Type(),
		Field:   field,
		Named:   sn.IsNamed(),
		Missing: sn.IsMissing(),
		Start:   int(sn.StartByte()),
		End:     int(sn.EndByte()),
		Parent:  parent,
		id:      len(t.nodes),
		tree:    t,
	}
	t.nodes = append(t.nodes, n)

	count := sn.ChildCount()
	if count == 0 {
		return n
	}

	fields := childFields(sn)
	n.Children = make([]*Node, 0, int(count))

	for i := range count {
		child := sn.Child(i)
		key := span{int(child.StartByte()), int(child.EndByte()), child.Type()}
		n.Children = append(n.Children, t.build(child, n, fields[key]))
	}

	return n
}

func childFields(sn sitter.Node) map[span]string {
	fields := make(map[span]string)

	for _, name := range fieldNames {
		fc := sn.ChildByFieldName(name)
		if fc.IsNull() {
			continue
		}

		key := span{int(fc.StartByte()), int(fc.EndByte()), fc.Type()}
		if _, seen := fields[key]; !seen {
			fields[key] = name
		}
	}

	return fields
}

func (t *Tree) firstError() *Node {
	var bad *Node

	t.Root.Walk(func(n *Node) bool {
		if bad != nil {
			return false
		}

		if n.Kind == KindError || n.Missing {
			bad = n

			return false
		}

		return true
	})

	return bad
}

func (t *Tree) lineOf(offset int) int {
	return sort.Search(len(t.lineStarts), func(i int) bool { return t.lineStarts[i] > offset })
}

// Node is a tree node. Source nodes reference a byte span of their tree's
// source; synthetic nodes carry their own text and have negative offsets.
type Node struct {
	Kind     string
	Field    string
	Named    bool
	Missing  bool // inserted by error recovery, zero width
	Start    int
	End      int
	Parent   *Node
	Children []*Node

	id   int
	tree *Tree
	text string
	edit *edit
}

// ID returns the arena id of a source node, or -1 for synthetic nodes.
func (n *Node) ID() int {
	if n.tree == nil {
		return -1
	}

	return n.id
}

// Tree returns the owning tree, nil for synthetic nodes.
func (n *Node) Tree() *Tree {
	return n.tree
}

// IsSynthetic reports whether the node was built rather than parsed.
func (n *Node) IsSynthetic() bool {
	return n.tree == nil
}

// Text returns the original source text of the node, ignoring edits.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}

	if n.tree == nil {
		return n.text
	}

	return string(n.tree.Source[n.Start:n.End])
}

// Line returns the 1-based line the node starts on, 0 for synthetic nodes.
func (n *Node) Line() int {
	if n.tree == nil {
		return 0
	}

	return n.tree.lineOf(n.Start)
}

// EndLine returns the 1-based line holding the node's last byte.
func (n *Node) EndLine() int {
	if n.tree == nil {
		return 0
	}

	end := n.End
	if end > n.Start {
		end--
	}

	return n.tree.lineOf(end)
}

// Indentation returns the leading whitespace of the line the node starts on.
func (n *Node) Indentation() string {
	if n.tree == nil {
		return ""
	}

	lineStart := n.tree.lineStarts[n.tree.lineOf(n.Start)-1]
	src := n.tree.Source
	end := lineStart

	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}

	return string(src[lineStart:end])
}

// PrecededByBlankLine reports whether an empty line separates the node from
// the previous sibling.
func (n *Node) PrecededByBlankLine() bool {
	if n.tree == nil || n.Parent == nil {
		return false
	}

	prev := n.PrevSibling()
	if prev == nil {
		return false
	}

	return strings.Count(string(n.tree.Source[prev.End:n.Start]), "\n") > 1
}

// PrevSibling returns the previous child of the parent, named or not.
func (n *Node) PrevSibling() *Node {
	if n.Parent == nil {
		return nil
	}

	for i, c := range n.Parent.Children {
		if c == n {
			if i == 0 {
				return nil
			}

			return n.Parent.Children[i-1]
		}
	}

	return nil
}

// ChildByField returns the first child recorded under the grammar field.
func (n *Node) ChildByField(name string) *Node {
	if n == nil {
		return nil
	}

	for _, c := range n.Children {
		if c.Field == name {
			return c
		}
	}

	return nil
}

// NamedChildren returns the named children, comments included.
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}

	out := make([]*Node, 0, len(n.Children))

	for _, c := range n.Children {
		if c.Named {
			out = append(out, c)
		}
	}

	return out
}

// FirstNamedChild returns the first named child that is not a comment.
func (n *Node) FirstNamedChild() *Node {
	if n == nil {
		return nil
	}

	for _, c := range n.Children {
		if c.Named && c.Kind != KindComment {
			return c
		}
	}

	return nil
}

// ChildOfKind returns the first direct child of any of the kinds.
func (n *Node) ChildOfKind(kinds ...string) *Node {
	if n == nil {
		return nil
	}

	for _, c := range n.Children {
		for _, k := range kinds {
			if c.Kind == k {
				return c
			}
		}
	}

	return nil
}

// ChildrenOfKind returns every direct child of the kind.
func (n *Node) ChildrenOfKind(kind string) []*Node {
	if n == nil {
		return nil
	}

	var out []*Node

	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}

	return out
}

// HasToken reports whether an anonymous child with the given text exists
// before the node's name field. Used for keywords like async, get and static.
func (n *Node) HasToken(token string) bool {
	if n == nil {
		return false
	}

	for _, c := range n.Children {
		if c.Field == "name" || c.Field == "parameters" || c.Field == "body" {
			return false
		}

		if !c.Named && c.Kind == token {
			return true
		}
	}

	return false
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node of the kind in depth-first order.
func (n *Node) Find(kind string) *Node {
	var found *Node

	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}

		if c.Kind == kind {
			found = c

			return false
		}

		return true
	})

	return found
}

// FindAll returns every node of the kind in depth-first order.
func (n *Node) FindAll(kind string) []*Node {
	var out []*Node

	n.Walk(func(c *Node) bool {
		if c.Kind == kind {
			out = append(out, c)
		}

		return true
	})

	return out
}
