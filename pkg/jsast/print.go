package jsast

import (
	"bytes"
	"strings"
)

// Synthetic node kinds.
const (
	KindRaw      = "#raw"
	KindGroup    = "#group"
	KindReindent = "#reindent"
)

// PrintOptions controls printing.
type PrintOptions struct {
	// StripTypes drops TypeScript-only syntax and recorded annotations.
	StripTypes bool
}

// Print renders n, applying recorded edits. Untouched source spans are
// copied byte for byte.
func Print(n *Node, opts PrintOptions) string {
	p := printer{opts: opts}
	p.print(n)

	return p.buf.String()
}

type printer struct {
	buf  bytes.Buffer
	opts PrintOptions
}

func (p *printer) dropped(n *Node) bool {
	if n.Removed() {
		return true
	}

	return p.opts.StripTypes && n.tree != nil && typeOnlyKinds[n.Kind]
}

func (p *printer) print(n *Node) {
	if n == nil || n.Removed() {
		return
	}

	switch n.Kind {
	case KindReindent:
		if len(n.Children) == 0 {
			return
		}

		inner := n.Children[0]
		p.buf.WriteString(Reindent(Print(inner, p.opts), inner.Indentation(), n.text))

		return
	case KindRaw, KindGroup:
		p.buf.WriteString(n.text)

		for _, c := range n.Children {
			p.print(c)
		}

		return
	}

	start := p.buf.Len()

	switch {
	case n.edit != nil && n.edit.replace != nil:
		p.buf.WriteString(*n.edit.replace)
	case p.opts.StripTypes && unwrapKinds[n.Kind]:
		p.print(n.FirstNamedChild())
	default:
		p.splice(n)
	}

	if n.edit == nil {
		return
	}

	if n.edit.annotation != "" && !p.opts.StripTypes {
		p.buf.WriteString(": " + n.edit.annotation)

		if n.Field == "parameter" && n.Parent != nil && n.Parent.Kind == KindArrowFunction {
			text := append([]byte(nil), p.buf.Bytes()[start:]...)
			p.buf.Truncate(start)
			p.buf.WriteByte('(')
			p.buf.Write(text)
			p.buf.WriteByte(')')
		}
	}

	p.buf.WriteString(n.edit.suffix)
}

func (p *printer) splice(n *Node) {
	src := n.tree.Source
	if len(n.Children) == 0 {
		p.buf.Write(src[n.Start:n.End])

		return
	}

	pos := n.Start
	printed := false
	skipGap := false

	for _, c := range n.Children {
		if p.dropped(c) {
			if !printed {
				skipGap = true
			}

			pos = c.End

			continue
		}

		if skipGap {
			skipGap = false
		} else {
			p.buf.Write(src[pos:c.Start])
		}

		p.print(c)
		printed = true
		pos = c.End
	}

	p.buf.Write(src[pos:n.End])
}

// Reindent rebases every line after the first from one indentation prefix to
// another. Blank lines are emptied; lines not carrying the prefix are kept.
func Reindent(text, from, to string) string {
	if from == to || !strings.Contains(text, "\n") {
		return text
	}

	lines := strings.Split(text, "\n")

	for i := 1; i < len(lines); i++ {
		line := lines[i]

		switch {
		case strings.TrimSpace(line) == "":
			lines[i] = ""
		case strings.HasPrefix(line, from):
			lines[i] = to + line[len(from):]
		}
	}

	return strings.Join(lines, "\n")
}

// Raw returns a synthetic node printing text.
func Raw(text string) *Node {
	return &Node{Kind: KindRaw, Start: -1, End: -1, text: text}
}

// Group returns a synthetic node printing its children in order.
func Group(children ...*Node) *Node {
	return &Node{Kind: KindGroup, Start: -1, End: -1, Children: children}
}

// Indented wraps n so that its continuation lines are rebased onto indent.
func Indented(n *Node, indent string) *Node {
	return &Node{Kind: KindReindent, Start: -1, End: -1, text: indent, Children: []*Node{n}}
}
