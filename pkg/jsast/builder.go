package jsast

import (
	"fmt"
	"strings"
)

// Builder assembles a synthetic node line by line. Retained source nodes are
// rebased onto the builder's current indentation.
type Builder struct {
	unit        string
	depth       int
	parts       []*Node
	atLineStart bool
	blankLine   bool
	empty       bool
}

// NewBuilder returns a builder indenting with unit per nesting level.
func NewBuilder(unit string) *Builder {
	return &Builder{unit: unit, atLineStart: true, empty: true}
}

func (b *Builder) indent() string {
	return strings.Repeat(b.unit, b.depth)
}

func (b *Builder) startLine() {
	if !b.atLineStart {
		return
	}

	if b.depth > 0 {
		b.parts = append(b.parts, Raw(b.indent()))
	}

	b.atLineStart = false
	b.blankLine = false
	b.empty = false
}

// Text writes literal text on the current line.
func (b *Builder) Text(s string) *Builder {
	if s == "" {
		return b
	}

	b.startLine()
	b.parts = append(b.parts, Raw(s))

	return b
}

// Textf writes formatted literal text on the current line.
func (b *Builder) Textf(format string, args ...any) *Builder {
	return b.Text(fmt.Sprintf(format, args...))
}

// Node writes n on the current line, rebasing its continuation lines.
func (b *Builder) Node(n *Node) *Builder {
	if n == nil {
		return b
	}

	b.startLine()
	b.parts = append(b.parts, Indented(n, b.indent()))

	return b
}

// Line ends the current line.
func (b *Builder) Line() *Builder {
	b.blankLine = b.atLineStart && !b.empty
	b.parts = append(b.parts, Raw("\n"))
	b.atLineStart = true

	return b
}

// BlankLine ends the current line if needed and ensures one empty line
// follows, unless nothing was written yet.
func (b *Builder) BlankLine() *Builder {
	if !b.atLineStart {
		b.Line()
	}

	if b.empty || b.blankLine {
		return b
	}

	b.parts = append(b.parts, Raw("\n"))
	b.blankLine = true

	return b
}

// Indent increases the nesting level for following lines.
func (b *Builder) Indent() *Builder {
	b.depth++

	return b
}

// Dedent decreases the nesting level for following lines.
func (b *Builder) Dedent() *Builder {
	if b.depth > 0 {
		b.depth--
	}

	return b
}

// Build returns the assembled synthetic node.
func (b *Builder) Build() *Node {
	return Group(b.parts...)
}

// String prints the assembled node.
func (b *Builder) String(opts PrintOptions) string {
	return Print(b.Build(), opts)
}
