// Package synth renders a component model back into a behavior block in a
// target authoring style and reassembles the document around it.
package synth

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/esimport"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
	"github.com/Sumatoshi-tech/sfcshift/pkg/sfc"
)

// DefaultIndent is the indentation unit of generated code.
const DefaultIndent = "    "

// Synthesizer renders a model as a behavior-block tree. Implementations
// never mutate the model; their output is a synthetic node over it.
type Synthesizer interface {
	Style() component.Style
	// Dialect is the language the output is written in.
	Dialect() jsast.Dialect
	Synthesize(m *component.Model) (*jsast.Node, error)
}

// Options tunes the generated layout.
type Options struct {
	Indent string
}

func (o Options) indent() string {
	if o.Indent == "" {
		return DefaultIndent
	}

	return o.Indent
}

// New returns the synthesizer for a style.
func New(style component.Style, opts Options) (Synthesizer, error) {
	switch style {
	case component.ObjectStyle:
		return Object{Options: opts}, nil
	case component.ClassStyle:
		return Class{Options: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", component.ErrUnknownStyle, style)
	}
}

// PrintOptions returns the print options matching the synthesizer's dialect.
func PrintOptions(s Synthesizer) jsast.PrintOptions {
	return jsast.PrintOptions{StripTypes: s.Dialect() == jsast.DialectJS}
}

// Render synthesizes and prints the behavior block content.
func Render(m *component.Model, s Synthesizer) (string, error) {
	n, err := s.Synthesize(m)
	if err != nil {
		return "", err
	}

	return jsast.Print(n, PrintOptions(s)), nil
}

// Assemble renders the model and lays out the document as markup blocks,
// the behavior block tagged with the target lang, then style blocks.
func Assemble(m *component.Model, s Synthesizer) (string, error) {
	code, err := Render(m, s)
	if err != nil {
		return "", err
	}

	var behavior sfc.Block
	if b, ok := sfc.Find(m.Blocks, sfc.Behavior); ok {
		behavior = b
	}

	behavior.Type = sfc.Behavior
	behavior = behavior.WithAttr("lang", s.Dialect().Lang())
	behavior.Content = strings.TrimRight(code, "\n")

	blocks := make([]sfc.Block, 0, len(m.Blocks)+1)

	for _, b := range m.Blocks {
		if b.Type == sfc.Behavior {
			continue
		}

		b.Content = b.Body()
		blocks = append(blocks, b)
	}

	blocks = append(blocks, behavior)

	return sfc.Format(sfc.Order(blocks)), nil
}

func checkModel(m *component.Model) error {
	if m == nil || m.Name() == "" {
		return fmt.Errorf("%w: %s", component.ErrMissingRequiredField, component.OptName)
	}

	return nil
}

// writer wraps a builder with the member emitters shared by both styles.
type writer struct {
	*jsast.Builder
	strip bool
}

func newWriter(opts Options, strip bool) *writer {
	return &writer{Builder: jsast.NewBuilder(opts.indent()), strip: strip}
}

func (w *writer) comments(cs []*jsast.Node) {
	for _, c := range cs {
		w.Node(c).Line()
	}
}

func (w *writer) trailing(cs []*jsast.Node) {
	for _, c := range cs {
		w.Text(" ").Node(c)
	}
}

// statements writes top-level statements, keeping blank lines between them.
func (w *writer) statements(nodes []*jsast.Node) {
	for i, n := range nodes {
		if i > 0 && n.PrecededByBlankLine() {
			w.BlankLine()
		}

		w.Node(n).Line()
	}
}

// header writes the imports and other statements, then a separating blank
// line.
func (w *writer) header(list []*esimport.Import, other []*jsast.Node) {
	esimport.Write(w.Builder, list, jsast.PrintOptions{StripTypes: w.strip})

	if len(list) > 0 {
		w.BlankLine()
	}

	w.statements(other)
	w.BlankLine()
}

// flags writes the async and generator markers of fn for method syntax.
func (w *writer) flags(fn *jsast.Node) {
	if jsast.IsAsync(fn) {
		w.Text("async ")
	}

	if jsast.IsGenerator(fn) {
		w.Text("*")
	}
}

// params writes the parenthesized parameter list of fn.
func (w *writer) params(fn *jsast.Node) {
	p := jsast.ParamsNode(fn)

	switch {
	case p == nil:
		w.Text("()")
	case p.Kind == jsast.KindFormalParameters:
		w.Node(p)
	default:
		text := p.Text()
		if ann := p.TypeAnnotation(); ann != "" && !w.strip {
			text += ": " + ann
		}

		w.Text("(" + text + ")")
	}
}

// body writes the block body of fn. Expression bodies become a return.
func (w *writer) body(fn *jsast.Node) {
	body := jsast.Body(fn)

	switch {
	case body == nil:
		w.Text("{}")
	case body.Kind == jsast.KindStatementBlock:
		w.Node(body)
	default:
		w.Text("{").Line().Indent()
		w.Text("return ").Node(jsast.Unparen(body)).Text(";").Line()
		w.Dedent().Text("}")
	}
}

// method writes `prefix [async ]accessor name(params) body` in method
// syntax. accessor is "get ", "set " or empty.
func (w *writer) method(prefix, accessor, name string, fn *jsast.Node) {
	w.Text(prefix)
	w.flags(fn)
	w.Text(accessor + name)

	if accessor == "get " {
		w.Text("()")
	} else {
		w.params(fn)
	}

	w.Text(" ")
	w.body(fn)
}

// function writes fn as an unnamed function expression.
func (w *writer) function(fn *jsast.Node) {
	if jsast.IsAsync(fn) {
		w.Text("async ")
	}

	w.Text("function")

	if jsast.IsGenerator(fn) {
		w.Text("*")
	}

	w.Text(" ")
	w.params(fn)
	w.Text(" ")
	w.body(fn)
}

// list writes nodes separated by ", ".
func (w *writer) list(nodes []*jsast.Node) {
	for i, n := range nodes {
		if i > 0 {
			w.Text(", ")
		}

		w.Node(n)
	}
}
