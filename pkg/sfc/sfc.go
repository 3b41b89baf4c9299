// Package sfc splits single-file component documents into typed blocks and
// reassembles them.
package sfc

import (
	"regexp"
	"strings"
)

// BlockType identifies a document region by its tag name.
type BlockType string

// Block types.
const (
	Markup   BlockType = "template"
	Behavior BlockType = "script"
	Style    BlockType = "style"
)

// Attr is one key="value" pair of an opening marker.
type Attr struct {
	Key   string `json:"key"   yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Block is one top-level region of a document.
type Block struct {
	Type    BlockType `json:"type"    yaml:"type"`
	Attrs   []Attr    `json:"attrs"   yaml:"attrs"`
	Content string    `json:"content" yaml:"content"`
}

// Attr returns the value of the named attribute.
func (b Block) Attr(key string) (string, bool) {
	for _, a := range b.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return "", false
}

// Lang returns the lang attribute, or the empty string.
func (b Block) Lang() string {
	lang, _ := b.Attr("lang")

	return lang
}

// Body returns the content without the single line break following the
// opening marker and the one preceding the closing marker. Format adds both
// back.
func (b Block) Body() string {
	body, ok := strings.CutPrefix(b.Content, "\r\n")
	if !ok {
		body = strings.TrimPrefix(body, "\n")
	}

	if trimmed, ok := strings.CutSuffix(body, "\r\n"); ok {
		return trimmed
	}

	return strings.TrimSuffix(body, "\n")
}

// WithAttr returns a copy of b with key set to value, replacing an existing
// entry in place or appending a new one.
func (b Block) WithAttr(key, value string) Block {
	attrs := make([]Attr, 0, len(b.Attrs)+1)
	found := false

	for _, a := range b.Attrs {
		if a.Key == key {
			a.Value = value
			found = true
		}

		attrs = append(attrs, a)
	}

	if !found {
		attrs = append(attrs, Attr{Key: key, Value: value})
	}

	b.Attrs = attrs

	return b
}

var (
	openMarker  = regexp.MustCompile(`<(template|script|style)((?:\s(?:[^>"']|"[^"]*"|'[^']*')*)?)>`)
	closeMarker = regexp.MustCompile(`</(template|script|style)\s*>`)
	attrToken   = regexp.MustCompile(`^([A-Za-z_:@.#-][\w:@.#-]*)=(?:"([^"]*)"|'([^']*)')$`)
)

// ParseAttrs splits marker text on whitespace and keeps key="value" and
// key='value' tokens in order.
func ParseAttrs(text string) []Attr {
	var attrs []Attr

	for _, token := range strings.Fields(text) {
		m := attrToken.FindStringSubmatch(token)
		if m == nil {
			continue
		}

		value := m[2]
		if strings.HasPrefix(token[len(m[1])+1:], "'") {
			value = m[3]
		}

		attrs = append(attrs, Attr{Key: m[1], Value: value})
	}

	return attrs
}

// Format renders blocks as <type attrs>\ncontent\n</type>\n in order. Values
// holding a double quote are written single-quoted.
func Format(blocks []Block) string {
	var sb strings.Builder

	for _, b := range blocks {
		sb.WriteString("<")
		sb.WriteString(string(b.Type))

		for _, a := range b.Attrs {
			quote := `"`
			if strings.Contains(a.Value, `"`) {
				quote = `'`
			}

			sb.WriteString(" ")
			sb.WriteString(a.Key)
			sb.WriteString("=")
			sb.WriteString(quote)
			sb.WriteString(a.Value)
			sb.WriteString(quote)
		}

		sb.WriteString(">\n")
		sb.WriteString(b.Content)
		sb.WriteString("\n</")
		sb.WriteString(string(b.Type))
		sb.WriteString(">\n")
	}

	return sb.String()
}

// Find returns the first block of the type.
func Find(blocks []Block, t BlockType) (Block, bool) {
	for _, b := range blocks {
		if b.Type == t {
			return b, true
		}
	}

	return Block{}, false
}

// Order returns blocks arranged markup first, then behavior, then style,
// keeping source order within each type.
func Order(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))

	for _, t := range []BlockType{Markup, Behavior, Style} {
		for _, b := range blocks {
			if b.Type == t {
				out = append(out, b)
			}
		}
	}

	return out
}
