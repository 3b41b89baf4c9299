package jsast

// edit holds the localized changes recorded on a node. Source bytes are never
// modified; the printer applies edits while splicing.
type edit struct {
	replace    *string
	suffix     string
	annotation string
	removed    bool
}

func (n *Node) mutable() *edit {
	if n.edit == nil {
		n.edit = &edit{}
	}

	return n.edit
}

// Replace substitutes text for the node's printed form.
func (n *Node) Replace(text string) {
	n.mutable().replace = &text
}

// Append adds text after the node's printed form.
func (n *Node) Append(text string) {
	e := n.mutable()
	e.suffix += text
}

// Remove drops the node and the whitespace before it from printed output.
func (n *Node) Remove() {
	n.mutable().removed = true
}

// Removed reports whether Remove was called.
func (n *Node) Removed() bool {
	return n.edit != nil && n.edit.removed
}

// Edited reports whether any edit was recorded on the node itself.
func (n *Node) Edited() bool {
	return n.edit != nil
}

// SetTypeAnnotation records a type printed as ": t" after the node when the
// output keeps types.
func (n *Node) SetTypeAnnotation(t string) {
	n.mutable().annotation = t
}

// TypeAnnotation returns the annotation recorded by SetTypeAnnotation.
func (n *Node) TypeAnnotation() string {
	if n.edit == nil {
		return ""
	}

	return n.edit.annotation
}

// HasTypeAnnotation reports whether the node carries a parsed or recorded
// type annotation.
func (n *Node) HasTypeAnnotation() bool {
	if n.TypeAnnotation() != "" {
		return true
	}

	if n.ChildOfKind(KindTypeAnnotation) != nil {
		return true
	}

	if n.Parent != nil && (n.Parent.Kind == KindRequiredParameter || n.Parent.Kind == KindOptionalParameter) {
		return n.Parent.ChildOfKind(KindTypeAnnotation) != nil
	}

	return false
}
