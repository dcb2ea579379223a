// Package vdom is the document tree model: a small immutable node type,
// a strict tokenizer and stack-based parser for well-formed markup, and a
// serializer that is the parser's inverse.
package vdom

// Kind distinguishes the two node variants.
type Kind uint8

const (
	TextNode Kind = iota
	ElementNode
)

// Attr is a single attribute of an element.
type Attr struct {
	Name  string
	Value string
}

// Node is either a text leaf or an element with a tag, attributes and
// ordered children. Nodes are never mutated after construction, so
// derived trees share untouched subtrees with their source.
type Node struct {
	Kind     Kind
	Text     string  // TextNode payload
	Tag      string  // ElementNode tag name; "" for a synthetic fragment root
	Attrs    []Attr  // ElementNode attributes, unique names
	Children []*Node // ElementNode children in document order
}

// Text returns a text node.
func Text(s string) *Node {
	return &Node{Kind: TextNode, Text: s}
}

// Element returns an element node.
func Element(tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Tag: tag, Attrs: attrs, Children: children}
}

func (n *Node) IsText() bool    { return n.Kind == TextNode }
func (n *Node) IsElement() bool { return n.Kind == ElementNode }

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// WithChildren returns a copy of an element with its children replaced.
// Tag and attributes are shared with n.
func (n *Node) WithChildren(children []*Node) *Node {
	return &Node{Kind: ElementNode, Tag: n.Tag, Attrs: n.Attrs, Children: children}
}

// Equal reports whether two trees are structurally identical. Attribute
// order is not significant; child order is.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	if a.Kind == TextNode {
		return a.Text == b.Text
	}
	if a.Tag != b.Tag || len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for _, attr := range a.Attrs {
		v, ok := b.Attr(attr.Name)
		if !ok || v != attr.Value {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
