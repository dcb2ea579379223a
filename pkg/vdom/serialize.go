package vdom

import "strings"

// SerializeOptions controls Serialize output.
type SerializeOptions struct {
	// Pretty puts every node on its own line, indented by indentUnit per
	// nesting level. The default is the dense form.
	Pretty bool
}

const indentUnit = "  "

// Serialize renders a tree as markup. Text is written verbatim; a
// childless element is written self-closing.
func Serialize(n *Node, opts SerializeOptions) string {
	var sb strings.Builder
	write(&sb, n, opts, 0)
	return sb.String()
}

// SerializeAll renders a sequence of sibling nodes.
func SerializeAll(nodes []*Node, opts SerializeOptions) string {
	var sb strings.Builder
	for _, n := range nodes {
		write(&sb, n, opts, 0)
	}
	return sb.String()
}

func write(sb *strings.Builder, n *Node, opts SerializeOptions, depth int) {
	if opts.Pretty {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Repeat(indentUnit, depth))
	}

	if n.Kind == TextNode {
		sb.WriteString(n.Text)
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.Tag)
	for _, a := range n.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(strings.ReplaceAll(a.Value, `"`, "&quot;"))
		sb.WriteByte('"')
	}
	if len(n.Children) == 0 {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
	for _, c := range n.Children {
		write(sb, c, opts, depth+1)
	}
	if opts.Pretty {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(indentUnit, depth))
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}
