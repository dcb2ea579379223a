// Package strip reduces a document tree to the structure and attributes
// that carry meaning for a reader, dropping presentational wrappers,
// hidden elements and non-content tags.
package strip

import (
	"regexp"
	"strings"

	"github.com/dgallion1/htmlpack/pkg/vdom"
)

// IrrelevantContentTags are removed together with everything inside them.
var IrrelevantContentTags = map[string]bool{
	"script":   true,
	"noscript": true,
	"style":    true,
	"link":     true,
}

// RelevantTags are kept as elements. Any other element is dropped but its
// stripped children are spliced into the parent in its place.
var RelevantTags = map[string]bool{
	// Document.
	"main": true, "section": true, "p": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "footer": true, "nav": true, "caption": true, "a": true,

	// Lists.
	"ul": true, "ol": true, "li": true,

	// Tables.
	"table": true, "tr": true, "td": true, "th": true,
	"tbody": true, "thead": true, "tfoot": true,

	// Forms.
	"form": true, "button": true, "details": true, "input": true,
	"label": true, "select": true, "textarea": true, "title": true,

	"html": true, "head": true, "body": true,
}

// RelevantAttributes are the attributes kept on relevant elements.
var RelevantAttributes = map[string]bool{
	"id":          true,
	"aria-role":   true,
	"aria-label":  true,
	"value":       true,
	"name":        true,
	"type":        true,
	"placeholder": true,
	"href":        true,
	"src":         true,
	"alt":         true,
	"title":       true,
	"for":         true,
	"rel":         true,
	"target":      true,
	"tabindex":    true,
}

const embeddedDataPrefix = "data:"

var whitespaceRe = regexp.MustCompile(`\s+`)

// Strip returns the stripped form of n. The result may be empty, a single
// node, or several siblings when n itself was a transparent wrapper.
func Strip(n *vdom.Node) []*vdom.Node {
	return dropWhitespace(stripNode(n))
}

func stripNode(n *vdom.Node) []*vdom.Node {
	if n.IsText() {
		return stripText(n.Text)
	}
	return stripElement(n)
}

func stripText(text string) []*vdom.Node {
	text = whitespaceRe.ReplaceAllString(text, " ")
	if text == "" {
		return nil
	}
	return []*vdom.Node{vdom.Text(text)}
}

func stripElement(el *vdom.Node) []*vdom.Node {
	if IrrelevantContentTags[el.Tag] || isHidden(el) {
		return nil
	}

	var children []*vdom.Node
	for _, c := range el.Children {
		children = append(children, stripNode(c)...)
	}
	children = dropWhitespace(mergeText(children))

	if !RelevantTags[el.Tag] {
		return children
	}
	return []*vdom.Node{vdom.Element(el.Tag, stripAttributes(el.Attrs), children...)}
}

func isHidden(el *vdom.Node) bool {
	if v, ok := el.Attr("hidden"); ok && v != "false" {
		return true
	}
	if v, _ := el.Attr("aria-hidden"); v == "true" {
		return true
	}
	if v, _ := el.Attr("aria-disabled"); v == "true" {
		return true
	}
	if _, ok := el.Attr("disabled"); ok {
		return true
	}
	if v, _ := el.Attr("type"); v == "hidden" {
		return true
	}
	return false
}

func stripAttributes(attrs []vdom.Attr) []vdom.Attr {
	var kept []vdom.Attr
	for _, a := range attrs {
		if RelevantAttributes[a.Name] && !strings.HasPrefix(a.Value, embeddedDataPrefix) {
			kept = append(kept, a)
		}
	}
	return kept
}

// mergeText joins runs of adjacent text nodes into one.
func mergeText(nodes []*vdom.Node) []*vdom.Node {
	var result []*vdom.Node
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			result = append(result, vdom.Text(whitespaceRe.ReplaceAllString(text.String(), " ")))
			text.Reset()
		}
	}
	for _, n := range nodes {
		if n.IsText() {
			text.WriteString(n.Text)
			continue
		}
		flush()
		result = append(result, n)
	}
	flush()
	return result
}

func dropWhitespace(nodes []*vdom.Node) []*vdom.Node {
	var kept []*vdom.Node
	for _, n := range nodes {
		if n.IsText() && strings.TrimSpace(n.Text) == "" {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}
