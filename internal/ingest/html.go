package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/htmlpack/pkg/vdom"
)

// markupSpace is the whitespace class of the markup tokenizer, which
// drops whitespace-only runs between tags.
const markupSpace = "\t\n\f\r "

var (
	tagNameRe  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	attrNameRe = regexp.MustCompile(`^[a-zA-Z_:][-a-zA-Z0-9_:.]*$`)
)

// HTMLConverter handles HTML files. Malformed input is repaired the way a
// browser would; comments and doctypes are dropped.
type HTMLConverter struct{}

func (c *HTMLConverter) Convert(r io.Reader, filename string) (*vdom.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.Data == "html" {
			return convertElement(n), nil
		}
	}
	return document(titleFromFilename(filename)), nil
}

// convertNodes converts an x/net/html sibling list. Elements whose names
// the markup parser cannot read are replaced by their children.
func convertNodes(first *html.Node) []*vdom.Node {
	var out []*vdom.Node
	for n := first; n != nil; n = n.NextSibling {
		switch n.Type {
		case html.TextNode:
			if strings.Trim(n.Data, markupSpace) != "" {
				out = append(out, vdom.Text(escape(n.Data)))
			}
		case html.ElementNode:
			if !tagNameRe.MatchString(n.Data) {
				out = append(out, convertNodes(n.FirstChild)...)
				continue
			}
			out = append(out, convertElement(n))
		}
	}
	return out
}

func convertElement(n *html.Node) *vdom.Node {
	var attrs []vdom.Attr
	seen := make(map[string]bool, len(n.Attr))
	for _, a := range n.Attr {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		if !attrNameRe.MatchString(name) || seen[name] {
			continue
		}
		seen[name] = true
		attrs = append(attrs, vdom.Attr{Name: name, Value: escape(a.Val)})
	}
	return vdom.Element(strings.ToLower(n.Data), attrs, convertNodes(n.FirstChild)...)
}

// escape encodes the characters the markup parser treats as syntax.
func escape(s string) string {
	return html.EscapeString(s)
}
