// Package ingest converts real-world files into document trees. Every
// converter escapes text and attribute values, so the serialized output
// of any converter is accepted by the strict markup parser.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/htmlpack/pkg/vdom"
)

// Converter turns raw document bytes into a document tree.
type Converter interface {
	Convert(r io.Reader, filename string) (*vdom.Node, error)
}

// supportedExtensions lists file extensions this service can handle.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the converter for a filename.
func ForFile(filename string) (Converter, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextConverter{}, nil
	case ".md", ".markdown":
		return &MarkdownConverter{}, nil
	case ".csv":
		return &CSVConverter{}, nil
	case ".html", ".htm":
		return &HTMLConverter{}, nil
	case ".pdf":
		return &PDFConverter{}, nil
	case ".docx":
		return &DOCXConverter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension %q (supported: %s)", ext, strings.Join(SupportedExtensions(), ", "))
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SupportedExtensions returns the supported extensions in sorted order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// document wraps body content in html/head/title/body.
func document(title string, body ...*vdom.Node) *vdom.Node {
	var head []*vdom.Node
	if title != "" {
		head = append(head, vdom.Element("title", nil, vdom.Text(escape(title))))
	}
	return vdom.Element("html", nil,
		vdom.Element("head", nil, head...),
		vdom.Element("body", nil, body...),
	)
}

// element builds an element holding a single escaped text child, or no
// children when text is blank.
func element(tag, text string) *vdom.Node {
	text = strings.TrimSpace(text)
	if text == "" {
		return vdom.Element(tag, nil)
	}
	return vdom.Element(tag, nil, vdom.Text(escape(text)))
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
