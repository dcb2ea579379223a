package ingest

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/htmlpack/pkg/vdom"
)

// PDFConverter handles PDF files. Each page with text becomes a section
// headed by its page number. It tries the Go library first, then falls
// back to pdftotext if enabled.
type PDFConverter struct {
	FallbackPdftotext bool
}

func (c *PDFConverter) Convert(r io.Reader, filename string) (*vdom.Node, error) {
	// ledongthuc/pdf opens by path, so write to a temp file.
	tmp, err := os.CreateTemp("", "htmlpack-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && c.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return document(titleFromFilename(filename), pageSections(text)...), nil
}

// pageSections splits form-feed separated page text into sections.
func pageSections(text string) []*vdom.Node {
	var sections []*vdom.Node
	for i, page := range strings.Split(text, "\f") {
		var content []*vdom.Node
		for _, para := range splitParagraphs(page) {
			content = append(content, element("p", para))
		}
		if len(content) == 0 {
			continue
		}
		heading := element("h2", fmt.Sprintf("Page %d", i+1))
		sections = append(sections, vdom.Element("section", nil, append([]*vdom.Node{heading}, content...)...))
	}
	return sections
}

func splitParagraphs(text string) []string {
	var paras []string
	for _, block := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			paras = append(paras, block)
		}
	}
	return paras
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if i > 1 {
			buf.WriteString("\f")
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
