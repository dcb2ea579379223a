package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/htmlpack/pkg/vdom"
)

// TextConverter handles plain text files. Blank lines separate
// paragraphs; each paragraph becomes a p element.
type TextConverter struct{}

func (c *TextConverter) Convert(r io.Reader, filename string) (*vdom.Node, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	body := make([]*vdom.Node, 0, len(paragraphs))
	for _, para := range paragraphs {
		body = append(body, element("p", para))
	}
	return document(titleFromFilename(filename), body...), nil
}
