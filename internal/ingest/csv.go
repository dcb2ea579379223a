package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/htmlpack/pkg/vdom"
)

// CSVConverter handles CSV files. The first record is the header row.
type CSVConverter struct{}

func (c *CSVConverter) Convert(r io.Reader, filename string) (*vdom.Node, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	title := titleFromFilename(filename)
	if len(records) == 0 {
		return document(title), nil
	}

	header := make([]*vdom.Node, 0, len(records[0]))
	for _, cell := range records[0] {
		header = append(header, element("th", cell))
	}

	rows := make([]*vdom.Node, 0, len(records)-1)
	for _, record := range records[1:] {
		cells := make([]*vdom.Node, 0, len(record))
		for _, cell := range record {
			cells = append(cells, element("td", cell))
		}
		rows = append(rows, vdom.Element("tr", nil, cells...))
	}

	table := vdom.Element("table", nil,
		element("caption", title),
		vdom.Element("thead", nil, vdom.Element("tr", nil, header...)),
		vdom.Element("tbody", nil, rows...),
	)
	return document(title, table), nil
}
