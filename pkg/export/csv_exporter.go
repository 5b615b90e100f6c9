// Package export renders tabular planning data as CSV or PDF documents.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Table is an ordered tabular document. Rows shorter than Columns are padded
// with empty cells, longer rows are truncated.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

func (t Table) cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// WriteCSV encodes the table as CSV, header line first.
func WriteCSV(t Table) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("csv requires at least one column")
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range t.Columns {
			record[i] = t.cell(row, i)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
