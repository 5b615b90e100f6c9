package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 190.0

// WritePDF renders the table as a single A4 portrait document with the
// title centered above the grid and a generation timestamp below it.
func WritePDF(t Table) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("pdf requires at least one column")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if t.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, t.Title, "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	colWidth := pageWidth / float64(len(t.Columns))
	pdf.SetFont("Arial", "B", 10)
	for _, col := range t.Columns {
		pdf.CellFormat(colWidth, 8, col, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range t.Rows {
		for i := range t.Columns {
			pdf.CellFormat(colWidth, 7, t.cell(row, i), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 8)
	stamp := time.Now().Format("02/01/2006 15:04")
	pdf.CellFormat(0, 6, fmt.Sprintf("Genere le %s", stamp), "", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
