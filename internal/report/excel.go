package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/glhrmbg/ctdose/internal/model"
)

// sheetName is the single worksheet all records land on.
const sheetName = "Dose Records"

// ExcelWriter outputs records as a spreadsheet: a styled header row plus
// one row per irradiation event. This is the primary output format; the
// dose registries this tool feeds are spreadsheet-driven.
//
// Design decision: We use the excelize library rather than emitting CSV
// because the downstream consumers open the file directly in Excel, and
// the styled, column-sized layout is part of the deliverable.
type ExcelWriter struct {
	baseWriter

	file *excelize.File
	row  int
}

// NewExcelWriter creates an ExcelWriter. The workbook bytes are produced
// on Flush.
func NewExcelWriter(output io.Writer) (*ExcelWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("report: rename sheet: %w", err)
	}

	w := &ExcelWriter{
		baseWriter: newBaseWriter(output),
		file:       f,
		row:        1,
	}
	if err := w.writeHeader(); err != nil {
		return nil, err
	}
	return w, nil
}

// writeHeader writes the styled column header row and sets column widths.
func (w *ExcelWriter) writeHeader() error {
	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E8F4FD"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "9BC2E6", Style: 2},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("report: header style: %w", err)
	}

	for i, name := range model.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("report: header cell: %w", err)
		}
		if err := w.file.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("report: header cell %s: %w", cell, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(model.Columns), 1)
	if err != nil {
		return fmt.Errorf("report: header range: %w", err)
	}
	if err := w.file.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return fmt.Errorf("report: header style range: %w", err)
	}

	// Wide columns for names and protocols, narrow ones for measurements.
	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 14},
		{"B", "B", 24},
		{"C", "E", 10},
		{"F", "F", 26},
		{"G", "G", 22},
		{"H", "H", 26},
		{"I", "I", 20},
		{"J", "Q", 13},
	}
	for _, cw := range widths {
		if err := w.file.SetColWidth(sheetName, cw.from, cw.to, cw.width); err != nil {
			return fmt.Errorf("report: column width: %w", err)
		}
	}
	w.row = 1
	return nil
}

// Write appends one row per irradiation event of the record. Numeric
// values are written as numbers so spreadsheet formulas work on them;
// values carrying a unit and all text render as strings, with missing
// values as the "-" placeholder.
func (w *ExcelWriter) Write(record *model.ConsolidatedRecord) (int, error) {
	for _, row := range record.Rows() {
		w.row++
		for i, v := range row {
			cell, err := excelize.CoordinatesToCellName(i+1, w.row)
			if err != nil {
				return 0, fmt.Errorf("report: cell name: %w", err)
			}
			if err := w.file.SetCellValue(sheetName, cell, cellValue(v)); err != nil {
				return 0, fmt.Errorf("report: cell %s: %w", cell, err)
			}
		}
	}
	return 0, nil
}

// cellValue picks the spreadsheet representation of a value.
func cellValue(v model.Value) any {
	if f, ok := v.Float(); ok && v.Unit() == "" {
		return f
	}
	return v.Render(missingCell)
}

// Flush writes the workbook to the configured output.
func (w *ExcelWriter) Flush() (int, error) {
	n, err := w.file.WriteTo(w.output)
	if err != nil {
		return int(n), fmt.Errorf("report: write workbook: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return int(n), fmt.Errorf("report: close workbook: %w", err)
	}
	return int(n), nil
}
