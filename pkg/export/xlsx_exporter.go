package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	dataSheet    = "Data"
	summarySheet = "Summary"
)

// XLSXExporter renders datasets into an Excel workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render writes the table to a "Data" sheet and summary lines to a "Summary" sheet.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, h := range data.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(dataSheet, cell, h); err != nil {
			return nil, fmt.Errorf("write xlsx header: %w", err)
		}
		if err := f.SetCellStyle(dataSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style xlsx header: %w", err)
		}
	}
	for r, row := range data.Rows {
		for i, h := range data.Headers {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(dataSheet, cell, row[h]); err != nil {
				return nil, fmt.Errorf("write xlsx row: %w", err)
			}
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(data.Headers))
	_ = f.SetColWidth(dataSheet, "A", lastCol, 18)

	if len(data.Summary) > 0 || data.Title != "" {
		if _, err := f.NewSheet(summarySheet); err != nil {
			return nil, fmt.Errorf("create summary sheet: %w", err)
		}
		row := 1
		if data.Title != "" {
			_ = f.SetCellValue(summarySheet, "A1", data.Title)
			row++
		}
		for _, line := range data.Summary {
			if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), line); err != nil {
				return nil, fmt.Errorf("write summary: %w", err)
			}
			row++
		}
		_ = f.SetColWidth(summarySheet, "A", "A", 48)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
