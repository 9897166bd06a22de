package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Worksheet names in the exported workbook.
const (
	sheetLaden   = "Laden"
	sheetWaiting = "Waiting"
)

// ExportXLSX writes the laden and waiting summary tables to an Excel
// workbook, one worksheet per zone.
func ExportXLSX(path string, sum Summary) error {
	if len(sum.Items) == 0 {
		return fmt.Errorf("no boxes to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetLaden); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}
	if _, err := f.NewSheet(sheetWaiting); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, sheetLaden, sum.Laden, headerStyle); err != nil {
		return err
	}
	if err := writeSummarySheet(f, sheetWaiting, sum.Waiting, headerStyle); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeSummarySheet fills one worksheet with the given summary rows.
func writeSummarySheet(f *excelize.File, sheet string, rows []SummaryRow, headerStyle int) error {
	headers := []string{"Type", "Count", "Length (mm)", "Width (mm)", "Height (mm)", "Weight (kg)", "Boxes per Stack", "Stack Height (mm)"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header on %s: %w", sheet, err)
		}
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("failed to address header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header on %s: %w", sheet, err)
	}

	for i, row := range rows {
		values := []interface{}{
			row.Type,
			row.Count,
			row.Length,
			row.Width,
			row.Height,
			row.Weight,
			row.StackCount,
			row.StackHeight(),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d on %s: %w", i+1, sheet, err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return fmt.Errorf("failed to size columns on %s: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "B", "H", 16); err != nil {
		return fmt.Errorf("failed to size columns on %s: %w", sheet, err)
	}
	return nil
}
