package storage

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"colegios-api/internal/colegio"
)

// ExportXLSX writes the record set to an Excel workbook, canonical column
// order, one record per row under a bold header.
func ExportXLSX(path string, records []colegio.School) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})

	for i, field := range colegio.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, field)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for r, rec := range records {
		values := []interface{}{rec.Province, rec.Name, rec.Students, rec.Year}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrStorage, path, err)
	}
	return nil
}
