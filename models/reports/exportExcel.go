package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelRow is implemented by report rows that can be exported. Cell values
// come back in the same order as the headings passed to WriteExcel.
type ExcelRow interface {
	GetCellValues() []interface{}
}

// WriteExcel streams rows as a single-sheet workbook. Callers set the
// Content-Type and Content-Disposition headers.
func WriteExcel(w io.Writer, sheetName string, headings []string, rows []ExcelRow) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	for i, heading := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheetName, cell, heading)
	}

	for rowNo, row := range rows {
		values := row.GetCellValues()
		if len(values) != len(headings) {
			return fmt.Errorf("row %d has %d cells, expected %d", rowNo+1, len(values), len(headings))
		}
		for colNo, value := range values {
			cell, err := excelize.CoordinatesToCellName(colNo+1, rowNo+2)
			if err != nil {
				return err
			}
			f.SetCellValue(sheetName, cell, value)
		}
	}

	return f.Write(w)
}

func (r QuoteSummaryRow) GetCellValues() []interface{} {
	return []interface{}{r.CurrentStatus, r.QuoteCount, r.TotalAmount.String(), r.AverageAmount.String()}
}

func (r ProductPerformanceRow) GetCellValues() []interface{} {
	category := ""
	if r.Category != nil {
		category = *r.Category
	}
	return []interface{}{
		r.ProductName, category, r.QuoteCount,
		r.QuotedQuantity.String(), r.QuotedAmount.String(),
		r.AcceptedCount, r.AcceptedAmount.String(), r.AverageLineTotal.String(),
	}
}
