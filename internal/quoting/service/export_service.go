package service

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExportService struct {
	bom *BOMService
}

func NewExportService(bom *BOMService) *ExportService {
	return &ExportService{bom: bom}
}

var cutListHeaders = []string{
	"Opening", "Part Number", "Description", "Type",
	"Qty", "Unit", "Cut Length", "Stock Length",
	"Unit Cost", "Extended Cost", "Review",
}

// CutListXLSX renders the project's compiled cut list as an xlsx workbook
// for shop paperwork.
func (s *ExportService) CutListXLSX(projectID string) (*bytes.Buffer, error) {
	items, err := s.bom.CompileProject(projectID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Cut List"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range cutListHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, item := range items {
		row := i + 2
		values := []interface{}{
			item.OpeningName,
			item.PartNumber,
			item.Description,
			item.PartType,
			item.Quantity,
			item.Unit,
			floatOrEmpty(item.CutLength),
			floatOrEmpty(item.StockLength),
			item.UnitCost,
			item.ExtendedCost,
			reviewMark(item.NeedsReview),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf, nil
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func reviewMark(needsReview bool) string {
	if needsReview {
		return "REVIEW"
	}
	return ""
}
