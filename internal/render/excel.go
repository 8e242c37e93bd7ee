package render

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

const excelSheetName = "Report"

// ExcelRenderer writes a single-sheet workbook with a styled header row.
type ExcelRenderer struct{}

func NewExcelRenderer() *ExcelRenderer { return &ExcelRenderer{} }

func (r *ExcelRenderer) Format() string { return "excel" }
func (r *ExcelRenderer) Ext() string    { return ".xlsx" }
func (r *ExcelRenderer) MimeType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (r *ExcelRenderer) Available() bool { return true }

func (r *ExcelRenderer) Render(path string, data *Data, title string) (int64, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(excelSheetName)
	if err != nil {
		return 0, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	if data.Empty() {
		f.SetCellValue(excelSheetName, "A1", NoDataMessage)
		return r.save(f, path)
	}

	headers, rows := data.Table()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(excelSheetName, cell, col)
		f.SetCellStyle(excelSheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(excelSheetName, cell, val)
		}
	}

	for i, header := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len(header) + 2)
		if width < 15 {
			width = 15
		}
		f.SetColWidth(excelSheetName, col, col, width)
	}

	return r.save(f, path)
}

func (r *ExcelRenderer) save(f *excelize.File, path string) (int64, error) {
	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("save workbook: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
