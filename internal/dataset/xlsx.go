package dataset

import (
	"context"
	"strconv"
	"strings"

	"exec-dashboard/internal/models"
	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads the first worksheet of an Excel workbook. The first row is the header.
func LoadXLSX(ctx context.Context, path string) ([]models.Sale, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, loadErr(path, 0, "open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, loadErr(path, 0, "workbook has no sheets", nil)
	}

	// Raw values keep numeric cells independent of the display format.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, loadErr(path, 0, "read sheet "+sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, loadErr(path, 0, "empty sheet", nil)
	}

	cols, err := indexHeader(path, rows[0])
	if err != nil {
		return nil, err
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	dateCol := cols[ColOrderDate]

	var (
		records [][]string
		lines   []int
	)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		if dateCol < len(row) {
			row[dateCol] = excelDate(row[dateCol], date1904)
		}
		records = append(records, row)
		lines = append(lines, i+2)
	}

	return parseRecords(ctx, path, cols, records, lines)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// excelDate turns a date serial number into a layout parseOrderDate accepts.
// Text cells are returned unchanged.
func excelDate(value string, date1904 bool) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return value
	}
	return t.Format("2006-01-02T15:04:05")
}
