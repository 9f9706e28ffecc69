// Package spreadsheet converts between client records and workbook rows.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const (
	maxLegacyRows = 100000
	// BIFF8 sheets hold at most 256 columns.
	maxLegacyCols = 256
)

// ReadRows returns the cells of the first worksheet in data. The format is
// picked from the file extension: .xls goes through the legacy reader, .csv
// is read as delimited text and anything else is opened as .xlsx.
func ReadRows(data []byte, filename string) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		rows, err = readLegacy(data)
	case ".csv":
		rows, err = readDelimited(data)
	default:
		rows, err = readWorkbook(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return rows, nil
}

func readWorkbook(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoSheet
	}
	// Raw values keep date cells as serial numbers instead of locale text.
	return file.GetRows(sheetName, excelize.Options{RawCellValue: true})
}

func readLegacy(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if workbook.NumSheets() == 0 {
		return nil, ErrNoSheet
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoSheet
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow) && i < maxLegacyRows; i++ {
		row := legacyRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, legacyCells(row))
	}
	return rows, nil
}

// legacyRow returns nil for rows without cells, which xls.WorkSheet.Row
// dereferences without checking.
func legacyRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// legacyCells reads the cells of row. A row stored without a ROW record
// reports no width, so its columns are scanned up to the format limit.
func legacyCells(row *xls.Row) []string {
	width := row.LastCol()
	if width <= 0 || width > maxLegacyCols {
		width = maxLegacyCols
	}
	cells := make([]string, width)
	for j := row.FirstCol(); j < width; j++ {
		cells[j] = row.Col(j)
	}
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	return cells[:end]
}

func readDelimited(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.Comma = detectDelimiter(data)
	return reader.ReadAll()
}

// detectDelimiter picks ';' when the header line uses it more than ','.
func detectDelimiter(data []byte) rune {
	header := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		header = data[:idx]
	}
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
