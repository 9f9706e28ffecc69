package spreadsheet

import (
	"fmt"
	"time"

	"github.com/rpggio/pronix-hub/internal/dates"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet written by Export.
const SheetName = "Base PRONIX"

// ContentType is the media type of exported workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename returns the export file name for the day of now.
func Filename(now time.Time) string {
	return "PRONIX_BASE_HUB_" + now.UTC().Format(dates.ISOLayout) + ".xlsx"
}

// Export writes clients to an .xlsx workbook with the fixed column layout.
func Export(clients []client.Client) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col.header
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, c := range clients {
		values := make([]any, len(exportColumns))
		for j, col := range exportColumns {
			values[j] = col.get(c)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("locating row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}
