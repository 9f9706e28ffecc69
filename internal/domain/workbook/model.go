// Package workbook syncs the client list with spreadsheet files.
package workbook

// Log entry markers written for workbook syncs.
const (
	ImportSource = "EXCEL"
	ImportLabel  = "Sincronização"
	ExportSource = "SISTEMA"
	ExportLabel  = "Exportação"
)

// ImportResult describes a completed import.
type ImportResult struct {
	Count int `json:"count"`
}

// File is a generated workbook ready for download.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}
