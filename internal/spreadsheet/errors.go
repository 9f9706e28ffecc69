package spreadsheet

import "errors"

var (
	// ErrMalformed indicates a file that cannot be turned into client records.
	ErrMalformed = errors.New("malformed spreadsheet")
	// ErrNoSheet indicates a workbook without worksheets.
	ErrNoSheet = errors.New("no worksheet found")
)
