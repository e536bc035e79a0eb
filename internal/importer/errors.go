package importer

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFile       = errors.New("only .xlsx or .xls spreadsheets can be imported")
	ErrUnreadableSpreadsheet = errors.New("error processing the spreadsheet")
	ErrNothingToImport       = errors.New("no records to import")
)

// ErrLegacyWorkbook is returned for Excel 97-2003 (BIFF) files. It matches
// ErrUnreadableSpreadsheet under errors.Is.
var ErrLegacyWorkbook = fmt.Errorf("%w: Excel 97-2003 .xls workbooks cannot be read, save the file as .xlsx and try again", ErrUnreadableSpreadsheet)
