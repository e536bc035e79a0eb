package importer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is one user read from a spreadsheet. Unresolved fields are "".
type Record struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// RawRow maps a header label to the cell under it for one data row.
type RawRow map[string]string

// Header labels accepted for each field, in priority order.
var (
	FullNameAliases = []string{"fullName", "Full Name", "Name"}
	EmailAliases    = []string{"email", "Email"}
	PhoneAliases    = []string{"phone", "Phone"}
)

// CheckFileName rejects files that are not .xlsx or .xls.
func CheckFileName(name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(name))
	}
}

// ParseFile reads the spreadsheet at path. See Parse.
func ParseFile(path string) ([]Record, error) {
	if err := CheckFileName(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	br := bufio.NewReader(f)
	if strings.EqualFold(filepath.Ext(path), ".xls") && isCompoundFile(br) {
		return nil, ErrLegacyWorkbook
	}
	return Parse(br)
}

// oleSignature opens every OLE2 compound file, which is how BIFF .xls
// workbooks are stored.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

func isCompoundFile(br *bufio.Reader) bool {
	head, err := br.Peek(len(oleSignature))
	return err == nil && bytes.Equal(head, oleSignature)
}

// Parse converts the first worksheet of a spreadsheet into records, one per
// non-empty data row, in sheet order. Any read failure returns
// ErrUnreadableSpreadsheet and no records.
func Parse(r io.Reader) ([]Record, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Normalize(row))
	}
	return records, nil
}

// ReadRows returns the data rows of the first worksheet keyed by the header
// label in the same column of row 1. Cells under a blank header are ignored,
// and rows with no non-blank value are dropped.
func ReadRows(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSpreadsheet, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSpreadsheet, err)
	}
	if len(grid) == 0 {
		return nil, nil
	}

	header := make([]string, len(grid[0]))
	for i, label := range grid[0] {
		header[i] = strings.TrimSpace(label)
	}

	var rows []RawRow
	for _, cells := range grid[1:] {
		row := make(RawRow)
		hasData := false
		for col, cell := range cells {
			if col >= len(header) || header[col] == "" || cell == "" {
				continue
			}
			row[header[col]] = cell
			if strings.TrimSpace(cell) != "" {
				hasData = true
			}
		}
		if hasData {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Normalize resolves a raw row into a Record using the alias lists.
func Normalize(row RawRow) Record {
	return Record{
		FullName: resolve(row, FullNameAliases),
		Email:    resolve(row, EmailAliases),
		Phone:    resolve(row, PhoneAliases),
	}
}

func resolve(row RawRow, aliases []string) string {
	for _, a := range aliases {
		if v := strings.TrimSpace(row[a]); v != "" {
			return v
		}
	}
	return ""
}
