package importer

import (
	"fmt"
	"io"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Users"

var templateHeader = []any{"fullName", "email", "phone"}

// WriteTemplate writes a sample spreadsheet with the recognized headers.
func WriteTemplate(w io.Writer) error {
	return writeSheet(w, [][]any{
		{"Nguyen Van A", "vana@example.com", "0901234567"},
		{"Tran Thi B", "thib@example.com", "0912345678"},
	})
}

// WriteUsers exports users in the same layout the importer reads back.
func WriteUsers(w io.Writer, users []api.User) error {
	rows := make([][]any, len(users))
	for i, u := range users {
		rows[i] = []any{u.FullName, u.Email, u.Phone}
	}
	return writeSheet(w, rows)
}

func writeSheet(w io.Writer, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, "A1", &templateHeader); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetName, "A", "C", 28); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}
