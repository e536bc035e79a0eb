package importer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/xuri/excelize/v2"
)

// workbook builds an .xlsx whose first sheet holds rows, starting at A1.
// A nil cell is left unset.
func workbook(t *testing.T, rows [][]any, extraSheets ...string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	for _, name := range extraSheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(name, "A1", &[]any{"fullName", "email"}); err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(name, "A2", &[]any{"Ghost", "ghost@x.com"}); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
		want []Record
	}{
		{
			name: "aliases by header",
			rows: [][]any{
				{"fullName", "Phone", "Email"},
				{"Alice", "555-1234", "a@x.com"},
			},
			want: []Record{{FullName: "Alice", Email: "a@x.com", Phone: "555-1234"}},
		},
		{
			name: "empty data row dropped",
			rows: [][]any{
				{"Name", "email"},
				{"", ""},
			},
			want: []Record{},
		},
		{
			name: "whitespace only row dropped",
			rows: [][]any{
				{"Name", "email"},
				{"  ", " "},
				{"Bob", "b@x.com"},
			},
			want: []Record{{FullName: "Bob", Email: "b@x.com"}},
		},
		{
			name: "missing aliases resolve empty",
			rows: [][]any{
				{"Full Name", "Address"},
				{"Carol", "Hanoi"},
			},
			want: []Record{{FullName: "Carol"}},
		},
		{
			name: "row with only unrecognized columns still emitted",
			rows: [][]any{
				{"Address"},
				{"Hanoi"},
			},
			want: []Record{{}},
		},
		{
			name: "alias priority",
			rows: [][]any{
				{"Name", "fullName", "Full Name"},
				{"third", "first", "second"},
				{"third", nil, "second"},
			},
			want: []Record{{FullName: "first"}, {FullName: "second"}},
		},
		{
			name: "positional mapping with sparse header",
			rows: [][]any{
				{"email", nil, "phone"},
				{"d@x.com", "orphan", "0901"},
			},
			want: []Record{{Email: "d@x.com", Phone: "0901"}},
		},
		{
			name: "cells beyond last header ignored",
			rows: [][]any{
				{"fullName"},
				{nil, "stray"},
				{"Eve", "stray"},
			},
			want: []Record{{FullName: "Eve"}},
		},
		{
			name: "header labels trimmed",
			rows: [][]any{
				{"  email  ", "Phone "},
				{"f@x.com", "1"},
			},
			want: []Record{{Email: "f@x.com", Phone: "1"}},
		},
		{
			name: "gaps between rows skipped and order preserved",
			rows: [][]any{
				{"fullName"},
				{"one"},
				{nil},
				{nil},
				{"two"},
				{"three"},
			},
			want: []Record{{FullName: "one"}, {FullName: "two"}, {FullName: "three"}},
		},
		{
			name: "numeric cells read as text",
			rows: [][]any{
				{"fullName", "phone"},
				{"Gus", 12345},
			},
			want: []Record{{FullName: "Gus", Phone: "12345"}},
		},
		{
			name: "header only",
			rows: [][]any{{"fullName", "email", "phone"}},
			want: []Record{},
		},
		{
			name: "empty sheet",
			rows: nil,
			want: []Record{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(workbook(t, tt.rows))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("record %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseFirstSheetOnly(t *testing.T) {
	buf := workbook(t, [][]any{
		{"fullName"},
		{"Main"},
	}, "Other")

	got, err := Parse(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].FullName != "Main" {
		t.Errorf("Parse() = %+v, want only first sheet rows", got)
	}
}

func TestParseCorrupt(t *testing.T) {
	got, err := Parse(bytes.NewReader([]byte("this is not a spreadsheet")))
	if !errors.Is(err, ErrUnreadableSpreadsheet) {
		t.Fatalf("Parse() error = %v, want ErrUnreadableSpreadsheet", err)
	}
	if got != nil {
		t.Errorf("Parse() records = %v, want nil on failure", got)
	}
}

func TestCheckFileName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"users.xlsx", false},
		{"USERS.XLS", false},
		{"/tmp/a.b.xlsx", false},
		{"users.csv", true},
		{"users", true},
		{"users.xlsx.pdf", true},
	}
	for _, tt := range tests {
		err := CheckFileName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckFileName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnsupportedFile) {
			t.Errorf("CheckFileName(%q) error = %v, want ErrUnsupportedFile", tt.name, err)
		}
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.xlsx")
	buf := workbook(t, [][]any{{"Name", "Email"}, {"Hana", "h@x.com"}})
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(got) != 1 || got[0] != (Record{FullName: "Hana", Email: "h@x.com"}) {
		t.Errorf("ParseFile() = %+v", got)
	}

	if _, err := ParseFile(filepath.Join(dir, "users.csv")); !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("ParseFile(csv) error = %v, want ErrUnsupportedFile", err)
	}
}

func TestLegacyXLSUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.xls")
	// OLE2 compound document signature followed by junk.
	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 512)...)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	_, err := ParseFile(path)
	if !errors.Is(err, ErrUnreadableSpreadsheet) || !errors.Is(err, ErrLegacyWorkbook) {
		t.Errorf("ParseFile(xls) error = %v, want ErrLegacyWorkbook", err)
	}
	if !strings.Contains(err.Error(), "save the file as .xlsx") {
		t.Errorf("error = %q, want a hint to resave as .xlsx", err)
	}
}

func TestXLSWithWorkbookContentIsParsed(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "renamed.xls")
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFile(path); err != nil {
		t.Errorf("ParseFile(xlsx content named .xls) error = %v", err)
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf); err != nil {
		t.Fatalf("WriteTemplate() error = %v", err)
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("template rows = %d, want 2", len(got))
	}
	if got[0].Email != "vana@example.com" || got[0].Phone != "0901234567" {
		t.Errorf("first template record = %+v", got[0])
	}
}

func TestWriteUsersRoundTrip(t *testing.T) {
	users := []api.User{
		{FullName: "Ivy", Email: "ivy@x.com", Phone: "1"},
		{FullName: "Jon", Email: "jon@x.com"},
	}
	var buf bytes.Buffer
	if err := WriteUsers(&buf, users); err != nil {
		t.Fatal(err)
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != (Record{FullName: "Jon", Email: "jon@x.com"}) {
		t.Errorf("Parse(WriteUsers()) = %+v", got)
	}
}
