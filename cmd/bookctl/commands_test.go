package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/bookadmin/internal/store"
)

func TestImportStatus(t *testing.T) {
	tests := []struct {
		entry store.ImportEntry
		want  string
	}{
		{store.ImportEntry{Status: store.ImportCompleted}, "completed"},
		{store.ImportEntry{Status: store.ImportFailed, ErrorMessage: "timeout"}, "failed: timeout"},
	}
	for _, tt := range tests {
		if got := importStatus(tt.entry); got != tt.want {
			t.Errorf("importStatus(%+v) = %q, want %q", tt.entry, got, tt.want)
		}
	}
}

func TestOutputJSONIndents(t *testing.T) {
	var buf bytes.Buffer
	e := &env{out: &buf}
	if err := e.outputJSON(store.ImportEntry{BatchID: "b1", CreatedAt: time.Unix(0, 0).UTC()}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"batchId\": \"b1\",") {
		t.Errorf("output = %q, want indented batchId", buf.String())
	}
}

func TestWriteSheetFileRejectsExtension(t *testing.T) {
	e := &env{out: &bytes.Buffer{}}
	path := t.TempDir() + "/users.csv"
	if err := cmdUsersTemplate(e, []string{path}); err == nil {
		t.Error("expected an error for a non-xlsx output")
	}
}

func TestUsersTemplateWritesFile(t *testing.T) {
	var buf bytes.Buffer
	e := &env{out: &buf}
	path := t.TempDir() + "/template.xlsx"
	if err := cmdUsersTemplate(e, []string{path}); err != nil {
		t.Fatalf("cmdUsersTemplate() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Wrote "+path) {
		t.Errorf("output = %q", buf.String())
	}
	if err := cmdUsersTemplate(e, []string{path}); err == nil {
		t.Error("existing file should not be overwritten")
	}
}
