package views

import (
	"testing"

	"github.com/matheus3301/bookadmin/internal/store"
	"github.com/matheus3301/bookadmin/internal/tui/ui"
)

func TestHistoryViewUpdate(t *testing.T) {
	hv := NewHistoryView(ui.DefaultTheme())
	hv.Update([]store.ImportEntry{
		{SourceFile: "/data/june.xlsx", Total: 3, CountSuccess: 2, CountFail: 1, Status: store.ImportCompleted},
		{SourceFile: "/data/may.xlsx", Total: 5, Status: store.ImportFailed, ErrorMessage: "timeout"},
	})

	if got := hv.GetTitle(); got != " Imports (2) " {
		t.Errorf("title = %q", got)
	}
	if got := hv.GetCell(1, 1).Text; got != " june.xlsx" {
		t.Errorf("file cell = %q", got)
	}
	if got := hv.GetCell(2, 5).Text; got != " failed: timeout" {
		t.Errorf("status cell = %q", got)
	}
}
