package views

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/bookadmin/internal/store"
	"github.com/matheus3301/bookadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

// HistoryView lists the imports recorded by this profile.
type HistoryView struct {
	*tview.Table
	theme *ui.Theme
}

// NewHistoryView creates the import history page.
func NewHistoryView(theme *ui.Theme) *HistoryView {
	t := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	t.SetBorder(true)
	t.SetBorderColor(theme.BorderColor)
	t.SetBackgroundColor(theme.BgColor)
	t.SetTitle(" Imports ")
	t.SetTitleColor(theme.TitleColor)
	t.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	return &HistoryView{Table: t, theme: theme}
}

// Name implements ui.Component.
func (hv *HistoryView) Name() string { return "history" }

// Target implements ui.Component.
func (hv *HistoryView) Target() tview.Primitive { return hv.Table }

// Update redraws the list, newest first as given.
func (hv *HistoryView) Update(entries []store.ImportEntry) {
	hv.Clear()
	for col, h := range []string{" WHEN", " FILE", " TOTAL", " OK", " FAILED", " STATUS"} {
		hv.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(hv.theme.TableHeaderFg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(boolInt(col == 1)))
	}
	for i, e := range entries {
		row := i + 1
		color := hv.theme.FgColor
		status := e.Status
		switch {
		case e.Status == store.ImportFailed:
			color = hv.theme.FlashErrColor
			if e.ErrorMessage != "" {
				status += ": " + e.ErrorMessage
			}
		case e.CountFail > 0:
			color = hv.theme.FlashWarnColor
		}
		cells := []string{
			formatDate(e.CreatedAt),
			filepath.Base(e.SourceFile),
			strconv.Itoa(e.Total),
			strconv.Itoa(e.CountSuccess),
			strconv.Itoa(e.CountFail),
			status,
		}
		for col, v := range cells {
			hv.SetCell(row, col, tview.NewTableCell(" "+cellText(v)).
				SetTextColor(color).
				SetExpansion(boolInt(col == 1)))
		}
	}
	hv.SetTitle(fmt.Sprintf(" Imports (%d) ", len(entries)))
	hv.ScrollToBeginning()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
