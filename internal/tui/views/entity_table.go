package views

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/bookadmin/internal/table"
	"github.com/matheus3301/bookadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

// Column renders one field of T.
type Column[T any] struct {
	Title     string
	Expansion int
	AlignEnd  bool
	Value     func(T) string
}

// EntityTable is a page showing one table controller's rows.
type EntityTable[T any] struct {
	*tview.Table
	name    string
	title   string
	theme   *ui.Theme
	columns []Column[T]
	rows    []T
}

// NewEntityTable creates an empty table page.
func NewEntityTable[T any](name, title string, columns []Column[T], theme *ui.Theme) *EntityTable[T] {
	t := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	t.SetBorder(true)
	t.SetBorderColor(theme.BorderColor)
	t.SetBackgroundColor(theme.BgColor)
	t.SetTitleColor(theme.TitleColor)
	t.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	et := &EntityTable[T]{
		Table:   t,
		name:    name,
		title:   title,
		theme:   theme,
		columns: columns,
	}
	et.renderHeader()
	et.SetTitle(fmt.Sprintf(" %s ", title))
	return et
}

// Name implements ui.Component.
func (et *EntityTable[T]) Name() string { return et.name }

// Target implements ui.Component.
func (et *EntityTable[T]) Target() tview.Primitive { return et.Table }

// Update redraws the rows and title from snap, keeping the cursor row when
// it still exists.
func (et *EntityTable[T]) Update(snap table.Snapshot[T]) {
	selected, _ := et.GetSelection()
	et.rows = snap.Rows

	et.Clear()
	et.renderHeader()
	for i, row := range snap.Rows {
		for col, c := range et.columns {
			cell := tview.NewTableCell(" " + cellText(c.Value(row))).
				SetExpansion(c.Expansion).
				SetTextColor(et.theme.FgColor)
			if c.AlignEnd {
				cell.SetAlign(tview.AlignRight)
			}
			et.SetCell(i+1, col, cell)
		}
	}
	if len(snap.Rows) == 0 {
		et.SetCell(1, 0, tview.NewTableCell(" "+emptyText(snap)).
			SetSelectable(false).
			SetTextColor(et.theme.LabelColor))
	}
	et.Select(min(max(selected, 1), max(len(snap.Rows), 1)), 0)
	et.SetTitle(et.titleFor(snap))
}

// Selected returns the row under the cursor.
func (et *EntityTable[T]) Selected() (T, bool) {
	row, _ := et.GetSelection()
	if row < 1 || row > len(et.rows) {
		var zero T
		return zero, false
	}
	return et.rows[row-1], true
}

func (et *EntityTable[T]) renderHeader() {
	for col, c := range et.columns {
		cell := tview.NewTableCell(" " + strings.ToUpper(c.Title)).
			SetSelectable(false).
			SetTextColor(et.theme.TableHeaderFg).
			SetBackgroundColor(et.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(c.Expansion)
		if c.AlignEnd {
			cell.SetAlign(tview.AlignRight)
		}
		et.SetCell(0, col, cell)
	}
}

// titleFor renders " Users [1/3] (12) " plus any active filter or load state.
func (et *EntityTable[T]) titleFor(snap table.Snapshot[T]) string {
	counter := ui.Tag(et.theme.CounterColor)
	var b strings.Builder
	fmt.Fprintf(&b, " %s", et.title)
	if snap.Loaded {
		fmt.Fprintf(&b, " [%s][%d/%d][-] (%d)", counter, snap.Meta.Current, max(snap.Meta.Pages, 1), snap.Meta.Total)
	}
	if f := filterSummary(snap); f != "" {
		fmt.Fprintf(&b, " </%s>", tview.Escape(f))
	}
	if snap.Phase == table.Loading {
		fmt.Fprintf(&b, " [%s]loading…[-]", ui.Tag(et.theme.LoadingColor))
	}
	b.WriteString(" ")
	return b.String()
}

func filterSummary[T any](snap table.Snapshot[T]) string {
	var parts []string
	for field, v := range snap.State.Filters {
		if v != "" {
			parts = append(parts, field+"~"+v)
		}
	}
	slices.Sort(parts)
	if r := snap.State.DateRange; r != nil {
		parts = append(parts, r.Start+".."+r.End)
	}
	if len(snap.State.Categories) > 0 {
		parts = append(parts, strings.Join(snap.State.Categories, ","))
	}
	return strings.Join(parts, " ")
}

func emptyText[T any](snap table.Snapshot[T]) string {
	switch {
	case snap.Err != nil:
		return "Could not load: " + snap.Err.Error()
	case !snap.Loaded:
		return "Loading…"
	default:
		return "No records"
	}
}
