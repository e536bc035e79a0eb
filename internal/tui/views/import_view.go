package views

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/bookadmin/internal/importer"
	"github.com/matheus3301/bookadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

// ImportView is the spreadsheet import page: a path field, a preview of the
// parsed users and a summary line.
type ImportView struct {
	*tview.Flex
	theme   *ui.Theme
	input   *tview.InputField
	preview *tview.Table
	summary *tview.TextView
	onLoad  func(path string)
}

// NewImportView creates the import page.
func NewImportView(theme *ui.Theme) *ImportView {
	input := tview.NewInputField().
		SetLabel(" File: ").
		SetPlaceholder("path to .xlsx or .xls").
		SetFieldWidth(0)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)
	input.SetPlaceholderTextColor(theme.LabelColor)

	preview := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	preview.SetBorder(true)
	preview.SetBorderColor(theme.BorderColor)
	preview.SetBackgroundColor(theme.BgColor)
	preview.SetTitle(" Preview ")
	preview.SetTitleColor(theme.TitleColor)
	preview.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	summary := tview.NewTextView().SetDynamicColors(true)
	summary.SetBackgroundColor(theme.BgColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(input, 1, 0, true).
		AddItem(preview, 0, 1, false).
		AddItem(summary, 1, 0, false)

	iv := &ImportView{
		Flex:    flex,
		theme:   theme,
		input:   input,
		preview: preview,
		summary: summary,
	}
	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && iv.onLoad != nil && iv.input.GetText() != "" {
			iv.onLoad(iv.input.GetText())
		}
	})
	iv.Reset()
	return iv
}

// Name implements ui.Component.
func (iv *ImportView) Name() string { return "import" }

// Target implements ui.Component.
func (iv *ImportView) Target() tview.Primitive { return iv.input }

// Input is the path field.
func (iv *ImportView) Input() *tview.InputField { return iv.input }

// Preview is the parsed rows table.
func (iv *ImportView) Preview() *tview.Table { return iv.preview }

// SetOnLoad registers the handler for Enter in the path field.
func (iv *ImportView) SetOnLoad(fn func(path string)) {
	iv.onLoad = fn
}

// SetPath fills the path field.
func (iv *ImportView) SetPath(path string) {
	iv.input.SetText(path)
}

// Reset empties the preview.
func (iv *ImportView) Reset() {
	iv.fill(nil)
	iv.setSummary(iv.theme.LabelColor, "Enter a file path and press Enter. Columns: fullName, email, phone.")
}

// ShowBatch previews the parsed users of b awaiting submission.
func (iv *ImportView) ShowBatch(b importer.Batch) {
	iv.fill(b.Records)
	iv.preview.SetTitle(fmt.Sprintf(" Preview %s (%d) ", cellText(filepath.Base(b.Source)), len(b.Records)))
	iv.setSummary(iv.theme.FlashInfoColor,
		fmt.Sprintf("%d users ready. Ctrl-S submits, Ctrl-X discards.", len(b.Records)))
}

// ShowResult reports a submitted batch and clears the preview.
func (iv *ImportView) ShowResult(res importer.Result) {
	iv.fill(nil)
	color := iv.theme.FlashInfoColor
	if res.CountFail > 0 {
		color = iv.theme.FlashWarnColor
	}
	iv.setSummary(color, res.Summary())
}

// ShowError reports a rejected file and clears the preview.
func (iv *ImportView) ShowError(err error) {
	iv.fill(nil)
	iv.setSummary(iv.theme.FlashErrColor, err.Error())
}

// Summary returns the summary line as plain text.
func (iv *ImportView) Summary() string {
	return iv.summary.GetText(true)
}

func (iv *ImportView) fill(records []importer.Record) {
	iv.preview.Clear()
	iv.preview.SetTitle(" Preview ")
	for col, h := range []string{" #", " FULL NAME", " EMAIL", " PHONE"} {
		iv.preview.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(iv.theme.TableHeaderFg).
			SetBackgroundColor(iv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(min(col, 1)))
	}
	for i, r := range records {
		row := i + 1
		iv.preview.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf(" %d", row)).SetTextColor(iv.theme.LabelColor))
		iv.preview.SetCell(row, 1, tview.NewTableCell(" "+cellText(r.FullName)).SetExpansion(1).SetTextColor(iv.theme.FgColor))
		iv.preview.SetCell(row, 2, tview.NewTableCell(" "+cellText(r.Email)).SetExpansion(1).SetTextColor(iv.theme.FgColor))
		iv.preview.SetCell(row, 3, tview.NewTableCell(" "+cellText(r.Phone)).SetExpansion(1).SetTextColor(iv.theme.FgColor))
	}
	iv.preview.ScrollToBeginning()
}

func (iv *ImportView) setSummary(color tcell.Color, text string) {
	iv.summary.Clear()
	_, _ = fmt.Fprintf(iv.summary, " [%s]%s[-]", ui.Tag(color), tview.Escape(text))
}
