package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/bookadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpSection is one titled block of key hints.
type HelpSection struct {
	Title string
	Hints []ui.MenuHint
}

// commandHelp documents the ":" commands.
var commandHelp = [][2]string{
	{"users | books", "Show a table"},
	{"import <file>", "Preview a spreadsheet of users"},
	{"template <file>", "Write an empty import spreadsheet"},
	{"history", "Show recorded imports"},
	{"filter <field=value; ...>", "Replace the table filters"},
	{"clear", "Drop filters and date range"},
	{"range <from> <to> | range", "Filter by creation day, YYYY-MM-DD; no days clears"},
	{"sort asc|desc", "Sort direction"},
	{"page <n> | pagesize <n>", "Jump to a page, change its size"},
	{"refresh", "Refetch the table"},
	{"login | logout", "Sign in or out"},
	{"help | quit", "This page, leave"},
}

// HelpView lists key bindings and commands.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates an empty help page.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)
	return &HelpView{TextView: tv, theme: theme}
}

// Name implements ui.Component.
func (hv *HelpView) Name() string { return "help" }

// Target implements ui.Component.
func (hv *HelpView) Target() tview.Primitive { return hv.TextView }

// Update renders sections followed by the command list.
func (hv *HelpView) Update(sections []HelpSection) {
	hv.Clear()
	key := ui.Tag(hv.theme.MenuKeyColor)
	var b strings.Builder
	for _, s := range sections {
		if len(s.Hints) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", tview.Escape(s.Title))
		for _, h := range s.Hints {
			fmt.Fprintf(&b, "  [%s]%-8s[-] %s\n", key, tview.Escape(h.Key), h.Description)
		}
	}
	b.WriteString("\n  [::b]Commands (:)[-:-:-]\n\n")
	for _, c := range commandHelp {
		fmt.Fprintf(&b, "  [%s]%-27s[-] %s\n", key, tview.Escape(c[0]), c[1])
	}
	_, _ = fmt.Fprint(hv, b.String())
	hv.ScrollToBeginning()
}
