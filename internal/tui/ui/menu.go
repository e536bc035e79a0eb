package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// menuRows is how many hints fit in one header column.
const menuRows = 5

// Menu lays out key hints in columns, k9s style.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates an empty hint menu.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)
	return &Menu{TextView: tv, theme: theme}
}

// Update replaces the hints.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()
	_, _ = fmt.Fprint(m, m.layout(hints))
}

func (m *Menu) layout(hints []MenuHint) string {
	if len(hints) == 0 {
		return ""
	}
	cols := (len(hints) + menuRows - 1) / menuRows
	width := 0
	for _, h := range hints {
		width = max(width, len(h.Key)+len(h.Description)+4)
	}

	var b strings.Builder
	for r := range min(menuRows, len(hints)) {
		for c := range cols {
			i := c*menuRows + r
			if i >= len(hints) {
				break
			}
			h := hints[i]
			color := Tag(m.theme.MenuKeyColor)
			if h.Numeric {
				color = Tag(m.theme.NumericKeyColor)
			}
			cell := fmt.Sprintf("<%s> %s", h.Key, h.Description)
			fmt.Fprintf(&b, "[%s::b]<%s>[-:-:-] %s%s", color, tview.Escape(h.Key), h.Description,
				strings.Repeat(" ", width-len(cell)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
