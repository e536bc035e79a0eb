package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/bookadmin/internal/table"
	"github.com/matheus3301/bookadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatusData is what the bottom bar shows.
type StatusData struct {
	Profile string
	Session string
	Table   string
	Phase   table.Phase
	Loaded  bool
	Page    int
	Pages   int
	Total   int
	Pending int // users parsed and awaiting submission
}

// StatusBar is the one-line footer.
type StatusBar struct {
	*tview.TextView
	theme *ui.Theme
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.StatusBg)
	return &StatusBar{TextView: tv, theme: theme}
}

// Update redraws the bar.
func (sb *StatusBar) Update(d StatusData) {
	sb.Clear()
	_, _ = fmt.Fprint(sb, sb.line(d))
}

func (sb *StatusBar) line(d StatusData) string {
	parts := []string{
		fmt.Sprintf("[::b]%s[-:-:-]", tview.Escape(d.Profile)),
		d.Session,
	}
	if d.Table != "" {
		t := d.Table
		if d.Loaded {
			t += fmt.Sprintf(" %d/%d · %d total", d.Page, max(d.Pages, 1), d.Total)
		}
		parts = append(parts, t)
		if d.Phase == table.Loading {
			parts = append(parts, fmt.Sprintf("[%s]%s[-]", ui.Tag(sb.theme.LoadingColor), d.Phase))
		}
	}
	if d.Pending > 0 {
		parts = append(parts, fmt.Sprintf("[%s]%d to import[-]", ui.Tag(sb.theme.FlashWarnColor), d.Pending))
	}
	return " " + strings.Join(parts, " | ")
}
