package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Logo is the header banner.
type Logo struct {
	*tview.TextView
}

// NewLogo renders the banner once.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 0)

	title, fg := Tag(theme.TitleColor), Tag(theme.FgColor)
	_, _ = fmt.Fprintf(tv,
		"[%[1]s::b] _                 _    [-:-:-]\n"+
			"[%[1]s::b]| |__   ___   ___ | | __[-:-:-]\n"+
			"[%[1]s::b]| '_ \\ / _ \\ / _ \\| |/ /[-:-:-]\n"+
			"[%[1]s::b]| |_) | (_) | (_) |   < [-:-:-]\n"+
			"[%[1]s::b]|_.__/ \\___/ \\___/|_|\\_\\[-:-:-]\n"+
			"[%[2]s]   bookstore admin[-]",
		title, fg)
	return &Logo{TextView: tv}
}
