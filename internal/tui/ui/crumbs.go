package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Crumbs shows the page stack as a breadcrumb trail.
type Crumbs struct {
	*tview.TextView
	theme *Theme
}

// NewCrumbs creates an empty breadcrumb bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	return &Crumbs{TextView: tv, theme: theme}
}

// Update renders stack, bottom page first.
func (c *Crumbs) Update(stack []string) {
	c.Clear()
	for i, name := range stack {
		fg, bg := c.theme.CrumbInactiveFg, c.theme.CrumbInactiveBg
		if i == len(stack)-1 {
			fg, bg = c.theme.CrumbActiveFg, c.theme.CrumbActiveBg
		}
		_, _ = fmt.Fprintf(c, "[%s:%s:b] <%s> [-:-:-] ", Tag(fg), Tag(bg), tview.Escape(name))
	}
}
