package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// ProfileData is what the header shows about the running console.
type ProfileData struct {
	Profile string
	Backend string
	Account string
	Role    string
	Session string
}

// ProfileInfo is the header panel with profile and session details.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
}

// NewProfileInfo creates an empty panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)
	return &ProfileInfo{TextView: tv, theme: theme}
}

// Update redraws the panel from d.
func (pi *ProfileInfo) Update(d ProfileData) {
	pi.Clear()
	label, value := Tag(pi.theme.LabelColor), Tag(pi.theme.CounterColor)
	rows := [][2]string{
		{"Profile:", d.Profile},
		{"Backend:", d.Backend},
		{"Account:", orDash(d.Account)},
		{"Role:", orDash(d.Role)},
		{"Session:", d.Session},
	}
	for i, r := range rows {
		if i > 0 {
			_, _ = fmt.Fprint(pi, "\n")
		}
		_, _ = fmt.Fprintf(pi, "[%s::b]%-9s[-:-:-][%s]%s[-]", label, r[0], value, tview.Escape(r[1]))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
