package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme holds the console palette.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	BorderColor      tcell.Color
	BorderFocusColor tcell.Color
	TitleColor       tcell.Color
	CounterColor     tcell.Color
	LabelColor       tcell.Color

	TableHeaderFg tcell.Color
	TableHeaderBg tcell.Color
	TableCursorFg tcell.Color
	TableCursorBg tcell.Color

	CrumbActiveFg   tcell.Color
	CrumbActiveBg   tcell.Color
	CrumbInactiveFg tcell.Color
	CrumbInactiveBg tcell.Color

	MenuKeyColor    tcell.Color
	NumericKeyColor tcell.Color

	FlashInfoColor tcell.Color
	FlashWarnColor tcell.Color
	FlashErrColor  tcell.Color

	StatusBg          tcell.Color
	LoadingColor      tcell.Color
	PromptBorderColor tcell.Color
}

// DefaultTheme returns the dark console theme.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorBlack,
		FgColor:          tcell.ColorWheat,
		BorderColor:      tcell.ColorDarkGoldenrod,
		BorderFocusColor: tcell.ColorGold,
		TitleColor:       tcell.ColorOrange,
		CounterColor:     tcell.ColorPapayaWhip,
		LabelColor:       tcell.ColorTan,

		TableHeaderFg: tcell.ColorWhite,
		TableHeaderBg: tcell.ColorBlack,
		TableCursorFg: tcell.ColorBlack,
		TableCursorBg: tcell.ColorGold,

		CrumbActiveFg:   tcell.ColorBlack,
		CrumbActiveBg:   tcell.ColorOrange,
		CrumbInactiveFg: tcell.ColorBlack,
		CrumbInactiveBg: tcell.ColorTan,

		MenuKeyColor:    tcell.ColorGold,
		NumericKeyColor: tcell.ColorFuchsia,

		FlashInfoColor: tcell.ColorNavajoWhite,
		FlashWarnColor: tcell.ColorOrange,
		FlashErrColor:  tcell.ColorOrangeRed,

		StatusBg:          tcell.ColorDarkSlateGray,
		LoadingColor:      tcell.ColorAqua,
		PromptBorderColor: tcell.ColorGold,
	}
}

// Tag returns c as a tview color tag name.
func Tag(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
