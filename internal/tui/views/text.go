package views

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rivo/tview"
)

// cellText makes backend text safe for a single table cell: control
// characters and emoji joiners are dropped and tview tags escaped.
func cellText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsControl(r), joinsGlyphs(r):
		default:
			b.WriteRune(r)
		}
	}
	return tview.Escape(b.String())
}

// joinsGlyphs reports runes that combine with a neighbour into one emoji,
// which tcell measures wrongly.
func joinsGlyphs(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tones
		return true
	case r == 0x200D: // zero width joiner
		return true
	case r >= 0xFE00 && r <= 0xFE0F, r >= 0xE0100 && r <= 0xE01EF: // variation selectors
		return true
	}
	return false
}

// formatDate shows t as a local day, or "-" when unset.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// formatPrice renders a VND price the vi-VN way: dot-grouped, ₫ suffix.
func formatPrice(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String() + " ₫"
	}
	return b.String() + " ₫"
}
