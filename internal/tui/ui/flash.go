package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel is the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

func (l FlashLevel) String() string {
	switch l {
	case FlashWarn:
		return "warn"
	case FlashErr:
		return "error"
	default:
		return "info"
	}
}

// How long each level stays on screen.
var flashTTL = map[FlashLevel]time.Duration{
	FlashInfo: 5 * time.Second,
	FlashWarn: 10 * time.Second,
	FlashErr:  12 * time.Second,
}

// FlashMessage is one notification.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

// FlashModel holds the latest notification. It is safe for concurrent use;
// watchers receive every message, dropped if they fall behind.
type FlashModel struct {
	mu      sync.RWMutex
	now     func() time.Time
	current FlashMessage
	watchCh chan FlashMessage
}

// NewFlashModel creates an empty flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{
		now:     time.Now,
		watchCh: make(chan FlashMessage, 8),
	}
}

// Info shows an info-level message.
func (f *FlashModel) Info(msg string) { f.Notify(FlashInfo, msg) }

// Warn shows a warn-level message.
func (f *FlashModel) Warn(msg string) { f.Notify(FlashWarn, msg) }

// Err shows err at error level.
func (f *FlashModel) Err(err error) { f.Notify(FlashErr, err.Error()) }

// Notify shows msg at the given level for that level's lifetime.
func (f *FlashModel) Notify(level FlashLevel, msg string) {
	f.mu.Lock()
	fm := FlashMessage{Text: msg, Level: level, Expires: f.now().Add(flashTTL[level])}
	f.current = fm
	f.mu.Unlock()
	select {
	case f.watchCh <- fm:
	default:
	}
}

// Clear drops the current message.
func (f *FlashModel) Clear() {
	f.mu.Lock()
	f.current = FlashMessage{}
	f.mu.Unlock()
}

// Current returns the live message, if any.
func (f *FlashModel) Current() (FlashMessage, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current.Text == "" || !f.now().Before(f.current.Expires) {
		return FlashMessage{}, false
	}
	return f.current, true
}

// Watch returns the channel of new messages.
func (f *FlashModel) Watch() <-chan FlashMessage {
	return f.watchCh
}

// FlashBar renders the current flash message.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates an empty flash bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	return &FlashBar{TextView: tv, theme: theme}
}

// Update shows msg, or clears the bar when ok is false.
func (fb *FlashBar) Update(msg FlashMessage, ok bool) {
	fb.Clear()
	if !ok {
		return
	}
	color := fb.theme.FlashInfoColor
	switch msg.Level {
	case FlashWarn:
		color = fb.theme.FlashWarnColor
	case FlashErr:
		color = fb.theme.FlashErrColor
	}
	_, _ = fmt.Fprintf(fb, " [%s]%s[-]", Tag(color), tview.Escape(msg.Text))
}
