package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// PromptMode is what the prompt's text is used for.
type PromptMode int

const (
	PromptCommand PromptMode = iota
	PromptFilter
)

// Prompt is the command and filter input bar.
type Prompt struct {
	*tview.InputField
	theme    *Theme
	mode     PromptMode
	suggest  func(mode PromptMode) []string
	onSubmit func(mode PromptMode, text string)
	onCancel func()
}

// NewPrompt creates a hidden-by-layout input bar.
func NewPrompt(theme *Theme) *Prompt {
	input := tview.NewInputField()
	input.SetBorder(true)
	input.SetBorderColor(theme.PromptBorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)
	input.SetTitleColor(theme.TitleColor)

	p := &Prompt{InputField: input, theme: theme}
	input.SetAutocompleteFunc(p.complete)
	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := strings.TrimSpace(p.GetText())
			p.SetText("")
			if p.onSubmit != nil && (text != "" || p.mode == PromptFilter) {
				p.onSubmit(p.mode, text)
			}
		case tcell.KeyEscape:
			p.SetText("")
			if p.onCancel != nil {
				p.onCancel()
			}
		}
	})
	return p
}

// SetSuggestions registers the source of autocomplete entries per mode.
func (p *Prompt) SetSuggestions(fn func(mode PromptMode) []string) {
	p.suggest = fn
}

// SetOnSubmit registers the Enter handler. An empty filter is submitted so
// it can clear the current one; an empty command is not.
func (p *Prompt) SetOnSubmit(fn func(mode PromptMode, text string)) {
	p.onSubmit = fn
}

// SetOnCancel registers the Esc handler.
func (p *Prompt) SetOnCancel(fn func()) {
	p.onCancel = fn
}

// Activate resets the prompt for mode, prefilled with text.
func (p *Prompt) Activate(mode PromptMode, text string) {
	p.mode = mode
	switch mode {
	case PromptCommand:
		p.SetLabel(":")
		p.SetTitle(" Command ")
	case PromptFilter:
		p.SetLabel("/")
		p.SetTitle(" Filter ")
	}
	p.SetText(text)
}

// Mode returns the active mode.
func (p *Prompt) Mode() PromptMode {
	return p.mode
}

func (p *Prompt) complete(current string) []string {
	if p.suggest == nil || strings.TrimSpace(current) == "" {
		return nil
	}
	return Suggest(p.suggest(p.mode), current)
}

// Suggest returns the candidates that start with prefix, case-insensitively,
// excluding an exact match.
func Suggest(candidates []string, prefix string) []string {
	var out []string
	lp := strings.ToLower(prefix)
	for _, c := range candidates {
		if c != prefix && strings.HasPrefix(strings.ToLower(c), lp) {
			out = append(out, c)
		}
	}
	return out
}
