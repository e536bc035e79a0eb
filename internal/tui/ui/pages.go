package ui

import (
	"slices"

	"github.com/rivo/tview"
)

// Pages is a stack of named components over tview.Pages. The bottom of the
// stack is a root page; overlays such as help or details are pushed on top.
type Pages struct {
	*tview.Pages
	components map[string]Component
	stack      []string
	onChange   func(stack []string, top Component)
}

// NewPages creates an empty page stack.
func NewPages() *Pages {
	return &Pages{
		Pages:      tview.NewPages(),
		components: make(map[string]Component),
	}
}

// Add registers c under its name, hidden.
func (p *Pages) Add(c Component) {
	p.components[c.Name()] = c
	p.AddPage(c.Name(), c, true, false)
}

// Get returns the component registered as name.
func (p *Pages) Get(name string) (Component, bool) {
	c, ok := p.components[name]
	return c, ok
}

// SetOnChange registers fn to run after every stack change.
func (p *Pages) SetOnChange(fn func(stack []string, top Component)) {
	p.onChange = fn
}

// Push shows name on top of the current page. Pushing the page already on
// top does nothing.
func (p *Pages) Push(name string) {
	if _, ok := p.components[name]; !ok || p.Current() == name {
		return
	}
	if top := p.Current(); top != "" {
		p.HidePage(top)
	}
	p.stack = append(p.stack, name)
	p.show(name)
}

// Pop removes the top page unless it is the only one, and returns its name.
func (p *Pages) Pop() string {
	if len(p.stack) < 2 {
		return ""
	}
	top := p.stack[len(p.stack)-1]
	p.HidePage(top)
	p.stack = p.stack[:len(p.stack)-1]
	p.show(p.Current())
	return top
}

// Reset makes name the only page on the stack.
func (p *Pages) Reset(name string) {
	if _, ok := p.components[name]; !ok {
		return
	}
	for _, n := range p.stack {
		p.HidePage(n)
	}
	p.stack = []string{name}
	p.show(name)
}

// Current returns the top page name.
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// Root returns the bottom page name.
func (p *Pages) Root() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[0]
}

// Stack returns a copy of the page names, bottom first.
func (p *Pages) Stack() []string {
	return slices.Clone(p.stack)
}

func (p *Pages) show(name string) {
	p.ShowPage(name)
	p.SendToFront(name)
	if p.onChange != nil {
		p.onChange(p.Stack(), p.components[name])
	}
}
