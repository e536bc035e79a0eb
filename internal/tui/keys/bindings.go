package keys

import "github.com/gdamore/tcell/v2"

// Action is a key bound to a handler. Hint is the short label shown in the
// menu; an empty Hint keeps the binding out of the menu.
type Action struct {
	Key     tcell.Key
	Rune    rune
	Label   string
	Hint    string
	Handler func()
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

// KeyName is how the key is written in menus and help.
func (a *Action) KeyName() string {
	if a.Label != "" {
		return a.Label
	}
	if a.Key == tcell.KeyRune {
		return string(a.Rune)
	}
	return tcell.KeyNames[a.Key]
}

// Registry holds global and per-page bindings in registration order.
type Registry struct {
	global []*Action
	pages  map[string][]*Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{pages: make(map[string][]*Action)}
}

// Global registers a binding active on every page.
func (r *Registry) Global(a *Action) {
	r.global = append(r.global, a)
}

// Page registers a binding active only on the named page.
func (r *Registry) Page(page string, a *Action) {
	r.pages[page] = append(r.pages[page], a)
}

// Hinted returns the menu-visible bindings for page, page bindings first.
func (r *Registry) Hinted(page string) []*Action {
	var out []*Action
	for _, a := range r.pages[page] {
		if a.Hint != "" {
			out = append(out, a)
		}
	}
	for _, a := range r.global {
		if a.Hint != "" {
			out = append(out, a)
		}
	}
	return out
}

// PageHinted returns only the page's own menu-visible bindings.
func (r *Registry) PageHinted(page string) []*Action {
	var out []*Action
	for _, a := range r.pages[page] {
		if a.Hint != "" {
			out = append(out, a)
		}
	}
	return out
}

// HandleEvent runs the first binding matching ev, page bindings first.
// Returns true if a handler ran.
func (r *Registry) HandleEvent(page string, ev *tcell.EventKey) bool {
	for _, a := range r.pages[page] {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	for _, a := range r.global {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	return false
}
