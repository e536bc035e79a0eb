package ui

import "github.com/rivo/tview"

// MenuHint is one key shown in the header menu.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool
}

// Component is a page of the console.
type Component interface {
	tview.Primitive
	Name() string
	// Target is the primitive focused when the page is shown.
	Target() tview.Primitive
}
