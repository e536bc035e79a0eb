package ui

import (
	"slices"
	"testing"

	"github.com/rivo/tview"
)

type stubPage struct {
	*tview.Box
	name string
}

func (s stubPage) Name() string            { return s.name }
func (s stubPage) Target() tview.Primitive { return s.Box }

func newStubPages(names ...string) *Pages {
	p := NewPages()
	for _, n := range names {
		p.Add(stubPage{Box: tview.NewBox(), name: n})
	}
	return p
}

func TestPagesStack(t *testing.T) {
	p := newStubPages("users", "books", "help")
	var changes [][]string
	p.SetOnChange(func(stack []string, top Component) {
		if top.Name() != stack[len(stack)-1] {
			t.Errorf("top = %q, stack %v", top.Name(), stack)
		}
		changes = append(changes, stack)
	})

	p.Reset("users")
	p.Push("help")
	p.Push("help")
	if got := p.Stack(); !slices.Equal(got, []string{"users", "help"}) {
		t.Fatalf("Stack() = %v", got)
	}
	if front, _ := p.GetFrontPage(); front != "help" {
		t.Errorf("front page = %q, want help", front)
	}

	if got := p.Pop(); got != "help" {
		t.Errorf("Pop() = %q, want help", got)
	}
	if got := p.Pop(); got != "" {
		t.Errorf("Pop() on root = %q, want empty", got)
	}

	p.Reset("books")
	if p.Root() != "books" || p.Current() != "books" {
		t.Errorf("root/current = %q/%q, want books", p.Root(), p.Current())
	}
	if len(changes) != 4 {
		t.Errorf("change callbacks = %d, want 4", len(changes))
	}
}

func TestPagesUnknownName(t *testing.T) {
	p := newStubPages("users")
	p.Reset("users")
	p.Push("nope")
	p.Reset("nope")
	if got := p.Stack(); !slices.Equal(got, []string{"users"}) {
		t.Errorf("Stack() = %v, want [users]", got)
	}
	if _, ok := p.Get("nope"); ok {
		t.Error("Get found an unregistered page")
	}
}
