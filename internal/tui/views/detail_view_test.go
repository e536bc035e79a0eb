package views

import (
	"strings"
	"testing"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/tui/ui"
)

func TestDetailViewBook(t *testing.T) {
	dv := NewDetailView(ui.DefaultTheme(), func(name string) string {
		return "http://localhost:8080/images/book/" + name
	})
	dv.ShowBook(api.Book{
		ID: "b1", MainText: "War and Peace", Author: "Leo Tolstoy", Price: 189000,
		Thumbnail: "cover.png", Slider: []string{"s1.png"},
	})

	text := dv.GetText(true)
	for _, want := range []string{
		"War and Peace",
		"189.000 ₫",
		"http://localhost:8080/images/book/cover.png",
		"Slider 1:",
		"http://localhost:8080/images/book/s1.png",
		"Scan to open the cover",
		"█",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("details lack %q:\n%s", want, text)
		}
	}
	if !strings.Contains(dv.GetTitle(), "War and Peace") {
		t.Errorf("title = %q", dv.GetTitle())
	}
}

func TestDetailViewUser(t *testing.T) {
	dv := NewDetailView(ui.DefaultTheme(), nil)
	dv.ShowUser(api.User{ID: "u1", FullName: "Tran Van A", Email: "a@x.com"})

	text := dv.GetText(true)
	if !strings.Contains(text, "a@x.com") || strings.Contains(text, "Scan") {
		t.Errorf("details:\n%s", text)
	}
	if !strings.Contains(text, "Phone:") || !strings.Contains(text, "-") {
		t.Errorf("empty phone not shown as dash:\n%s", text)
	}
}
