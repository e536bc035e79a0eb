package views

import "testing"

func TestCellText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"War and Peace", "War and Peace"},
		{"line\nbreak\ttab", "line break tab"},
		{"bell\x07", "bell"},
		{"👍🏻", "👍"},
		{"[red]tag", "[red[]tag"},
	}
	for _, tt := range tests {
		if got := cellText(tt.in); got != tt.want {
			t.Errorf("cellText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := map[int64]string{
		0:        "0 ₫",
		999:      "999 ₫",
		189000:   "189.000 ₫",
		20000000: "20.000.000 ₫",
		-1500:    "-1.500 ₫",
	}
	for in, want := range tests {
		if got := formatPrice(in); got != want {
			t.Errorf("formatPrice(%d) = %q, want %q", in, got, want)
		}
	}
}
