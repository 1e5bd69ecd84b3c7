package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestHeader_View_TitleOnly(t *testing.T) {
	h := NewHeader()
	h.SetWidth(60)

	view := ansi.Strip(h.View())
	if !strings.HasPrefix(view, " travelchat") {
		t.Errorf("expected header to start with app name, got %q", view)
	}
	if got := ansi.StringWidth(view); got != 60 {
		t.Errorf("expected header width 60, got %d", got)
	}
}

func TestHeader_View_ThreadTitle(t *testing.T) {
	h := NewHeader()
	h.SetWidth(80)
	h.SetThreadTitle("Trip to Nairobi")

	view := ansi.Strip(h.View())
	if !strings.HasSuffix(view, "Trip to Nairobi ") {
		t.Errorf("expected thread title right-aligned, got %q", view)
	}
}

func TestHeader_View_TruncatesLongTitle(t *testing.T) {
	h := NewHeader()
	h.SetWidth(30)
	h.SetThreadTitle(strings.Repeat("very long title ", 5))

	view := ansi.Strip(h.View())
	if got := ansi.StringWidth(view); got > 30 {
		t.Errorf("header overflowed: width %d > 30", got)
	}
	if !strings.Contains(view, "…") {
		t.Errorf("expected truncation marker in %q", view)
	}
}

func TestHeader_View_Offline(t *testing.T) {
	h := NewHeader()
	h.SetWidth(60)
	h.SetOffline(true)

	if !strings.Contains(ansi.Strip(h.View()), "(offline)") {
		t.Error("expected offline marker")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
	}{
		{"#7C3AED", 0x7C, 0x3A, 0xED},
		{"#000000", 0, 0, 0},
		{"bad", 0, 0, 0},
	}
	for _, tt := range tests {
		r, g, b := parseHexColor(tt.in)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("parseHexColor(%q) = %d,%d,%d want %d,%d,%d", tt.in, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}
