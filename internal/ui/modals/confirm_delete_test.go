package modals

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestConfirmDeleteState_DefaultsToDelete(t *testing.T) {
	s := NewConfirmDeleteState(42, "Trip to Nairobi")

	if s.ThreadID != 42 {
		t.Errorf("expected ThreadID 42, got %d", s.ThreadID)
	}
	if !s.Confirmed() {
		t.Error("expected the delete option to be highlighted initially")
	}
}

func TestConfirmDeleteState_Navigation(t *testing.T) {
	s := NewConfirmDeleteState(1, "x")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.SelectedIndex != 1 {
		t.Fatalf("expected index 1 after down, got %d", s.SelectedIndex)
	}
	if s.Confirmed() {
		t.Error("Cancel should not count as confirmed")
	}

	// Clamped at the bottom
	s.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if s.SelectedIndex != 1 {
		t.Errorf("expected index to stay at 1, got %d", s.SelectedIndex)
	}

	s.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	if s.SelectedIndex != 0 {
		t.Errorf("expected index 0 after k, got %d", s.SelectedIndex)
	}

	// Clamped at the top
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.SelectedIndex != 0 {
		t.Errorf("expected index to stay at 0, got %d", s.SelectedIndex)
	}
}

func TestConfirmDeleteState_Render(t *testing.T) {
	s := NewConfirmDeleteState(1, "Trip to Nairobi")
	rendered := s.Render()

	for _, want := range []string{ConfirmDeleteMessage, "Trip to Nairobi", "Delete", "Cancel"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("expected render to contain %q", want)
		}
	}
}
