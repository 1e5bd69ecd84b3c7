package modals

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func testHelpSections() []HelpSection {
	return []HelpSection{
		{
			Title: "General",
			Shortcuts: []HelpShortcut{
				{Key: "tab", Desc: "switch pane"},
				{Key: "?", Desc: "help"},
			},
		},
		{
			Title: "Conversations",
			Shortcuts: []HelpShortcut{
				{Key: "n", Desc: "new chat"},
			},
		},
	}
}

func TestNewHelpState_StartsOnFirstShortcut(t *testing.T) {
	state := NewHelpState(testHelpSections())

	got := state.GetSelectedShortcut()
	if got == nil {
		t.Fatal("expected a shortcut to be selected, got nil")
	}
	if got.Key != "tab" {
		t.Errorf("expected first shortcut 'tab', got %q", got.Key)
	}
}

func TestHelpState_NavigationSkipsHeaders(t *testing.T) {
	state := NewHelpState(testHelpSections())

	down := tea.KeyPressMsg{Code: tea.KeyDown}
	up := tea.KeyPressMsg{Code: tea.KeyUp}

	state.Update(down)
	if got := state.GetSelectedShortcut(); got == nil || got.Key != "?" {
		t.Fatalf("after one down expected '?', got %+v", got)
	}

	// The next row is the "Conversations" header, which is skipped
	state.Update(down)
	if got := state.GetSelectedShortcut(); got == nil || got.Key != "n" {
		t.Fatalf("after second down expected 'n', got %+v", got)
	}

	state.Update(up)
	if got := state.GetSelectedShortcut(); got == nil || got.Key != "?" {
		t.Fatalf("after up expected '?', got %+v", got)
	}

	// Moving up from the first shortcut lands back on it, not on the header
	state.Update(up)
	state.Update(up)
	if got := state.GetSelectedShortcut(); got == nil || got.Key != "tab" {
		t.Fatalf("expected to stay on 'tab', got %+v", got)
	}
}

func TestHelpState_Render(t *testing.T) {
	state := NewHelpState(testHelpSections())
	rendered := state.Render()

	for _, want := range []string{"Keyboard Shortcuts", "General", "switch pane", "new chat"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("expected render to contain %q", want)
		}
	}
}

func TestHelpState_EmptySections(t *testing.T) {
	state := NewHelpState(nil)
	if state.GetSelectedShortcut() != nil {
		t.Error("expected no selection for an empty help list")
	}
	if state.IsFiltering() {
		t.Error("should not be filtering initially")
	}
}
