package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/travelchat/internal/keys"
	"github.com/zhubert/travelchat/internal/ui/modals"
)

func TestModal_ShowHide(t *testing.T) {
	m := NewModal()
	if m.IsVisible() {
		t.Fatal("new modal should be hidden")
	}

	m.Show(modals.NewAlertState("", "failed to delete thread"))
	if !m.IsVisible() {
		t.Fatal("modal should be visible after Show")
	}

	m.SetError("boom")
	if m.GetError() != "boom" {
		t.Errorf("GetError() = %q, want boom", m.GetError())
	}

	m.Hide()
	if m.IsVisible() || m.GetError() != "" {
		t.Error("Hide should clear the state and the error")
	}
}

func TestModal_ShowClearsError(t *testing.T) {
	m := NewModal()
	m.Show(modals.NewAlertState("", "first"))
	m.SetError("stale")

	m.Show(modals.NewAlertState("", "second"))
	if m.GetError() != "" {
		t.Error("showing a new modal should clear the previous error")
	}
}

func TestModal_ViewHidden(t *testing.T) {
	if got := NewModal().View(100, 40); got != "" {
		t.Errorf("hidden modal should render nothing, got %q", got)
	}
}

func TestModal_ViewRendersState(t *testing.T) {
	m := NewModal()
	m.Show(modals.NewConfirmDeleteState(7, "Kenya trip"))
	m.SetError("try again")

	view := ansi.Strip(m.View(100, 40))
	for _, want := range []string{"Delete Conversation?", "Kenya trip", modals.ConfirmDeleteMessage, "try again"} {
		if !strings.Contains(view, want) {
			t.Errorf("modal view should contain %q", want)
		}
	}
}

func TestModal_UpdateDelegates(t *testing.T) {
	m := NewModal()
	state := modals.NewConfirmDeleteState(7, "Kenya trip")
	m.Show(state)

	m.Update(keyPressMsg(keys.Down))
	if state.Confirmed() {
		t.Error("moving down should select Cancel")
	}

	m.Update(keyPressMsg(keys.Up))
	if !state.Confirmed() {
		t.Error("moving up should select Delete")
	}
}

func TestModal_UpdateHiddenIsNoop(t *testing.T) {
	m := NewModal()
	if _, cmd := m.Update(keyPressMsg(keys.Enter)); cmd != nil {
		t.Error("hidden modal should not return commands")
	}
}

func TestModal_WidthClampsToScreen(t *testing.T) {
	m := NewModal()
	m.Show(modals.NewSettingsState([]string{"nord"}, []string{"Nord"}, "nord", "", false))

	if got := m.width(200); got != ModalWidthWide {
		t.Errorf("settings modal width = %d, want %d", got, ModalWidthWide)
	}
	if got := m.width(50); got != 48 {
		t.Errorf("width on a narrow screen = %d, want 48", got)
	}
}
