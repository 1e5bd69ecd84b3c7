package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/travelchat/internal/logger"
	"github.com/zhubert/travelchat/internal/ui"
)

// routeMouse sends mouse events over the chat panel to the chat, in panel
// coordinates, whichever panel has focus. ok is false when the event
// should take the default route.
func (m *Model) routeMouse(msg tea.MouseMsg) (tea.Cmd, bool) {
	if m.modal.IsVisible() || m.state.Current == nil {
		return nil, false
	}

	mouse := msg.Mouse()
	sidebarWidth := m.sidebar.Width()
	if mouse.X < sidebarWidth {
		return nil, false
	}

	mouse.X -= sidebarWidth
	mouse.Y -= ui.HeaderHeight

	var adjusted tea.Msg
	switch msg.(type) {
	case tea.MouseClickMsg:
		adjusted = tea.MouseClickMsg(mouse)
	case tea.MouseMotionMsg:
		adjusted = tea.MouseMotionMsg(mouse)
	case tea.MouseReleaseMsg:
		adjusted = tea.MouseReleaseMsg(mouse)
	case tea.MouseWheelMsg:
		adjusted = tea.MouseWheelMsg(mouse)
	default:
		return nil, false
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(adjusted)
	return cmd, true
}

// copySelection writes text selected with the mouse to the native clipboard.
func (m *Model) copySelection(text string) tea.Cmd {
	if err := m.copyText(text); err != nil {
		logger.WithComponent("app").Warn("copy selection failed", "error", err)
		return m.flashError("Could not copy to clipboard")
	}
	return m.flashSuccess("Copied selection")
}
