package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/travelchat/internal/config"
	"github.com/zhubert/travelchat/internal/keys"
	"github.com/zhubert/travelchat/internal/logger"
	"github.com/zhubert/travelchat/internal/ui"
	"github.com/zhubert/travelchat/internal/ui/modals"
)

// handleModalKey routes modal key events to the appropriate handler based on modal state type.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch s := m.modal.State.(type) {
	case *modals.ConfirmDeleteState:
		return m.handleConfirmDeleteModal(key, msg, s)
	case *modals.AlertState:
		return m.handleAlertModal(key)
	case *modals.SettingsState:
		return m.handleSettingsModal(key, msg, s)
	case *modals.HelpState:
		return m.handleHelpModal(key, msg, s)
	}

	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleConfirmDeleteModal handles key events for the delete confirmation.
func (m *Model) handleConfirmDeleteModal(key string, msg tea.KeyPressMsg, state *modals.ConfirmDeleteState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		m.modal.Hide()
		if !state.Confirmed() {
			return m, nil
		}
		return m, m.confirmDelete(state.ThreadID)
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleAlertModal dismisses an alert on Enter or Esc and swallows everything else.
func (m *Model) handleAlertModal(key string) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Enter, keys.Escape:
		m.modal.Hide()
	}
	return m, nil
}

// handleSettingsModal handles key events for the Settings modal.
func (m *Model) handleSettingsModal(key string, msg tea.KeyPressMsg, state *modals.SettingsState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		if err := state.Validate(); err != nil {
			m.modal.SetError(err.Error())
			return m, nil
		}
		m.config.SetNotificationsEnabled(state.GetNotificationsEnabled())
		if state.ThemeChanged() {
			ui.SetThemeByName(state.GetSelectedTheme())
			m.config.SetTheme(state.GetSelectedTheme())
		}
		urlChanged := state.APIURLChanged()
		if urlChanged {
			m.config.SetAPIURL(state.GetAPIURL())
		}
		if err := m.config.Save(); err != nil {
			logger.WithComponent("app").Error("failed to save settings", "error", err)
			m.modal.SetError("Failed to save: " + err.Error())
			return m, nil
		}
		m.modal.Hide()
		// Messages are re-rendered so code blocks pick up the new theme
		m.chat.SetMessages(m.state.Messages)
		if urlChanged {
			return m, m.switchBackend(state.GetAPIURL())
		}
		return m, m.flashSuccess("Settings saved")
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// switchBackend points the app at a different backend and reloads from it.
// An empty url means the default.
func (m *Model) switchBackend(url string) tea.Cmd {
	if url == "" {
		url = config.DefaultAPIURL
	}
	logger.WithComponent("app").Info("switching backend", "url", url)
	m.apiURL = url
	m.backend = m.newBackend(url)
	m.state.Reset()
	m.chat.SetWaiting(false)
	m.syncViews()
	return tea.Batch(m.loadThreads(), m.flashInfo("Connected to "+url))
}

// handleHelpModal handles key events for the Help modal.
func (m *Model) handleHelpModal(key string, msg tea.KeyPressMsg, state *modals.HelpState) (tea.Model, tea.Cmd) {
	// While filtering, forward all keys to the list (Esc cancels filter, Enter applies)
	if state.IsFiltering() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}

	switch key {
	case keys.Escape, "?", "q":
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		shortcut := state.GetSelectedShortcut()
		if shortcut == nil {
			return m, nil
		}
		m.modal.Hide()
		shortcutKey := shortcut.Key
		return m, func() tea.Msg {
			return modals.HelpShortcutTriggeredMsg{Key: shortcutKey}
		}
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}
