package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/travelchat/internal/keys"
	"github.com/zhubert/travelchat/internal/logger"
	"github.com/zhubert/travelchat/internal/ui"
	"github.com/zhubert/travelchat/internal/ui/modals"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for all shortcuts in the application.
type Shortcut struct {
	Key             string                              // The key binding (e.g., "n", "ctrl+v")
	DisplayKey      string                              // Display name in help (e.g., "Tab"); defaults to Key
	Description     string                              // Human-readable description
	Category        string                              // Section for help modal grouping
	RequiresThread  bool                                // Must have a thread selected in the sidebar
	RequiresSidebar bool                                // Must not be in chat focus
	Handler         func(m *Model) (tea.Model, tea.Cmd) // Action to perform
	Condition       func(m *Model) bool                 // Optional extra condition
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryNavigation    = "Navigation"
	CategoryConversations = "Conversations"
	CategoryChat          = "Chat (when focused)"
	CategoryConfiguration = "Configuration"
	CategoryGeneral       = "General"
)

// categoryOrder defines the display order of categories in the help modal
var categoryOrder = []string{
	CategoryNavigation,
	CategoryConversations,
	CategoryChat,
	CategoryConfiguration,
	CategoryGeneral,
}

// ShortcutRegistry is the central registry of all keyboard shortcuts.
// Shortcuts added here appear in the help modal and can be triggered from it.
var ShortcutRegistry = []Shortcut{
	// Navigation
	{
		Key:         keys.Tab,
		DisplayKey:  "Tab",
		Description: "Switch between sidebar and chat",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleFocus,
	},
	{
		Key:             "/",
		Description:     "Search conversations",
		Category:        CategoryNavigation,
		RequiresSidebar: true,
		Handler:         shortcutSearch,
		Condition:       func(m *Model) bool { return !m.sidebar.IsSearchMode() },
	},

	// Conversations
	{
		Key:             "n",
		Description:     "Start a new conversation",
		Category:        CategoryConversations,
		RequiresSidebar: true,
		Handler:         shortcutNewThread,
	},
	{
		Key:             "d",
		Description:     "Delete selected conversation",
		Category:        CategoryConversations,
		RequiresSidebar: true,
		RequiresThread:  true,
		Handler:         shortcutDeleteThread,
		Condition: func(m *Model) bool {
			t := m.sidebar.SelectedThread()
			return t != nil && !m.sidebar.IsDeleting(t.ID)
		},
	},
	{
		Key:             "r",
		Description:     "Reload conversations",
		Category:        CategoryConversations,
		RequiresSidebar: true,
		Handler:         shortcutReload,
	},
	{
		Key:             "y",
		Description:     "Copy last reply",
		Category:        CategoryConversations,
		RequiresSidebar: true,
		Handler:         shortcutCopyReply,
		Condition: func(m *Model) bool {
			_, ok := m.state.LastReply()
			return ok
		},
	},

	// Chat
	{
		Key:         keys.CtrlV,
		DisplayKey:  "ctrl-v",
		Description: "Paste from clipboard",
		Category:    CategoryChat,
		Handler:     shortcutPaste,
		Condition:   func(m *Model) bool { return m.chat.IsFocused() && m.state.Current != nil },
	},

	// Configuration
	{
		Key:             ",",
		Description:     "Settings",
		Category:        CategoryConfiguration,
		RequiresSidebar: true,
		Handler:         shortcutSettings,
	},

	// General
	// Note: "?" (help) is handled specially in ExecuteShortcut to avoid init cycle
	{
		Key:             "q",
		Description:     "Quit application",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutQuit,
	},
}

// helpShortcut is defined separately to avoid initialization cycle.
// It references ShortcutRegistry, so it can't be in the registry itself.
var helpShortcut = Shortcut{
	Key:             "?",
	Description:     "Show this help",
	Category:        CategoryGeneral,
	RequiresSidebar: true,
}

// DisplayOnlyShortcuts are shown in help but not executable from the help modal.
var DisplayOnlyShortcuts = []Shortcut{
	{DisplayKey: "↑/↓ or j/k", Description: "Navigate conversation list", Category: CategoryNavigation},
	{DisplayKey: "Enter", Description: "Open conversation / Send message", Category: CategoryNavigation},
	{DisplayKey: "Esc", Description: "Back to sidebar / Clear search", Category: CategoryNavigation},

	{DisplayKey: "shift-enter", Description: "New line (ctrl-j also works)", Category: CategoryChat},
	{DisplayKey: "PgUp/PgDn", Description: "Scroll conversation", Category: CategoryChat},
}

// isShortcutApplicable checks if a shortcut is applicable given the current model state.
// This is used to filter which shortcuts appear in the help modal.
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresSidebar && m.chat.IsFocused() {
		return false
	}
	if s.RequiresThread && m.sidebar.SelectedThread() == nil {
		return false
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut finds and executes a shortcut by key.
// It checks all guards (RequiresSidebar, RequiresThread, Condition) before executing.
// Returns (model, cmd, true) if the shortcut was found and executed.
// Returns (model, nil, false) if the shortcut was not found or guards failed.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	// Keys typed into the sidebar filter belong to the filter
	if m.sidebar.IsSearchMode() {
		return m, nil, false
	}

	if key == helpShortcut.Key {
		if !m.isShortcutApplicable(helpShortcut) {
			return m, nil, false
		}
		result, cmd := shortcutHelp(m)
		return result, cmd, true
	}

	for _, s := range ShortcutRegistry {
		if s.Key != key {
			continue
		}
		if !m.isShortcutApplicable(s) {
			logger.Log("Shortcut: guards failed for %q, chatFocused=%v", key, m.chat.IsFocused())
			return m, nil, false
		}
		logger.Log("Shortcut: executing handler for %q", key)
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// getApplicableHelpSections generates help modal sections from shortcuts that are
// applicable in the current application state.
func (m *Model) getApplicableHelpSections(registry []Shortcut, displayOnly []Shortcut) []modals.HelpSection {
	categories := make(map[string][]modals.HelpShortcut)

	add := func(s Shortcut) {
		displayKey := s.DisplayKey
		if displayKey == "" {
			displayKey = s.Key
		}
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  displayKey,
			Desc: s.Description,
		})
	}

	for _, s := range registry {
		if m.isShortcutApplicable(s) {
			add(s)
		}
	}
	for _, s := range displayOnly {
		add(s)
	}
	add(helpShortcut)

	var sections []modals.HelpSection
	for _, cat := range categoryOrder {
		if shortcuts, ok := categories[cat]; ok && len(shortcuts) > 0 {
			sections = append(sections, modals.HelpSection{
				Title:     cat,
				Shortcuts: shortcuts,
			})
		}
	}
	return sections
}

// handleHelpShortcutTrigger handles shortcuts triggered from the help modal.
// It normalizes display keys and delegates to the shortcut registry.
func (m *Model) handleHelpShortcutTrigger(key string) (tea.Model, tea.Cmd) {
	normalizedKey := normalizeHelpDisplayKey(key)
	if normalizedKey == "" {
		return m, nil
	}
	result, cmd, _ := m.ExecuteShortcut(normalizedKey)
	return result, cmd
}

// normalizeHelpDisplayKey converts help modal display keys to actual key values.
// Returns empty string for display-only shortcuts that shouldn't be executed.
func normalizeHelpDisplayKey(displayKey string) string {
	switch displayKey {
	case "↑/↓ or j/k", "PgUp/PgDn", "Enter", "Esc", "shift-enter":
		return ""
	case "ctrl-v":
		return keys.CtrlV
	case "Tab":
		return keys.Tab
	default:
		return strings.ToLower(displayKey)
	}
}

// =============================================================================
// Shortcut Handlers
// =============================================================================

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	return m, m.toggleFocus()
}

func shortcutSearch(m *Model) (tea.Model, tea.Cmd) {
	return m, m.sidebar.EnterSearchMode()
}

func shortcutNewThread(m *Model) (tea.Model, tea.Cmd) {
	return m, m.createThread()
}

func shortcutDeleteThread(m *Model) (tea.Model, tea.Cmd) {
	t := m.sidebar.SelectedThread()
	m.modal.Show(modals.NewConfirmDeleteState(t.ID, t.Title))
	return m, nil
}

func shortcutReload(m *Model) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.loadThreads()}
	if m.state.Current != nil {
		cmds = append(cmds, m.loadMessages(m.state.Current.ID, m.state.Generation()))
	}
	return m, tea.Batch(cmds...)
}

func shortcutCopyReply(m *Model) (tea.Model, tea.Cmd) {
	reply, _ := m.state.LastReply()
	if err := m.copyText(reply); err != nil {
		logger.WithComponent("app").Warn("failed to copy reply", "error", err)
		return m, m.flashError("Clipboard is not available")
	}
	return m, m.flashSuccess("Copied last reply")
}

func shortcutPaste(m *Model) (tea.Model, tea.Cmd) {
	text, err := m.pasteText()
	if err != nil {
		logger.WithComponent("app").Warn("failed to read clipboard", "error", err)
		return m, m.flashError("Clipboard is not available")
	}
	m.chat.InsertText(text)
	return m, nil
}

func shortcutSettings(m *Model) (tea.Model, tea.Cmd) {
	themeKeys, themeNames := ui.ThemeOptions()
	m.modal.Show(modals.NewSettingsState(
		themeKeys,
		themeNames,
		string(ui.CurrentThemeName()),
		m.config.GetAPIURL(),
		m.config.GetNotificationsEnabled(),
	))
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(modals.NewHelpState(m.getApplicableHelpSections(ShortcutRegistry, DisplayOnlyShortcuts)))
	return m, nil
}
