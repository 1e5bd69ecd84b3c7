// Package app is the root Bubble Tea model. It owns the conversation state,
// turns user intents from the ui components into backend calls and feeds
// the results back into the components.
package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/travelchat/internal/api"
	"github.com/zhubert/travelchat/internal/clipboard"
	"github.com/zhubert/travelchat/internal/config"
	"github.com/zhubert/travelchat/internal/keys"
	"github.com/zhubert/travelchat/internal/logger"
	"github.com/zhubert/travelchat/internal/ui"
	"github.com/zhubert/travelchat/internal/ui/modals"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// String returns a human-readable name for the focus
func (f Focus) String() string {
	if f == FocusChat {
		return "Chat"
	}
	return "Sidebar"
}

// Backend is the set of backend calls the app makes. *api.Client implements it.
type Backend interface {
	CreateThread(ctx context.Context, title string) (api.Thread, error)
	GetThreads(ctx context.Context) ([]api.Thread, error)
	GetThreadMessages(ctx context.Context, threadID int64) (api.ThreadWithMessages, error)
	SendMessage(ctx context.Context, req api.MessageRequest) (api.ChatResponse, error)
	DeleteThread(ctx context.Context, threadID int64) (api.DeleteResponse, error)
}

// BackendFactory builds a Backend for a base URL. It is used when the user
// points the app at a different backend from the settings modal.
type BackendFactory func(baseURL string) Backend

// Model is the main Bubble Tea model
type Model struct {
	config     *config.Config
	version    string
	backend    Backend
	newBackend BackendFactory
	apiURL     string

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chat    *ui.Chat
	modal   *ui.Modal

	width  int
	height int
	focus  Focus

	state *ChatState

	// windowFocused tracks terminal focus so replies that arrive while the
	// user is elsewhere can raise a notification.
	windowFocused bool

	copyText  func(string) error
	pasteText func() (string, error)
	now       func() time.Time
}

// Option customizes a Model.
type Option func(*Model)

// WithBackendFactory sets how a Backend is built when the API URL changes.
func WithBackendFactory(f BackendFactory) Option {
	return func(m *Model) { m.newBackend = f }
}

// WithClipboard replaces the system clipboard.
func WithClipboard(write func(string) error, read func() (string, error)) Option {
	return func(m *Model) {
		m.copyText = write
		m.pasteText = read
	}
}

// WithClock replaces time.Now, used for thread titles and timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// StartupModalMsg is sent on app start to trigger the first-run help modal
type StartupModalMsg struct{}

// New creates a new app model talking to backend at apiURL.
func New(cfg *config.Config, backend Backend, apiURL, version string, opts ...Option) *Model {
	// Load saved theme from config, or use default
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	m := &Model{
		config:  cfg,
		version: version,
		backend: backend,
		newBackend: func(baseURL string) Backend {
			return api.NewClient(baseURL, version)
		},
		apiURL:        apiURL,
		header:        ui.NewHeader(),
		footer:        ui.NewFooter(),
		sidebar:       ui.NewSidebar(),
		chat:          ui.NewChat(),
		modal:         ui.NewModal(),
		focus:         FocusSidebar,
		state:         NewChatState(),
		windowFocused: true,
		copyText:      clipboard.WriteText,
		pasteText:     clipboard.ReadText,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.sidebar.SetFocused(true)
	return m
}

// Init loads the thread list and checks whether to show the first-run help.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadThreads(),
		func() tea.Msg { return StartupModalMsg{} },
	)
}

// State returns the conversation state. It is read-only outside the app.
func (m *Model) State() *ChatState {
	return m.state
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.FocusMsg:
		m.windowFocused = true
		return m, nil

	case tea.BlurMsg:
		m.windowFocused = false
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case StartupModalMsg:
		return m.handleStartupModal()

	case ThreadsLoadedMsg:
		return m.handleThreadsLoaded(msg)

	case MessagesLoadedMsg:
		return m.handleMessagesLoaded(msg)

	case ThreadCreatedMsg:
		return m.handleThreadCreated(msg)

	case ThreadDeletedMsg:
		return m.handleThreadDeleted(msg)

	case ReplyMsg:
		return m.handleReply(msg)

	case ui.SubmitMsg:
		return m.sendMessage(msg.Text)

	case modals.HelpShortcutTriggeredMsg:
		return m.handleHelpShortcutTrigger(msg.Key)

	case ui.FlashTickMsg:
		// Keep ticking until the flash expires
		if m.footer.ClearIfExpired() {
			return m, ui.FlashTick()
		}
		return m, nil

	case ui.SelectionCopiedMsg:
		return m, m.copySelection(msg.Text)

	case ui.SelectionFlashTickMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg, tea.MouseWheelMsg:
		if cmd, ok := m.routeMouse(msg.(tea.MouseMsg)); ok {
			return m, cmd
		}

	case ui.SidebarTickMsg:
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd

	case ui.StopwatchTickMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	// Everything else (cursor blink, sidebar wheel) goes to whatever has focus
	if m.modal.IsVisible() {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	if m.focus == FocusChat {
		m.chat, cmd = m.chat.Update(msg)
	} else {
		m.sidebar, cmd = m.sidebar.Update(msg)
	}
	return m, cmd
}

// handleKey handles all keyboard input: modal first, then app-level keys,
// then the registry, then whichever panel has focus.
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	logger.Log("App: KeyPressMsg received: key=%q, focus=%v, modalVisible=%v", key, m.focus, m.modal.IsVisible())

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	if key == keys.CtrlC {
		return m, tea.Quit
	}

	if key == keys.Escape {
		if m.sidebar.IsSearchMode() {
			m.sidebar.ExitSearchMode()
			return m, nil
		}
		if m.focus == FocusChat {
			return m, m.setFocus(FocusSidebar)
		}
	}

	if result, cmd, handled := m.ExecuteShortcut(key); handled {
		return result, cmd
	}

	if key == keys.Enter && m.focus == FocusSidebar && !m.sidebar.IsSearchMode() {
		return m.handleEnterKey()
	}

	var cmd tea.Cmd
	if m.focus == FocusChat {
		m.chat, cmd = m.chat.Update(msg)
	} else {
		m.sidebar, cmd = m.sidebar.Update(msg)
	}
	return m, cmd
}

// handleEnterKey opens the thread under the sidebar cursor and moves focus
// to the input.
func (m *Model) handleEnterKey() (tea.Model, tea.Cmd) {
	t := m.sidebar.SelectedThread()
	if t == nil {
		return m, nil
	}
	var cmds []tea.Cmd
	if m.state.Current == nil || m.state.Current.ID != t.ID {
		cmds = append(cmds, m.selectThread(t))
	}
	cmds = append(cmds, m.setFocus(FocusChat))
	return m, tea.Batch(cmds...)
}

// setFocus moves keyboard focus between the sidebar and the chat panel.
// Chat focus needs an open thread.
func (m *Model) setFocus(f Focus) tea.Cmd {
	if f == FocusChat && m.state.Current == nil {
		return nil
	}
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	cmd := m.chat.SetFocused(f == FocusChat)
	logger.WithComponent("app").Debug("focus changed", "focus", f)
	return cmd
}

// toggleFocus switches between sidebar and chat
func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == FocusSidebar {
		return m.setFocus(FocusChat)
	}
	return m.setFocus(FocusSidebar)
}

// syncViews pushes the conversation state into the components.
func (m *Model) syncViews() {
	m.sidebar.SetThreads(m.state.Threads)
	m.sidebar.SetCurrentThread(m.state.Current)
	m.chat.SetThread(m.state.Current, m.state.Messages)
	if m.state.Current != nil {
		m.header.SetThreadTitle(m.state.Current.Title)
	} else {
		m.header.SetThreadTitle("")
		if m.focus == FocusChat {
			m.setFocus(FocusSidebar)
		}
	}
}
