package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/travelchat/internal/api"
	"github.com/zhubert/travelchat/internal/logger"
	"github.com/zhubert/travelchat/internal/notification"
	"github.com/zhubert/travelchat/internal/ui"
	"github.com/zhubert/travelchat/internal/ui/modals"
)

// Alert copy for a failed delete.
const (
	DeleteFailedTitle   = "Delete Failed"
	DeleteFailedMessage = "Failed to delete thread"
)

// handleStartupModal shows the shortcut list on the very first run.
func (m *Model) handleStartupModal() (tea.Model, tea.Cmd) {
	if m.config.HasSeenWelcome() {
		return m, nil
	}
	m.config.MarkWelcomeShown()
	if err := m.config.Save(); err != nil {
		logger.WithComponent("app").Warn("failed to save welcome flag", "error", err)
	}
	m.modal.Show(modals.NewHelpState(m.getApplicableHelpSections(ShortcutRegistry, DisplayOnlyShortcuts)))
	return m, nil
}

// selectThread makes t current and fetches its history.
func (m *Model) selectThread(t *api.Thread) tea.Cmd {
	gen := m.state.Select(t)
	m.syncViews()
	logger.WithThread(t.ID).Debug("thread selected", "generation", gen)
	return m.loadMessages(t.ID, gen)
}

// fromOtherBackend reports whether a result was requested from a backend
// the app has since switched away from.
func (m *Model) fromOtherBackend(epoch uint64, result string) bool {
	if m.state.IsEpoch(epoch) {
		return false
	}
	logger.WithComponent("app").Debug("discarding result from previous backend", "result", result, "epoch", epoch)
	return true
}

func (m *Model) handleThreadsLoaded(msg ThreadsLoadedMsg) (tea.Model, tea.Cmd) {
	if m.fromOtherBackend(msg.Epoch, "threads") {
		return m, nil
	}
	log := logger.WithComponent("app")
	if msg.Err != nil {
		log.Error("failed to load threads", "error", msg.Err)
		m.header.SetOffline(true)
		return m, m.flashError("Could not reach the travel assistant")
	}
	m.header.SetOffline(false)
	log.Info("threads loaded", "count", len(msg.Threads))

	selected := m.state.SetThreads(msg.Threads)
	m.syncViews()
	if selected {
		return m, m.loadMessages(m.state.Current.ID, m.state.Generation())
	}
	return m, nil
}

func (m *Model) handleMessagesLoaded(msg MessagesLoadedMsg) (tea.Model, tea.Cmd) {
	if m.fromOtherBackend(msg.Epoch, "messages") {
		return m, nil
	}
	log := logger.WithThread(msg.ThreadID)
	if msg.Err != nil {
		log.Error("failed to load messages", "error", msg.Err)
		if m.state.IsFresh(msg.ThreadID, msg.Generation) {
			return m, m.flashError("Could not load this conversation")
		}
		return m, nil
	}
	if !m.state.ApplyMessages(msg.ThreadID, msg.Generation, msg.Messages) {
		log.Debug("discarding stale history", "generation", msg.Generation)
		return m, nil
	}
	m.chat.SetMessages(m.state.Messages)
	return m, nil
}

func (m *Model) handleThreadCreated(msg ThreadCreatedMsg) (tea.Model, tea.Cmd) {
	if m.fromOtherBackend(msg.Epoch, "created thread") {
		return m, nil
	}
	if msg.Err != nil {
		logger.WithComponent("app").Error("failed to create thread", "error", msg.Err)
		return m, m.flashError("Could not create a new conversation")
	}
	m.header.SetOffline(false)
	gen := m.state.PrependThread(msg.Thread)
	m.syncViews()
	logger.WithThread(msg.Thread.ID).Info("thread created", "title", msg.Thread.Title)
	return m, tea.Batch(m.loadMessages(msg.Thread.ID, gen), m.setFocus(FocusChat))
}

// confirmDelete starts deleting a thread the user confirmed.
func (m *Model) confirmDelete(threadID int64) tea.Cmd {
	if m.sidebar.IsDeleting(threadID) {
		return nil
	}
	alreadyTicking := m.sidebar.HasDeleting()
	m.sidebar.SetDeleting(threadID, true)
	logger.WithThread(threadID).Info("deleting thread")
	if alreadyTicking {
		return m.deleteThread(threadID)
	}
	return tea.Batch(m.deleteThread(threadID), ui.SidebarTick())
}

func (m *Model) handleThreadDeleted(msg ThreadDeletedMsg) (tea.Model, tea.Cmd) {
	if m.fromOtherBackend(msg.Epoch, "deleted thread") {
		return m, nil
	}
	m.sidebar.SetDeleting(msg.ThreadID, false)
	log := logger.WithThread(msg.ThreadID)
	if msg.Err != nil {
		log.Error("failed to delete thread", "error", msg.Err)
		m.modal.Show(modals.NewAlertState(DeleteFailedTitle, DeleteFailedMessage))
		return m, nil
	}
	log.Info("thread deleted")

	changed := m.state.RemoveThread(msg.ThreadID)
	m.syncViews()
	if changed && m.state.Current != nil {
		return m, m.loadMessages(m.state.Current.ID, m.state.Generation())
	}
	return m, nil
}

// sendMessage posts text to the open thread. Blank text, no open thread or
// a send already in flight make it a no-op.
func (m *Model) sendMessage(text string) (tea.Model, tea.Cmd) {
	req, ok := m.state.BeginSend(text)
	if !ok {
		return m, nil
	}
	m.chat.SetMessages(m.state.Messages)
	m.chat.SetWaiting(true)
	return m, tea.Batch(m.askAssistant(req, m.state.Generation()), ui.StopwatchTick())
}

func (m *Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	if m.fromOtherBackend(msg.Epoch, "reply") {
		return m, nil
	}
	log := logger.WithThread(msg.ThreadID)
	if msg.Err != nil {
		log.Error("failed to get reply", "error", msg.Err)
	} else {
		log.Info("reply received", "length", len(msg.Reply))
	}

	fresh := m.state.FinishSend(msg.ThreadID, msg.Generation, msg.Reply, msg.Err)
	if !m.state.IsLoading {
		m.chat.SetWaiting(false)
	}

	var cmds []tea.Cmd
	if fresh {
		m.chat.SetMessages(m.state.Messages)
	} else {
		log.Debug("reply arrived for a thread that is no longer open")
		if msg.Err == nil {
			cmds = append(cmds, m.flashInfo("New reply in "+m.threadTitle(msg.ThreadID)))
		}
	}

	if msg.Err == nil && !m.windowFocused && m.config.GetNotificationsEnabled() {
		title := m.threadTitle(msg.ThreadID)
		cmds = append(cmds, func() tea.Msg {
			// Send logs its own failures
			_ = notification.ReplyReady(title)
			return nil
		})
	}
	return m, tea.Batch(cmds...)
}

// threadTitle looks up the title of a listed thread.
func (m *Model) threadTitle(id int64) string {
	for _, t := range m.state.Threads {
		if t.ID == id {
			return t.Title
		}
	}
	return api.DefaultThreadTitle
}
