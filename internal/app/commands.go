package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/travelchat/internal/api"
	"github.com/zhubert/travelchat/internal/logger"
)

// ThreadTitleLayout formats the creation time used as a new thread's title.
const ThreadTitleLayout = "1/2/2006, 3:04:05 PM"

// Every result below carries the Epoch of the backend it was requested
// from. Results from a backend the user has since switched away from are
// dropped.

// ThreadsLoadedMsg carries the result of listing threads.
type ThreadsLoadedMsg struct {
	Epoch   uint64
	Threads []api.Thread
	Err     error
}

// MessagesLoadedMsg carries a thread's history, tagged with the selection
// generation it was requested under.
type MessagesLoadedMsg struct {
	Epoch      uint64
	ThreadID   int64
	Generation uint64
	Messages   []api.Message
	Err        error
}

// ThreadCreatedMsg carries the result of creating a thread.
type ThreadCreatedMsg struct {
	Epoch  uint64
	Thread api.Thread
	Err    error
}

// ThreadDeletedMsg carries the result of deleting a thread.
type ThreadDeletedMsg struct {
	Epoch    uint64
	ThreadID int64
	Err      error
}

// ReplyMsg carries the assistant's answer to a sent message.
type ReplyMsg struct {
	Epoch      uint64
	ThreadID   int64
	Generation uint64
	Reply      string
	Err        error
}

// NewThreadTitle is the title given to a thread created at t.
func NewThreadTitle(t time.Time) string {
	return "Chat " + t.Format(ThreadTitleLayout)
}

// The commands below carry no deadline. A request runs until the backend
// answers or the connection fails, and leaving a thread does not abort it.

func (m *Model) loadThreads() tea.Cmd {
	backend, epoch := m.backend, m.state.Epoch()
	return func() tea.Msg {
		threads, err := backend.GetThreads(context.Background())
		return ThreadsLoadedMsg{Epoch: epoch, Threads: threads, Err: err}
	}
}

func (m *Model) loadMessages(threadID int64, gen uint64) tea.Cmd {
	backend, epoch := m.backend, m.state.Epoch()
	return func() tea.Msg {
		resp, err := backend.GetThreadMessages(context.Background(), threadID)
		return MessagesLoadedMsg{Epoch: epoch, ThreadID: threadID, Generation: gen, Messages: resp.Messages, Err: err}
	}
}

func (m *Model) createThread() tea.Cmd {
	backend, epoch := m.backend, m.state.Epoch()
	title := NewThreadTitle(m.now())
	return func() tea.Msg {
		thread, err := backend.CreateThread(context.Background(), title)
		return ThreadCreatedMsg{Epoch: epoch, Thread: thread, Err: err}
	}
}

func (m *Model) deleteThread(threadID int64) tea.Cmd {
	backend, epoch := m.backend, m.state.Epoch()
	return func() tea.Msg {
		_, err := backend.DeleteThread(context.Background(), threadID)
		return ThreadDeletedMsg{Epoch: epoch, ThreadID: threadID, Err: err}
	}
}

func (m *Model) askAssistant(req api.MessageRequest, gen uint64) tea.Cmd {
	backend, epoch := m.backend, m.state.Epoch()
	return func() tea.Msg {
		logger.WithThread(req.ThreadID).Debug("sending question", "length", len(req.Question))
		resp, err := backend.SendMessage(context.Background(), req)
		return ReplyMsg{Epoch: epoch, ThreadID: req.ThreadID, Generation: gen, Reply: resp.Response, Err: err}
	}
}
