package app

import (
	"slices"
	"strings"

	"github.com/zhubert/travelchat/internal/api"
)

// FallbackReply is appended in place of the assistant's answer when a send fails.
const FallbackReply = "Sorry, I encountered an error. Please try again."

// ChatState is the conversation state the app owns: the thread list, the
// open thread, its messages and whether a send is in flight.
//
// Every selection change bumps a generation counter. Asynchronous results
// carry the generation they were started under and are dropped when it no
// longer matches, so a slow response never lands in the wrong thread.
// The counter never goes back, not even across Reset. Results also carry
// the epoch of the backend they came from, which Reset advances.
type ChatState struct {
	Threads   []api.Thread
	Current   *api.Thread
	Messages  []api.Message
	IsLoading bool

	generation uint64
	epoch      uint64
	sendGen    uint64 // generation of the send holding IsLoading

	// pending holds the messages added since the last applied history. A
	// history fetched before they reached the backend must not drop them.
	pending []api.Message
}

// NewChatState creates an empty state with no thread selected.
func NewChatState() *ChatState {
	return &ChatState{}
}

// Generation returns the current selection generation.
func (s *ChatState) Generation() uint64 {
	return s.generation
}

// Epoch identifies the backend the state was loaded from.
func (s *ChatState) Epoch() uint64 {
	return s.epoch
}

// IsEpoch reports whether a result started under epoch came from the
// current backend.
func (s *ChatState) IsEpoch(epoch uint64) bool {
	return epoch == s.epoch
}

// Reset empties the state for a different backend. The epoch and the
// generation both move on, so nothing started before the reset applies
// after it.
func (s *ChatState) Reset() {
	s.epoch++
	s.Threads = nil
	s.IsLoading = false
	s.sendGen = 0
	s.Select(nil)
}

// IsCurrent reports whether id is the selected thread.
func (s *ChatState) IsCurrent(id int64) bool {
	return s.Current != nil && s.Current.ID == id
}

// IsFresh reports whether a result for threadID started under gen still
// applies to the current selection.
func (s *ChatState) IsFresh(threadID int64, gen uint64) bool {
	return gen == s.generation && s.IsCurrent(threadID)
}

// SetThreads replaces the thread list. The current thread stays selected
// while the list still has it. Otherwise the first thread is selected, or
// the selection is cleared for an empty list. The returned bool reports
// whether a thread was newly selected and needs its history.
func (s *ChatState) SetThreads(threads []api.Thread) bool {
	s.Threads = threads
	if s.Current != nil && containsThread(threads, s.Current.ID) {
		return false
	}
	if len(threads) == 0 {
		if s.Current != nil {
			s.Select(nil)
		}
		return false
	}
	s.Select(&threads[0])
	return true
}

func containsThread(threads []api.Thread, id int64) bool {
	for _, t := range threads {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Select makes thread current and clears the message list until the
// thread's history arrives. nil clears the selection.
func (s *ChatState) Select(thread *api.Thread) uint64 {
	s.generation++
	s.Messages = nil
	s.pending = nil
	if thread == nil {
		s.Current = nil
		return s.generation
	}
	t := *thread
	s.Current = &t
	return s.generation
}

// ApplyMessages replaces the message list with a fetched history. Results
// for a stale selection are ignored and false is returned. Messages added
// since the last history are kept after it, unless the history already ends
// with them. A nil history is stored as empty.
func (s *ChatState) ApplyMessages(threadID int64, gen uint64, msgs []api.Message) bool {
	if !s.IsFresh(threadID, gen) {
		return false
	}
	merged := make([]api.Message, 0, len(msgs)+len(s.pending))
	merged = append(merged, msgs...)
	merged = append(merged, s.pending[historyOverlap(msgs, s.pending):]...)
	s.Messages = merged
	s.pending = nil
	return true
}

// historyOverlap returns how many leading pending messages the history
// already ends with.
func historyOverlap(history, pending []api.Message) int {
	for k := min(len(history), len(pending)); k > 0; k-- {
		if slices.Equal(history[len(history)-k:], pending[:k]) {
			return k
		}
	}
	return 0
}

// appendMessage adds msg to the open thread.
func (s *ChatState) appendMessage(msg api.Message) {
	s.Messages = append(s.Messages, msg)
	s.pending = append(s.pending, msg)
}

// PrependThread puts a newly created thread at the top of the list and
// selects it.
func (s *ChatState) PrependThread(thread api.Thread) uint64 {
	s.Threads = append([]api.Thread{thread}, s.Threads...)
	return s.Select(&thread)
}

// RemoveThread drops a deleted thread from the list. When it was current,
// the first remaining thread is selected, or the selection is cleared when
// none remain; the returned bool reports whether the selection changed.
func (s *ChatState) RemoveThread(id int64) bool {
	threads := make([]api.Thread, 0, len(s.Threads))
	for _, t := range s.Threads {
		if t.ID != id {
			threads = append(threads, t)
		}
	}
	s.Threads = threads

	if !s.IsCurrent(id) {
		return false
	}
	if len(threads) > 0 {
		s.Select(&threads[0])
	} else {
		s.Select(nil)
	}
	return true
}

// BeginSend validates a send and applies its optimistic half: the user's
// message is appended and IsLoading is set. It returns false, changing
// nothing, when no thread is open, text is blank or a send is in flight.
func (s *ChatState) BeginSend(text string) (api.MessageRequest, bool) {
	text = strings.TrimSpace(text)
	if s.Current == nil || text == "" || s.IsLoading {
		return api.MessageRequest{}, false
	}

	s.appendMessage(api.Message{Role: api.RoleUser, Content: text})
	s.IsLoading = true
	s.sendGen = s.generation
	return api.MessageRequest{ThreadID: s.Current.ID, Question: text}, true
}

// FinishSend completes a send started under gen. IsLoading is released
// when gen is the send that set it, even if the user has since left the
// thread. The reply, or FallbackReply when err is set, is appended only
// when the send's thread is still the current selection; the return value
// reports whether it was.
func (s *ChatState) FinishSend(threadID int64, gen uint64, reply string, err error) bool {
	if s.IsLoading && gen == s.sendGen {
		s.IsLoading = false
	}
	if !s.IsFresh(threadID, gen) {
		return false
	}

	content := reply
	if err != nil {
		content = FallbackReply
	}
	s.appendMessage(api.Message{Role: api.RoleAssistant, Content: content})
	return true
}

// LastReply returns the most recent assistant message in the open thread.
func (s *ChatState) LastReply() (string, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == api.RoleAssistant {
			return s.Messages[i].Content, true
		}
	}
	return "", false
}
