package ui

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/travelchat/internal/api"
	"github.com/zhubert/travelchat/internal/keys"
)

func newTestChat() *Chat {
	c := NewChat()
	c.now = func() time.Time { return renderTime }
	c.SetSize(80, 30)
	return c
}

func TestChat_NoThread(t *testing.T) {
	c := newTestChat()

	if c.HasThread() {
		t.Fatal("new chat should have no thread")
	}
	view := ansi.Strip(c.View())
	if !strings.Contains(view, "No conversation selected") {
		t.Errorf("view should show the no-conversation hint:\n%s", view)
	}

	c.SetFocused(true)
	typeText(func(msg tea.Msg) { c.Update(msg) }, "hello")
	if c.Input().Value() != "" {
		t.Error("typing without a thread should not reach the input")
	}
}

func TestChat_SetThread(t *testing.T) {
	c := newTestChat()
	thread := api.Thread{ID: 4, Title: "Kenya trip"}
	msgs := []api.Message{
		{Role: api.RoleUser, Content: "best time to visit Kenya"},
		{Role: api.RoleAssistant, Content: "June to September"},
	}

	c.SetThread(&thread, msgs)

	view := ansi.Strip(c.View())
	for _, want := range []string{"Kenya trip", "2 messages", "best time to visit Kenya", "June to September", "3:04 PM"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q:\n%s", want, view)
		}
	}
}

func TestChat_EmptyThreadShowsWelcome(t *testing.T) {
	c := newTestChat()
	c.SetThread(&api.Thread{ID: 1, Title: api.DefaultThreadTitle}, nil)

	view := ansi.Strip(c.View())
	if !strings.Contains(view, "Start a conversation") {
		t.Error("header should prompt to start a conversation")
	}
	if !strings.Contains(view, WelcomeTitle) {
		t.Error("empty thread should show the welcome text")
	}
}

func TestChat_ClearThreadDisablesInput(t *testing.T) {
	c := newTestChat()
	c.SetThread(&api.Thread{ID: 1, Title: "Lisbon"}, nil)
	c.Input().SetValue("draft")

	c.ClearThread()
	if c.HasThread() || c.Messages() != nil {
		t.Error("ClearThread should drop the thread and messages")
	}
	c.Input().SetValue("draft")
	if _, ok := c.Input().Submit(); ok {
		t.Error("input should be disabled without a thread")
	}

	c.SetThread(nil, nil)
	if c.HasThread() {
		t.Error("SetThread(nil) should clear the thread")
	}
}

func TestChat_Waiting(t *testing.T) {
	c := newTestChat()
	c.SetThread(&api.Thread{ID: 1, Title: "Lisbon"}, []api.Message{{Role: api.RoleUser, Content: "hi"}})

	c.SetWaiting(true)
	if !c.IsWaiting() || !c.Input().IsLoading() {
		t.Fatal("waiting should block the input")
	}
	view := ansi.Strip(c.View())
	if !strings.Contains(view, c.waitingVerb+"...") {
		t.Errorf("view should show the waiting verb %q", c.waitingVerb)
	}
	if !strings.Contains(view, "0.0s") {
		t.Error("view should show the stopwatch")
	}

	if _, cmd := c.Update(StopwatchTickMsg{}); cmd == nil {
		t.Error("stopwatch should keep ticking while waiting")
	}

	c.SetWaiting(false)
	if c.Input().IsLoading() {
		t.Error("input should unblock when waiting ends")
	}
	if _, cmd := c.Update(StopwatchTickMsg{}); cmd != nil {
		t.Error("stopwatch should stop when not waiting")
	}
}

func TestChat_EnterSubmits(t *testing.T) {
	c := newTestChat()
	c.SetThread(&api.Thread{ID: 1, Title: "Lisbon"}, nil)
	c.SetFocused(true)

	typeText(func(msg tea.Msg) { c.Update(msg) }, "where to eat")
	_, cmd := c.Update(keyPressMsg(keys.Enter))
	if cmd == nil {
		t.Fatal("enter should submit")
	}
	if msg, ok := cmd().(SubmitMsg); !ok || msg.Text != "where to eat" {
		t.Errorf("got %#v, want SubmitMsg{where to eat}", cmd())
	}
}

func TestChat_InputGrowthShrinksHistory(t *testing.T) {
	c := newTestChat()
	c.SetThread(&api.Thread{ID: 1, Title: "Lisbon"}, nil)
	c.SetFocused(true)

	before := c.viewport.Height()
	typeText(func(msg tea.Msg) { c.Update(msg) }, "one")
	c.Update(keyPressMsg(keys.ShiftEnter))
	typeText(func(msg tea.Msg) { c.Update(msg) }, "two")

	if got := c.viewport.Height(); got != before-1 {
		t.Errorf("viewport height = %d, want %d after the input grew a line", got, before-1)
	}
}

func TestChat_ScrollKeysDoNotReachInput(t *testing.T) {
	c := newTestChat()
	var msgs []api.Message
	for range 30 {
		msgs = append(msgs, api.Message{Role: api.RoleUser, Content: "line"})
	}
	c.SetThread(&api.Thread{ID: 1, Title: "Lisbon"}, msgs)
	c.SetFocused(true)

	if !c.AtBottom() {
		t.Fatal("history should start scrolled to the bottom")
	}
	c.Update(keyPressMsg(keys.PgUp))
	if c.AtBottom() {
		t.Error("pgup should scroll the history")
	}
	if c.Input().Value() != "" {
		t.Error("scroll keys should not edit the draft")
	}
}

func TestMessageCountLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "Start a conversation"},
		{1, "1 messages"},
		{12, "12 messages"},
	}
	for _, tt := range tests {
		if got := MessageCountLabel(tt.n); got != tt.want {
			t.Errorf("MessageCountLabel(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1200 * time.Millisecond, "1.2s"},
		{59 * time.Second, "59.0s"},
		{83 * time.Second, "1:23"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
