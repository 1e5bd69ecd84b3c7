package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/travelchat/internal/api"
	"github.com/zhubert/travelchat/internal/keys"
)

// StopwatchTickMsg is sent to update the stopwatch display
type StopwatchTickMsg time.Time

// waitingVerbs are status messages shown while the assistant is answering
var waitingVerbs = []string{
	"Thinking",
	"Planning",
	"Pondering",
	"Researching",
	"Mapping",
	"Packing",
	"Charting",
	"Scouting",
	"Sightseeing",
	"Wandering",
	"Exploring",
	"Navigating",
	"Consulting the guidebook",
	"Checking the timetables",
	"Considering",
}

// randomWaitingVerb returns a random verb from the list
func randomWaitingVerb() string {
	return waitingVerbs[rand.Intn(len(waitingVerbs))]
}

// Chat is the right panel: the open thread's history above the input.
type Chat struct {
	viewport viewport.Model
	input    *Input
	width    int
	height   int
	focused  bool

	thread   *api.Thread
	messages []api.Message

	waiting       bool      // Waiting for the assistant's reply
	waitStartTime time.Time // When waiting started (for stopwatch)
	waitingVerb   string

	selection *TextSelection

	now func() time.Time
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport:  vp,
		input:     NewInput(),
		selection: NewTextSelection(),
		now:       time.Now,
	}
	c.updateContent()
	return c
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.input.SetWidth(width)
	c.layout()
}

// layout sizes the viewport to whatever the input leaves over.
func (c *Chat) layout() {
	ctx := GetViewContext()
	panelHeight := c.height - c.input.Height()
	c.viewport.SetWidth(max(ctx.InnerWidth(c.width), 1))
	c.viewport.SetHeight(max(ctx.InnerHeight(panelHeight)-ChatHeaderHeight, 1))
	c.updateContent()
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) tea.Cmd {
	c.focused = focused
	if focused {
		return c.input.Focus()
	}
	c.input.Blur()
	return nil
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// Input returns the message input.
func (c *Chat) Input() *Input {
	return c.input
}

// SetThread shows thread with messages; nil clears the panel to the
// no-conversation hint.
func (c *Chat) SetThread(thread *api.Thread, messages []api.Message) {
	if thread == nil {
		c.ClearThread()
		return
	}
	t := *thread
	c.thread = &t
	c.messages = messages
	c.selection.Clear()
	c.input.SetDisabled(false)
	c.updateContent()
}

// ClearThread returns the panel to the no-conversation state.
func (c *Chat) ClearThread() {
	c.thread = nil
	c.messages = nil
	c.selection.Clear()
	c.input.SetDisabled(true)
	c.input.Reset()
	c.updateContent()
}

// HasThread reports whether a conversation is open.
func (c *Chat) HasThread() bool {
	return c.thread != nil
}

// SetMessages replaces the rendered history.
func (c *Chat) SetMessages(messages []api.Message) {
	c.messages = messages
	c.selection.Clear()
	c.updateContent()
}

// Messages returns the rendered history.
func (c *Chat) Messages() []api.Message {
	return c.messages
}

// SetWaiting toggles the reply indicator and blocks the input while it is on.
func (c *Chat) SetWaiting(waiting bool) {
	c.waiting = waiting
	c.input.SetLoading(waiting)
	if waiting {
		c.waitStartTime = c.now()
		c.waitingVerb = randomWaitingVerb()
	}
	c.updateContent()
}

// IsWaiting returns whether we're waiting for a reply
func (c *Chat) IsWaiting() bool {
	return c.waiting
}

// StopwatchTick returns a command that sends a tick message after a delay
func StopwatchTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return StopwatchTickMsg(t)
	})
}

// formatElapsed formats a duration as a stopwatch string (e.g., "1.2s", "1:23")
func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// MessageCountLabel returns the header subtitle for n messages.
func MessageCountLabel(n int) string {
	if n == 0 {
		return "Start a conversation"
	}
	return fmt.Sprintf("%d messages", n)
}

func (c *Chat) updateContent() {
	wrapWidth := c.viewport.Width()
	if wrapWidth <= 0 {
		wrapWidth = DefaultWrapWidth
	}

	var sb strings.Builder
	if c.thread == nil {
		sb.WriteString(renderNoThreadMessage())
	} else {
		sb.WriteString(RenderMessages(c.messages, wrapWidth, c.now()))
		if c.waiting {
			stopwatchStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
			sb.WriteString("\n\n")
			sb.WriteString(ChatAssistantStyle.Render(RoleLabel(api.RoleAssistant)))
			sb.WriteString("\n")
			sb.WriteString(StatusLoadingStyle.Render(c.waitingVerb + "... "))
			sb.WriteString(stopwatchStyle.Render(formatElapsed(c.now().Sub(c.waitStartTime))))
		}
	}

	c.viewport.SetContent(sb.String())
	c.viewport.GotoBottom()
}

// Update handles messages
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	switch msg := msg.(type) {
	case StopwatchTickMsg:
		if !c.waiting {
			return c, nil
		}
		c.updateContent()
		return c, StopwatchTick()

	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft || c.thread == nil {
			return c, nil
		}
		return c, c.handleMouseClick(msg.X, msg.Y)

	case tea.MouseMotionMsg:
		if c.selection.Active {
			c.EndSelection(c.clampedPos(msg.X, msg.Y))
		}
		return c, nil

	case tea.MouseReleaseMsg:
		if !c.selection.Active {
			return c, nil
		}
		c.SelectionStop()
		return c, c.CopySelectedText()

	case SelectionFlashTickMsg:
		if c.selection.FlashFrame >= 0 {
			c.SelectionClear()
		}
		return c, nil

	case tea.PasteMsg:
		if !c.focused || c.thread == nil {
			return c, nil
		}
		return c, c.updateInput(msg)

	case tea.KeyPressMsg:
		if !c.focused || c.thread == nil {
			return c, nil
		}
		switch msg.String() {
		case keys.PgUp, keys.PgDown, keys.CtrlUp, keys.CtrlDown:
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}

		// Keys go to the input only, so arrows and space never scroll while typing
		return c, c.updateInput(msg)
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

// updateInput forwards msg to the input and relayouts when it grows or shrinks.
func (c *Chat) updateInput(msg tea.Msg) tea.Cmd {
	before := c.input.Height()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	if c.input.Height() != before {
		c.layout()
	}
	return cmd
}

// InsertText pastes s into the input at the cursor.
func (c *Chat) InsertText(s string) {
	if c.thread == nil {
		return
	}
	before := c.input.Height()
	c.input.InsertText(s)
	if c.input.Height() != before {
		c.layout()
	}
}

// ScrollPage scrolls the history by a page without going through the input.
func (c *Chat) ScrollPage(up bool) {
	if up {
		c.viewport.PageUp()
	} else {
		c.viewport.PageDown()
	}
}

// AtBottom reports whether the latest message is in view.
func (c *Chat) AtBottom() bool {
	return c.viewport.AtBottom()
}

func (c *Chat) renderHeader(innerWidth int) string {
	title := PanelTitleStyle.Render(ansi.Truncate(c.thread.Title, max(innerWidth, 1), "…"))
	count := lipgloss.NewStyle().Foreground(ColorTextMuted).Render(MessageCountLabel(len(c.messages)))
	return title + "\n" + count
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
	}

	if c.thread == nil {
		return panelStyle.Width(c.width).Height(c.height).Render(renderNoThreadMessage())
	}

	innerWidth := GetViewContext().InnerWidth(c.width)
	body := lipgloss.JoinVertical(lipgloss.Left, c.renderHeader(innerWidth), c.selectionView(c.viewport.View()))
	chatPanel := panelStyle.Width(c.width).Height(c.height - c.input.Height()).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, chatPanel, c.input.View())
}
