package ui

import (
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/travelchat/internal/keys"
)

const (
	inputPlaceholder         = "Ask about travel destinations, itineraries, or recommendations..."
	inputDisabledPlaceholder = "Select or create a conversation to start chatting"
)

// SubmitMsg carries a trimmed, non-empty message the user sent.
type SubmitMsg struct {
	Text string
}

// Input is the message box under the chat history. It owns the draft and
// refuses to submit while a reply is pending or no thread is open.
type Input struct {
	textarea textarea.Model
	width    int
	focused  bool
	loading  bool
	disabled bool
}

// NewInput creates an empty input. It starts disabled until a thread is open.
func NewInput() *Input {
	ta := textarea.New()
	ta.Placeholder = inputDisabledPlaceholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = InputCharLimit
	ta.KeyMap.InsertNewline = key.NewBinding(
		key.WithKeys(keys.ShiftEnter, keys.CtrlJ),
		key.WithHelp("shift+enter", "insert newline"),
	)
	ta.SetHeight(InputMinLines)
	applyInputStyles(&ta)

	return &Input{textarea: ta, disabled: true}
}

// applyInputStyles drops the textarea's default background so the terminal's
// own background shows through.
func applyInputStyles(ta *textarea.Model) {
	styles := ta.Styles()
	text := lipgloss.NewStyle().Foreground(ColorText)
	placeholder := lipgloss.NewStyle().Foreground(ColorTextMuted)

	styles.Focused.Base = lipgloss.NewStyle()
	styles.Focused.Text = text
	styles.Focused.Placeholder = placeholder
	styles.Focused.CursorLine = text
	styles.Blurred = styles.Focused
	ta.SetStyles(styles)
}

// SetWidth sets the outer width of the input including border and padding.
func (i *Input) SetWidth(width int) {
	i.width = width
	i.textarea.SetWidth(max(width-BorderSize-InputPaddingWidth, 1))
	i.resize()
}

// Focus gives the input keyboard focus.
func (i *Input) Focus() tea.Cmd {
	i.focused = true
	return i.textarea.Focus()
}

// Blur removes keyboard focus.
func (i *Input) Blur() {
	i.focused = false
	i.textarea.Blur()
}

// SetLoading blocks submission while a reply is pending.
func (i *Input) SetLoading(loading bool) {
	i.loading = loading
}

// IsLoading reports whether submission is blocked by a pending reply.
func (i *Input) IsLoading() bool {
	return i.loading
}

// SetDisabled blocks submission when there is no thread to send to.
func (i *Input) SetDisabled(disabled bool) {
	i.disabled = disabled
	if disabled {
		i.textarea.Placeholder = inputDisabledPlaceholder
	} else {
		i.textarea.Placeholder = inputPlaceholder
	}
}

// Value returns the raw draft.
func (i *Input) Value() string {
	return i.textarea.Value()
}

// SetValue replaces the draft.
func (i *Input) SetValue(v string) {
	i.textarea.SetValue(v)
	i.resize()
}

// InsertText inserts s at the cursor.
func (i *Input) InsertText(s string) {
	if i.disabled {
		return
	}
	i.textarea.InsertString(s)
	i.resize()
}

// Reset clears the draft.
func (i *Input) Reset() {
	i.textarea.Reset()
	i.resize()
}

// CanSubmit reports whether Submit would accept the current draft.
func (i *Input) CanSubmit() bool {
	return strings.TrimSpace(i.textarea.Value()) != "" && !i.loading && !i.disabled
}

// Submit returns the trimmed draft and clears it. When the draft is blank,
// a reply is pending or the input is disabled it returns false and the
// draft is left alone.
func (i *Input) Submit() (string, bool) {
	if !i.CanSubmit() {
		return "", false
	}
	text := strings.TrimSpace(i.textarea.Value())
	i.Reset()
	return text, true
}

// Lines returns the number of visible text rows, between InputMinLines and
// InputMaxLines.
func (i *Input) Lines() int {
	return visualLineCount(i.textarea.Value(), i.textarea.Width())
}

// Height returns the total rendered height including the border.
func (i *Input) Height() int {
	return i.Lines() + InputBorderHeight
}

func (i *Input) resize() {
	i.textarea.SetHeight(i.Lines())
}

// visualLineCount counts wrapped rows for value at width, clamped to the
// input's line bounds.
func visualLineCount(value string, width int) int {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	rows := 0
	for _, line := range strings.Split(value, "\n") {
		w := ansi.StringWidth(line)
		// The cursor needs a cell after the last character
		rows += max(1, (w+width)/width)
		if rows >= InputMaxLines {
			return InputMaxLines
		}
	}
	return max(rows, InputMinLines)
}

// Update handles key presses. Enter submits; everything else edits the draft.
func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok && keyMsg.String() == keys.Enter {
		text, ok := i.Submit()
		if !ok {
			return i, nil
		}
		return i, func() tea.Msg { return SubmitMsg{Text: text} }
	}

	var cmd tea.Cmd
	i.textarea, cmd = i.textarea.Update(msg)
	i.resize()
	return i, cmd
}

// View renders the input with its border.
func (i *Input) View() string {
	style := ChatInputStyle
	if i.focused {
		style = ChatInputFocusedStyle
	}
	return style.Width(i.width).Render(i.textarea.View())
}
