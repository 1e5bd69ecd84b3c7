package modals

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/travelchat/internal/keys"
)

// ConfirmDeleteMessage is the question asked before a conversation is deleted.
const ConfirmDeleteMessage = "Are you sure you want to delete this conversation?"

const (
	confirmDeleteOption = "Delete"
	confirmCancelOption = "Cancel"
)

// ConfirmDeleteState asks the user to confirm deleting a thread.
type ConfirmDeleteState struct {
	ThreadID      int64
	ThreadTitle   string
	Options       []string
	SelectedIndex int
}

func (*ConfirmDeleteState) modalState() {}

func (s *ConfirmDeleteState) Title() string { return "Delete Conversation?" }

func (s *ConfirmDeleteState) Help() string {
	return "up/down to select, Enter to confirm, Esc to cancel"
}

func (s *ConfirmDeleteState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	threadLabel := lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		MarginBottom(1).
		Render(TruncateString(s.ThreadTitle, ModalInputWidth))

	message := lipgloss.NewStyle().
		Foreground(ColorText).
		MarginBottom(1).
		Render(ConfirmDeleteMessage)

	optionList := RenderSelectableList(s.Options, s.SelectedIndex)
	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, threadLabel, message, optionList, help)
}

func (s *ConfirmDeleteState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Up, "k":
			if s.SelectedIndex > 0 {
				s.SelectedIndex--
			}
		case keys.Down, "j":
			if s.SelectedIndex < len(s.Options)-1 {
				s.SelectedIndex++
			}
		}
	}
	return s, nil
}

// Confirmed reports whether the highlighted option is the delete option.
func (s *ConfirmDeleteState) Confirmed() bool {
	return s.SelectedIndex >= 0 && s.SelectedIndex < len(s.Options) &&
		s.Options[s.SelectedIndex] == confirmDeleteOption
}

// NewConfirmDeleteState creates a new ConfirmDeleteState
func NewConfirmDeleteState(threadID int64, threadTitle string) *ConfirmDeleteState {
	return &ConfirmDeleteState{
		ThreadID:      threadID,
		ThreadTitle:   threadTitle,
		Options:       []string{confirmDeleteOption, confirmCancelOption},
		SelectedIndex: 0,
	}
}
