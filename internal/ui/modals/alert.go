package modals

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// AlertState is a blocking message the user has to dismiss with Enter or Esc.
type AlertState struct {
	title   string
	Message string
}

func (*AlertState) modalState() {}

func (s *AlertState) Title() string { return s.title }

func (s *AlertState) Help() string {
	return "Press Enter or Esc to dismiss"
}

func (s *AlertState) Render() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorError).
		MarginBottom(1).
		Render(s.Title())

	message := lipgloss.NewStyle().
		Foreground(ColorText).
		Width(max(ModalWidth-6, 20)).
		Render(s.Message)

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, message, help)
}

func (s *AlertState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	return s, nil
}

// NewAlertState creates an alert. An empty title becomes "Error".
func NewAlertState(title, message string) *AlertState {
	if title == "" {
		title = "Error"
	}
	return &AlertState{title: title, Message: message}
}
