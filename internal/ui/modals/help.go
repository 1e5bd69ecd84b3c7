package modals

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

const helpKeyColumnWidth = 14

// helpItem is one row of the help list: either a section header or a shortcut.
type helpItem struct {
	header   string
	shortcut HelpShortcut
}

func (i helpItem) isHeader() bool { return i.header != "" }

func (i helpItem) FilterValue() string {
	if i.isHeader() {
		return ""
	}
	return i.shortcut.Key + " " + i.shortcut.Desc
}

type helpDelegate struct{}

func (helpDelegate) Height() int                             { return 1 }
func (helpDelegate) Spacing() int                            { return 0 }
func (helpDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (helpDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(helpItem)
	if !ok {
		return
	}
	if it.isHeader() {
		fmt.Fprint(w, lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary).Render(it.header))
		return
	}

	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Width(helpKeyColumnWidth)
	descStyle := lipgloss.NewStyle().Foreground(ColorText)
	prefix := "  "
	if index == m.Index() {
		keyStyle = keyStyle.Foreground(ColorTextInverse).Background(ColorPrimary)
		descStyle = descStyle.Foreground(ColorTextInverse).Background(ColorPrimary)
		prefix = "> "
	}
	fmt.Fprint(w, prefix+keyStyle.Render(it.shortcut.Key)+descStyle.Render(it.shortcut.Desc))
}

// HelpState lists the keyboard shortcuts. Enter on a row triggers it.
type HelpState struct {
	list list.Model
}

func (*HelpState) modalState() {}

func (s *HelpState) Title() string { return "Keyboard Shortcuts" }

func (s *HelpState) Help() string {
	if s.list.SettingFilter() {
		return "Type to filter  Enter: apply  Esc: cancel"
	}
	return "/: filter  up/down: navigate  Enter: trigger  Esc: close"
}

func (s *HelpState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		s.list.View(),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *HelpState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	prev := s.list.Index()
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	s.skipHeader(s.list.Index() < prev)
	return s, cmd
}

// skipHeader moves the cursor off a section header in the direction it was
// travelling, reversing when there is no row that way.
func (s *HelpState) skipHeader(up bool) {
	items := s.list.VisibleItems()
	idx := s.list.Index()
	if idx < 0 || idx >= len(items) {
		return
	}
	if it, ok := items[idx].(helpItem); !ok || !it.isHeader() {
		return
	}
	switch {
	case up && idx > 0:
		s.list.Select(idx - 1)
	case idx+1 < len(items):
		s.list.Select(idx + 1)
	case idx > 0:
		s.list.Select(idx - 1)
	}
}

// SetSize gives the list whatever height is left after the title and help line.
func (s *HelpState) SetSize(width, height int) {
	const titleAndHelpOverhead = 4
	s.list.SetSize(width, max(height-titleAndHelpOverhead, 1))
}

// GetSelectedShortcut returns the highlighted shortcut, or nil on a header
// or an empty list.
func (s *HelpState) GetSelectedShortcut() *HelpShortcut {
	it, ok := s.list.SelectedItem().(helpItem)
	if !ok || it.isHeader() {
		return nil
	}
	return &it.shortcut
}

// IsFiltering returns whether the user is currently typing in the filter.
func (s *HelpState) IsFiltering() bool {
	return s.list.SettingFilter()
}

// NewHelpState builds the help list from sections.
func NewHelpState(sections []HelpSection) *HelpState {
	var items []list.Item
	for _, section := range sections {
		items = append(items, helpItem{header: section.Title})
		for _, shortcut := range section.Shortcuts {
			items = append(items, helpItem{shortcut: shortcut})
		}
	}

	l := list.New(items, helpDelegate{}, ModalWidth, HelpModalMaxVisible)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.SetFilteringEnabled(true)

	s := &HelpState{list: l}
	s.skipHeader(false)
	return s
}
