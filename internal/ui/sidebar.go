package ui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/travelchat/internal/api"
	"github.com/zhubert/travelchat/internal/keys"
)

// sidebarSpinnerFrames uses the same shimmering spinner as the chat panel
var sidebarSpinnerFrames = []string{"·", "✺", "✹", "✸", "✷", "✶", "✵", "✴", "✳", "✲", "✱", "✧", "✦", "·"}

// sidebarSpinnerHoldTimes defines how long each frame should be held (in ticks)
// First and last frames hold longer for a "breathing" effect
var sidebarSpinnerHoldTimes = []int{3, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 3}

// Row text shown under each thread title and in place of an empty list.
const (
	SubtitleNewConversation = "New conversation"
	SubtitleTravelChat      = "Travel chat"
	EmptyNoThreads          = "No conversations yet"
	EmptyNoMatches          = "No matching conversations"
)

// SidebarTickMsg is sent to advance the spinner animation
type SidebarTickMsg time.Time

// SidebarTick returns a command that advances the delete spinner.
func SidebarTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return SidebarTickMsg(t)
	})
}

// Sidebar lists the threads. The cursor (what enter would open) is tracked
// separately from the current thread, which the controller sets.
type Sidebar struct {
	threads     []api.Thread
	filtered    []api.Thread // nil when no filter is applied
	filterQuery string

	cursor       int
	scrollOffset int

	current    *api.Thread
	deleting   map[int64]bool
	spinnerIdx int
	spinnerHit int

	width   int
	height  int
	focused bool

	searchMode  bool
	searchInput textinput.Model
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	ti := textinput.New()
	ti.Placeholder = "Search conversations..."
	ti.CharLimit = SidebarSearchCharLimit

	return &Sidebar{
		deleting:    make(map[int64]bool),
		searchInput: ti,
	}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
	if !focused && s.searchMode {
		s.searchMode = false
		s.searchInput.Blur()
	}
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetThreads replaces the thread list. An applied filter is re-run against
// the new list and the cursor is kept in range.
func (s *Sidebar) SetThreads(threads []api.Thread) {
	s.threads = threads
	if s.filterQuery != "" {
		s.filtered = FilterThreads(threads, s.filterQuery)
	}
	for id := range s.deleting {
		if !containsThread(threads, id) {
			delete(s.deleting, id)
		}
	}
	s.clampCursor()
}

// Threads returns the unfiltered thread list.
func (s *Sidebar) Threads() []api.Thread {
	return s.threads
}

// SetCurrentThread marks the thread the chat panel is showing; nil clears
// the marker. The cursor follows the current thread when it is visible.
func (s *Sidebar) SetCurrentThread(thread *api.Thread) {
	if thread == nil {
		s.current = nil
		return
	}
	t := *thread
	s.current = &t
	for i, vt := range s.visibleThreads() {
		if vt.ID == t.ID {
			s.cursor = i
			break
		}
	}
}

// IsCurrent reports whether id is the current thread.
func (s *Sidebar) IsCurrent(id int64) bool {
	return s.current != nil && s.current.ID == id
}

// SelectedThread returns the thread under the cursor, or nil when the
// visible list is empty.
func (s *Sidebar) SelectedThread() *api.Thread {
	visible := s.visibleThreads()
	if s.cursor < 0 || s.cursor >= len(visible) {
		return nil
	}
	t := visible[s.cursor]
	return &t
}

// SetDeleting toggles the in-flight delete indicator for a thread.
func (s *Sidebar) SetDeleting(id int64, deleting bool) {
	if deleting {
		s.deleting[id] = true
	} else {
		delete(s.deleting, id)
	}
}

// IsDeleting reports whether a delete for id is in flight.
func (s *Sidebar) IsDeleting(id int64) bool {
	return s.deleting[id]
}

// HasDeleting reports whether any delete is in flight.
func (s *Sidebar) HasDeleting() bool {
	return len(s.deleting) > 0
}

// FilterThreads returns the threads whose title contains query, ignoring
// case. An empty query returns threads unchanged.
func FilterThreads(threads []api.Thread, query string) []api.Thread {
	if query == "" {
		return threads
	}
	query = strings.ToLower(query)
	matches := []api.Thread{}
	for _, t := range threads {
		if strings.Contains(strings.ToLower(t.Title), query) {
			matches = append(matches, t)
		}
	}
	return matches
}

// ThreadSubtitle returns the secondary line shown under a thread title.
func ThreadSubtitle(t api.Thread) string {
	if t.Title == api.DefaultThreadTitle {
		return SubtitleNewConversation
	}
	return SubtitleTravelChat
}

// EnterSearchMode starts typing a filter. The previous filter text is kept
// so it can be refined.
func (s *Sidebar) EnterSearchMode() tea.Cmd {
	s.searchMode = true
	s.searchInput.SetValue(s.filterQuery)
	s.searchInput.CursorEnd()
	return s.searchInput.Focus()
}

// ExitSearchMode leaves search mode and clears the filter
func (s *Sidebar) ExitSearchMode() {
	s.searchMode = false
	s.searchInput.Blur()
	s.ClearFilter()
}

// ClearFilter removes any applied filter.
func (s *Sidebar) ClearFilter() {
	selected := s.SelectedThread()
	s.searchInput.SetValue("")
	s.filterQuery = ""
	s.filtered = nil
	s.cursor = 0
	if selected != nil {
		s.moveCursorTo(selected.ID)
	}
	s.clampCursor()
}

// IsSearchMode returns whether search mode is active
func (s *Sidebar) IsSearchMode() bool {
	return s.searchMode
}

// IsFiltered reports whether a non-empty filter is applied.
func (s *Sidebar) IsFiltered() bool {
	return s.filterQuery != ""
}

// GetSearchQuery returns the applied filter text
func (s *Sidebar) GetSearchQuery() string {
	return s.filterQuery
}

func (s *Sidebar) applyFilter(query string) {
	s.filterQuery = query
	if query == "" {
		s.filtered = nil
	} else {
		s.filtered = FilterThreads(s.threads, query)
	}
	s.scrollOffset = 0
	s.clampCursor()
}

// visibleThreads returns the threads to display (filtered or all)
func (s *Sidebar) visibleThreads() []api.Thread {
	if s.filtered != nil {
		return s.filtered
	}
	return s.threads
}

func (s *Sidebar) moveCursorTo(id int64) {
	for i, t := range s.visibleThreads() {
		if t.ID == id {
			s.cursor = i
			return
		}
	}
}

func (s *Sidebar) clampCursor() {
	n := len(s.visibleThreads())
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func containsThread(threads []api.Thread, id int64) bool {
	for _, t := range threads {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Update handles messages
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	switch msg := msg.(type) {
	case SidebarTickMsg:
		if !s.HasDeleting() {
			return s, nil
		}
		s.spinnerHit++
		if s.spinnerHit >= sidebarSpinnerHoldTimes[s.spinnerIdx%len(sidebarSpinnerHoldTimes)] {
			s.spinnerHit = 0
			s.spinnerIdx = (s.spinnerIdx + 1) % len(sidebarSpinnerFrames)
		}
		return s, SidebarTick()

	case tea.KeyPressMsg:
		if !s.focused {
			return s, nil
		}

		if s.searchMode {
			switch msg.String() {
			case keys.Escape:
				s.ExitSearchMode()
				return s, nil
			case keys.Enter:
				// Keep the filter, hand the keyboard back to the list
				s.searchMode = false
				s.searchInput.Blur()
				return s, nil
			case keys.Up, keys.CtrlP:
				s.moveCursor(-1)
				return s, nil
			case keys.Down, keys.CtrlN:
				s.moveCursor(1)
				return s, nil
			default:
				var cmd tea.Cmd
				s.searchInput, cmd = s.searchInput.Update(msg)
				s.applyFilter(s.searchInput.Value())
				return s, cmd
			}
		}

		switch msg.String() {
		case keys.Up, "k":
			s.moveCursor(-1)
		case keys.Down, "j":
			s.moveCursor(1)
		case keys.Home, "g":
			s.cursor = 0
		case keys.End, "G":
			s.cursor = max(len(s.visibleThreads())-1, 0)
		case keys.Escape:
			if s.IsFiltered() {
				s.ClearFilter()
			}
		}
	}

	return s, nil
}

func (s *Sidebar) moveCursor(delta int) {
	s.cursor += delta
	s.clampCursor()
}

// View renders the sidebar
func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerWidth := ctx.InnerWidth(s.width)
	innerHeight := ctx.InnerHeight(s.height)

	var header []string
	header = append(header, PanelTitleStyle.Render("Conversations"))
	if s.searchMode {
		s.searchInput.SetWidth(max(innerWidth-3, 1))
		prompt := lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true).Render("/")
		header = append(header, prompt+" "+s.searchInput.View())
	} else if s.IsFiltered() {
		header = append(header, SidebarSubtitleStyle.Render("filter: "+ansi.Truncate(s.filterQuery, max(innerWidth-10, 1), "…")))
	}

	bodyHeight := max(innerHeight-len(header), 0)
	body := s.renderRows(innerWidth, bodyHeight)

	content := lipgloss.JoinVertical(lipgloss.Left, append(header, body)...)
	return style.Width(s.width).Height(s.height).Render(content)
}

func (s *Sidebar) renderRows(innerWidth, bodyHeight int) string {
	visible := s.visibleThreads()
	if len(visible) == 0 {
		empty := EmptyNoThreads
		if s.IsFiltered() {
			empty = EmptyNoMatches
		}
		return lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true).Render(empty)
	}

	rowsVisible := max(bodyHeight/SidebarRowHeight, 1)
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	} else if s.cursor >= s.scrollOffset+rowsVisible {
		s.scrollOffset = s.cursor - rowsVisible + 1
	}
	s.scrollOffset = min(max(s.scrollOffset, 0), max(len(visible)-rowsVisible, 0))

	end := min(s.scrollOffset+rowsVisible, len(visible))
	var lines []string
	for i := s.scrollOffset; i < end; i++ {
		lines = append(lines, s.renderRow(visible[i], i == s.cursor, innerWidth)...)
	}
	return strings.Join(lines, "\n")
}

func (s *Sidebar) renderRow(t api.Thread, underCursor bool, innerWidth int) []string {
	prefix := "  "
	if underCursor && s.focused {
		prefix = "> "
	}
	if s.deleting[t.ID] {
		prefix = sidebarSpinnerFrames[s.spinnerIdx] + " "
	}

	titleWidth := max(innerWidth-ansi.StringWidth(prefix)-2, 1)
	title := prefix + ansi.Truncate(t.Title, titleWidth, "…")
	subtitle := "  " + ThreadSubtitle(t)

	itemStyle := SidebarItemStyle
	switch {
	case s.IsCurrent(t.ID):
		itemStyle = SidebarSelectedStyle
	case underCursor && s.focused:
		itemStyle = SidebarCursorStyle
	}
	if s.deleting[t.ID] {
		itemStyle = itemStyle.Foreground(ColorTextMuted)
	}

	return []string{
		itemStyle.Width(innerWidth).Render(title),
		SidebarItemStyle.Width(innerWidth).Render(SidebarSubtitleStyle.Render(subtitle)),
	}
}
