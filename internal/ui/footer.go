package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// DefaultFlashDuration is how long a flash stays in the footer
const DefaultFlashDuration = 4 * time.Second

// FlashType selects the icon and color of a flash message
type FlashType int

const (
	FlashError FlashType = iota
	FlashWarning
	FlashInfo
	FlashSuccess
)

// FlashMessage is a transient status line that replaces the key hints.
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the flash has outlived its duration.
func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) > f.Duration
}

// FlashTickMsg drives flash expiry.
type FlashTickMsg time.Time

// FlashTick returns a command that checks for flash expiry once a second.
func FlashTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width          int
	hasThread      bool // Whether a thread is selected
	sidebarFocused bool
	searchMode     bool // Sidebar filter is being typed
	sending        bool // A message is waiting for its reply
	flashMessage   *FlashMessage
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{sidebarFocused: true}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(hasThread, sidebarFocused, searchMode, sending bool) {
	f.hasThread = hasThread
	f.sidebarFocused = sidebarFocused
	f.searchMode = searchMode
	f.sending = sending
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetFlash shows text for DefaultFlashDuration.
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.SetFlashWithDuration(text, flashType, DefaultFlashDuration)
}

// SetFlashWithDuration shows text for the given duration.
func (f *Footer) SetFlashWithDuration(text string, flashType FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:      text,
		Type:      flashType,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// ClearFlash removes any flash message
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a flash message is showing
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// ClearIfExpired drops the flash once it has expired and reports whether one
// is still showing.
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
	}
	return f.flashMessage != nil
}

// Bindings returns the key hints for the current context.
func (f *Footer) Bindings() []KeyBinding {
	switch {
	case f.searchMode:
		return []KeyBinding{
			{Key: "type", Desc: "filter"},
			{Key: "↑/↓", Desc: "move"},
			{Key: "enter", Desc: "keep filter"},
			{Key: "esc", Desc: "clear"},
		}
	case f.sidebarFocused:
		bindings := []KeyBinding{
			{Key: "n", Desc: "new chat"},
			{Key: "enter", Desc: "open"},
			{Key: "d", Desc: "delete"},
			{Key: "/", Desc: "search"},
		}
		if f.hasThread {
			bindings = append(bindings, KeyBinding{Key: "tab", Desc: "chat"})
		}
		return append(bindings,
			KeyBinding{Key: "?", Desc: "help"},
			KeyBinding{Key: "q", Desc: "quit"},
		)
	case f.sending:
		return []KeyBinding{
			{Key: "waiting for reply", Desc: ""},
			{Key: "tab", Desc: "conversations"},
			{Key: "pgup/dn", Desc: "scroll"},
		}
	default:
		return []KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "shift+enter", Desc: "newline"},
			{Key: "tab", Desc: "conversations"},
			{Key: "pgup/dn", Desc: "scroll"},
		}
	}
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		return FooterStyle.Width(f.width).Render(f.renderFlash())
	}

	var parts []string
	for _, b := range f.Bindings() {
		part := FooterKeyStyle.Render(b.Key)
		if b.Desc != "" {
			part += FooterDescStyle.Render(": " + b.Desc)
		}
		parts = append(parts, part)
	}

	sep := "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "
	return FooterStyle.Width(f.width).Render(strings.Join(parts, sep))
}

func (f *Footer) renderFlash() string {
	var icon string
	var c = ColorText
	switch f.flashMessage.Type {
	case FlashError:
		icon, c = "✕", ColorError
	case FlashWarning:
		icon, c = "⚠", ColorWarning
	case FlashInfo:
		icon, c = "ℹ", ColorSecondary
	case FlashSuccess:
		icon, c = "✓", ColorSuccess
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(icon + " " + f.flashMessage.Text)
}
