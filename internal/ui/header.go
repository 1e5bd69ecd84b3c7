package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	headerTitle   = " travelchat"
	offlineMarker = " (offline)"
)

// Header is the top bar: the app name on the left, the current thread's
// title on the right, over a gradient that fades into the background.
type Header struct {
	width       int
	threadTitle string
	offline     bool
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetThreadTitle sets the title shown on the right. Empty hides it.
func (h *Header) SetThreadTitle(title string) {
	h.threadTitle = title
}

// SetOffline marks the backend as unreachable after the initial load failed.
func (h *Header) SetOffline(offline bool) {
	h.offline = offline
}

// View renders the header
func (h *Header) View() string {
	left := headerTitle
	if h.offline {
		left += offlineMarker
	}

	var right string
	if h.threadTitle != "" {
		room := h.width - ansi.StringWidth(left) - 3
		if room > 0 {
			right = ansi.Truncate(h.threadTitle, room, "…") + " "
		}
	}

	padding := max(h.width-ansi.StringWidth(left)-ansi.StringWidth(right), 0)
	return h.renderGradient(left + strings.Repeat(" ", padding) + right)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient paints content cell by cell, interpolating the background
// from the theme's primary color to its base background.
func (h *Header) renderGradient(content string) string {
	if content == "" {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)
	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	titleEnd := len([]rune(headerTitle))
	mutedEnd := titleEnd
	if h.offline {
		mutedEnd += len([]rune(offlineMarker))
	}
	runes := []rune(content)
	width := len(runes)

	var result strings.Builder
	for i, r := range runes {
		f := float64(i) / float64(width)
		cr := int(float64(startR)*(1-f) + float64(endR)*f)
		cg := int(float64(startG)*(1-f) + float64(endG)*f)
		cb := int(float64(startB)*(1-f) + float64(endB)*f)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Foreground(textColor).
			Bold(i < titleEnd)
		if i >= titleEnd && i < mutedEnd {
			style = style.Foreground(mutedColor)
		}
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}
