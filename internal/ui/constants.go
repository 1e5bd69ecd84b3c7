// Package ui provides constants for layout calculations and configuration.
package ui

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidebarWidthRatio is the denominator for sidebar width (1/3 of total width)
	SidebarWidthRatio = 3

	// MinTerminalWidth and MinTerminalHeight bound layout math on tiny terminals
	MinTerminalWidth  = 40
	MinTerminalHeight = 10

	// InputMinLines and InputMaxLines bound the auto-growing message input
	InputMinLines = 1
	InputMaxLines = 6

	// InputBorderHeight is the border size around the input
	InputBorderHeight = 2

	// InputPaddingWidth is the horizontal padding inside the input area (Padding(0, 1) = 1 left + 1 right)
	InputPaddingWidth = 2

	// ChatHeaderHeight is the title line plus its separator at the top of the chat panel
	ChatHeaderHeight = 2

	// SidebarRowHeight is the number of lines per thread (title + subtitle)
	SidebarRowHeight = 2

	// DefaultWrapWidth is the default width for text wrapping when viewport width is unknown
	DefaultWrapWidth = 80
)

// Input limits
const (
	// SidebarSearchCharLimit is the character limit for the sidebar filter
	SidebarSearchCharLimit = 100

	// InputCharLimit caps a single outgoing message (0 would mean unlimited in textarea)
	InputCharLimit = 8000
)

// Modal dimensions
const (
	// ModalWidth is the default width of modals
	ModalWidth = 60

	// ModalWidthWide is used by modals that host forms
	ModalWidthWide = 80

	// ModalInputCharLimit is the character limit for modal text inputs
	ModalInputCharLimit = 256

	// ModalInputWidth is the width of modal text inputs
	ModalInputWidth = 50

	// HelpModalMaxVisible is the number of help rows shown before scrolling
	HelpModalMaxVisible = 16
)
