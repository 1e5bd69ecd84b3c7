// Package ui provides the user interface components for the travelchat TUI.
//
// # Layout System
//
// The layout is organized as follows:
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────┬───────────────────────────────────┤
//	│                 │  Thread title / message count     │
//	│   Sidebar       │  Message list (viewport)          │
//	│   (1/3 width)   ├───────────────────────────────────┤
//	│                 │  Input (1-6 lines)                │
//	├─────────────────┴───────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext: Singleton that manages centralized layout calculations.
//
// Header: Application title with a gradient background and the open thread's title.
//
// Footer: Context-aware keyboard shortcuts and transient flash messages.
//
// Sidebar: The thread list with a local title filter. The cursor is what
// enter would open; the current thread is set by the app and highlighted
// independently of the cursor.
//
// Chat: The open thread's messages above an Input. Input grows with its
// content up to InputMaxLines and emits SubmitMsg on enter. Dragging over
// the history selects cells; a double click takes a word and a triple click
// a paragraph. Releasing copies the selection and emits SelectionCopiedMsg.
//
// Modal: Container for the states in the modals package.
//
// Components never call the backend. They are given state through setters
// and report user intent back as messages.
package ui
