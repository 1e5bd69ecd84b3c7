package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/travelchat/internal/logger"
	"github.com/zhubert/travelchat/internal/ui"
)

// flash puts text in the footer in place of the key hints. The returned
// tick keeps firing until the message expires.
func (m *Model) flash(flashType ui.FlashType, text string) tea.Cmd {
	logger.WithComponent("app").Debug("flash", "type", flashType, "text", text)
	m.footer.SetFlash(text, flashType)
	return ui.FlashTick()
}

func (m *Model) flashError(text string) tea.Cmd {
	return m.flash(ui.FlashError, text)
}

func (m *Model) flashInfo(text string) tea.Cmd {
	return m.flash(ui.FlashInfo, text)
}

func (m *Model) flashSuccess(text string) tea.Cmd {
	return m.flash(ui.FlashSuccess, text)
}
