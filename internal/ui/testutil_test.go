package ui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/travelchat/internal/api"
	"github.com/zhubert/travelchat/internal/keys"
)

// keyPressMsg creates a tea.KeyPressMsg for the given key string.
func keyPressMsg(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.ShiftEnter:
		return tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModShift}
	case keys.CtrlJ:
		return tea.KeyPressMsg{Code: 'j', Mod: tea.ModCtrl}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Backspace:
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.Home:
		return tea.KeyPressMsg{Code: tea.KeyHome}
	case keys.End:
		return tea.KeyPressMsg{Code: tea.KeyEnd}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.PgDown:
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case keys.CtrlN:
		return tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
	case keys.CtrlP:
		return tea.KeyPressMsg{Code: 'p', Mod: tea.ModCtrl}
	default:
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}

// typeText feeds each character of s to update as a key press.
func typeText(update func(tea.Msg), s string) {
	for _, r := range s {
		update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func sampleThreads() []api.Thread {
	return []api.Thread{
		{ID: 3, Title: "Nairobi safari"},
		{ID: 2, Title: "Weekend in Lisbon"},
		{ID: 1, Title: api.DefaultThreadTitle},
	}
}
