package modals

import (
	"os"
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/zhubert/travelchat/internal/logger"
)

func TestMain(m *testing.M) {
	// Disable logging during tests to avoid polluting /tmp/travelchat-debug.log
	logger.Reset()
	logger.Init(os.DevNull)

	base := lipgloss.NewStyle()
	SetStyles(
		base, base, base, base.Bold(true), base,
		lipgloss.Color("#7C3AED"), lipgloss.Color("#06B6D4"), lipgloss.Color("#F9FAFB"),
		lipgloss.Color("#9CA3AF"), lipgloss.Color("#1F2937"), lipgloss.Color("#F59E0B"),
		lipgloss.Color("#EF4444"),
		72, 256, 80, 120, 10,
	)

	code := m.Run()

	logger.Reset()
	os.Exit(code)
}
