// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/zhubert/travelchat/internal/logger"
)

// AppName is the title of every notification.
const AppName = "travelchat"

// notifyFunc is the signature of beeep.Notify.
type notifyFunc func(title, message string, icon any) error

var (
	mu       sync.Mutex
	notifier notifyFunc = beeep.Notify
)

func init() {
	beeep.AppName = AppName
}

// SetNotifier replaces the function used to deliver notifications. Tests use
// it to avoid sending real ones.
func SetNotifier(fn func(title, message string, icon any) error) {
	mu.Lock()
	defer mu.Unlock()
	notifier = fn
}

// ResetNotifier restores the beeep notifier.
func ResetNotifier() {
	mu.Lock()
	defer mu.Unlock()
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title, "message", message)

	mu.Lock()
	fn := notifier
	mu.Unlock()

	// Empty icon lets beeep pick the platform default
	err := fn(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// ReplyReady tells the user the assistant answered in threadTitle.
func ReplyReady(threadTitle string) error {
	return Send(AppName, "New reply in "+threadTitle)
}
