// Package clipboard reads and writes text on the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/travelchat/internal/logger"
)

// backend is the subset of golang.design/x/clipboard used here.
type backend struct {
	init  func() error
	read  func() []byte
	write func([]byte)
}

var systemBackend = backend{
	init: clipboard.Init,
	read: func() []byte { return clipboard.Read(clipboard.FmtText) },
	write: func(b []byte) {
		clipboard.Write(clipboard.FmtText, b)
	},
}

var (
	mu          sync.Mutex
	current     = systemBackend
	initialized bool
)

// Init initializes the clipboard. Must be called before other functions.
// This is safe to call multiple times.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked()
}

func initLocked() error {
	if initialized {
		return nil
	}
	if err := current.init(); err != nil {
		logger.WithComponent("clipboard").Warn("failed to initialize", "error", err)
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	initialized = true
	return nil
}

// WriteText copies text to the clipboard.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := initLocked(); err != nil {
		return err
	}
	current.write([]byte(text))
	logger.WithComponent("clipboard").Debug("copied text", "bytes", len(text))
	return nil
}

// ReadText reads text from the clipboard. An empty clipboard is not an error.
func ReadText() (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := initLocked(); err != nil {
		return "", err
	}
	return string(current.read()), nil
}

// setBackend swaps the clipboard implementation and resets initialization.
func setBackend(b backend) {
	mu.Lock()
	defer mu.Unlock()
	current = b
	initialized = false
}
