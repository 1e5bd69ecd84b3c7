package server

import (
	"context"

	"github.com/zhubert/travelchat/internal/api"
)

// Store persists threads and their messages.
type Store interface {
	// CreateThread inserts a thread and returns it with its new ID.
	CreateThread(ctx context.Context, title string) (api.Thread, error)

	// ListThreads returns every thread, newest first.
	ListThreads(ctx context.Context) ([]api.Thread, error)

	// GetThread returns one thread, or a KindNotFound error.
	GetThread(ctx context.Context, id int64) (api.Thread, error)

	// Messages returns a thread's messages in the order they were added.
	Messages(ctx context.Context, threadID int64) ([]api.Message, error)

	// AddMessage appends a message to a thread.
	AddMessage(ctx context.Context, threadID int64, msg api.Message) error

	// DeleteThread removes a thread and its messages, or returns a
	// KindNotFound error.
	DeleteThread(ctx context.Context, id int64) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
