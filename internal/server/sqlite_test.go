package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/zhubert/travelchat/internal/api"
	pkgerrors "github.com/zhubert/travelchat/internal/errors"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLite_ThreadsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, title := range []string{"Lisbon", "Nairobi", ""} {
		if _, err := store.CreateThread(ctx, title); err != nil {
			t.Fatalf("CreateThread(%q): %v", title, err)
		}
	}

	threads, err := store.ListThreads(ctx)
	if err != nil {
		t.Fatalf("ListThreads: %v", err)
	}
	want := []string{api.DefaultThreadTitle, "Nairobi", "Lisbon"}
	if len(threads) != len(want) {
		t.Fatalf("got %d threads, want %d", len(threads), len(want))
	}
	for i, title := range want {
		if threads[i].Title != title {
			t.Errorf("threads[%d] = %q, want %q", i, threads[i].Title, title)
		}
	}
}

func TestSQLite_EmptyListIsNotNil(t *testing.T) {
	threads, err := newTestStore(t).ListThreads(context.Background())
	if err != nil {
		t.Fatalf("ListThreads: %v", err)
	}
	if threads == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestSQLite_MessagesInOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	thread, _ := store.CreateThread(ctx, "Kenya")

	msgs := []api.Message{
		{Role: api.RoleUser, Content: "When should I go?"},
		{Role: api.RoleAssistant, Content: "June to September."},
		{Role: api.RoleUser, Content: "Thanks!"},
	}
	for _, m := range msgs {
		if err := store.AddMessage(ctx, thread.ID, m); err != nil {
			t.Fatalf("AddMessage: %v", err)
		}
	}

	got, err := store.Messages(ctx, thread.ID)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(got) != len(msgs) {
		t.Fatalf("got %d messages, want %d", len(got), len(msgs))
	}
	for i := range msgs {
		if got[i] != msgs[i] {
			t.Errorf("message %d = %+v, want %+v", i, got[i], msgs[i])
		}
	}
}

func TestSQLite_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	thread, _ := store.CreateThread(ctx, "Kyoto")
	store.AddMessage(ctx, thread.ID, api.Message{Role: api.RoleUser, Content: "Temples?"})

	if err := store.DeleteThread(ctx, thread.ID); err != nil {
		t.Fatalf("DeleteThread: %v", err)
	}

	if _, err := store.GetThread(ctx, thread.ID); !pkgerrors.Is(err, pkgerrors.KindNotFound) {
		t.Errorf("GetThread after delete: err = %v, want not found", err)
	}

	var n int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE thread_id = ?`, thread.ID).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("%d messages left after delete, want 0", n)
	}
}

func TestSQLite_DeleteMissing(t *testing.T) {
	err := newTestStore(t).DeleteThread(context.Background(), 999)
	if !pkgerrors.Is(err, pkgerrors.KindNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}
