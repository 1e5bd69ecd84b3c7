package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/zhubert/travelchat/internal/errors"
)

// newTestClient returns a client pointed at a server running handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithHTTP(server.URL, "test", server.Client())
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:8000", "http://localhost:8000"},
		{"http://localhost:8000/", "http://localhost:8000"},
		{"http://example.com/api//", "http://example.com/api"},
	}
	for _, tt := range tests {
		if got := NewClient(tt.in, "").BaseURL(); got != tt.want {
			t.Errorf("NewClient(%q).BaseURL() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClient_CreateThread(t *testing.T) {
	var gotBody ThreadCreate
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/threads" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"thread_id": 7, "title": "`+gotBody.Title+`"}`)
	})

	thread, err := client.CreateThread(context.Background(), "Trip to Nairobi")
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}
	if gotBody.Title != "Trip to Nairobi" {
		t.Errorf("sent title = %q", gotBody.Title)
	}
	if thread.ID != 7 || thread.Title != "Trip to Nairobi" {
		t.Errorf("CreateThread() = %+v, want {ID:7 Title:Trip to Nairobi}", thread)
	}
}

func TestClient_CreateThread_DefaultTitle(t *testing.T) {
	var gotBody ThreadCreate
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"thread_id": 1, "title": "Untitled"}`)
	})

	thread, err := client.CreateThread(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}
	if gotBody.Title != DefaultThreadTitle {
		t.Errorf("sent title = %q, want %q", gotBody.Title, DefaultThreadTitle)
	}
	if thread.Title != "Untitled" {
		t.Errorf("thread title = %q", thread.Title)
	}
}

func TestClient_GetThreads_PreservesServerOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/threads" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `[{"id": 3, "title": "c"}, {"id": 1, "title": "a"}, {"id": 2, "title": "b"}]`)
	})

	threads, err := client.GetThreads(context.Background())
	if err != nil {
		t.Fatalf("GetThreads() error = %v", err)
	}
	want := []int64{3, 1, 2}
	if len(threads) != len(want) {
		t.Fatalf("got %d threads, want %d", len(threads), len(want))
	}
	for i, id := range want {
		if threads[i].ID != id {
			t.Errorf("threads[%d].ID = %d, want %d", i, threads[i].ID, id)
		}
	}
}

func TestClient_GetThreadMessages(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantNil  bool
		wantMsgs []Message
	}{
		{
			name: "with messages",
			body: `{"thread_id": 5, "messages": [{"role": "user", "content": "hi"}, {"role": "assistant", "content": "hello"}]}`,
			wantMsgs: []Message{
				{Role: RoleUser, Content: "hi"},
				{Role: RoleAssistant, Content: "hello"},
			},
		},
		{
			name:    "messages absent",
			body:    `{"thread_id": 5}`,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/threads/5" {
					t.Errorf("path = %q, want /threads/5", r.URL.Path)
				}
				io.WriteString(w, tt.body)
			})

			got, err := client.GetThreadMessages(context.Background(), 5)
			if err != nil {
				t.Fatalf("GetThreadMessages() error = %v", err)
			}
			if got.ThreadID != 5 {
				t.Errorf("ThreadID = %d, want 5", got.ThreadID)
			}
			if tt.wantNil {
				if got.Messages != nil {
					t.Errorf("Messages = %v, want nil", got.Messages)
				}
				return
			}
			if len(got.Messages) != len(tt.wantMsgs) {
				t.Fatalf("got %d messages, want %d", len(got.Messages), len(tt.wantMsgs))
			}
			for i := range tt.wantMsgs {
				if got.Messages[i] != tt.wantMsgs[i] {
					t.Errorf("Messages[%d] = %+v, want %+v", i, got.Messages[i], tt.wantMsgs[i])
				}
			}
		})
	}
}

func TestClient_SendMessage(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"response": "June to September"}`)
	})

	resp, err := client.SendMessage(context.Background(), MessageRequest{ThreadID: 9, Question: "best time to visit Kenya"})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if resp.Response != "June to September" {
		t.Errorf("Response = %q", resp.Response)
	}
	if gotBody["thread_id"] != float64(9) || gotBody["question"] != "best time to visit Kenya" {
		t.Errorf("request body = %v", gotBody)
	}
}

func TestClient_DeleteThread(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/threads/4" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"message": "Thread 4 deleted successfully"}`)
	})

	resp, err := client.DeleteThread(context.Background(), 4)
	if err != nil {
		t.Fatalf("DeleteThread() error = %v", err)
	}
	if resp.Message != "Thread 4 deleted successfully" {
		t.Errorf("Message = %q", resp.Message)
	}
}

func TestClient_DeleteThread_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusMultipleChoices} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			io.WriteString(w, `{"detail": "Thread not found"}`)
		})

		_, err := client.DeleteThread(context.Background(), 4)
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if !errors.Is(err, pkgerrors.ErrDeleteFailed) {
			t.Errorf("status %d: error %v does not match ErrDeleteFailed", status, err)
		}
		if !pkgerrors.Is(err, pkgerrors.KindStatus) {
			t.Errorf("status %d: kind = %v, want KindStatus", status, pkgerrors.GetKind(err))
		}
	}
}

func TestClient_Headers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "travelchat/test" {
			t.Errorf("User-Agent = %q", got)
		}
		if got := r.Header.Get(RequestIDHeader); len(got) != 36 {
			t.Errorf("%s = %q, want a UUID", RequestIDHeader, got)
		}
		if got := r.Header.Get("Content-Type"); got != "" {
			t.Errorf("GET should not set Content-Type, got %q", got)
		}
		io.WriteString(w, `[]`)
	})

	if _, err := client.GetThreads(context.Background()); err != nil {
		t.Fatalf("GetThreads() error = %v", err)
	}
}

func TestClient_DecodeFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>oops</html>`)
	})

	_, err := client.GetThreads(context.Background())
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !pkgerrors.Is(err, pkgerrors.KindDecode) {
		t.Errorf("kind = %v, want KindDecode", pkgerrors.GetKind(err))
	}
	if !strings.Contains(err.Error(), "api.GetThreads") {
		t.Errorf("error %q should name the operation", err)
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, "test")
	_, err := client.SendMessage(context.Background(), MessageRequest{ThreadID: 1, Question: "hi"})
	if err == nil {
		t.Fatal("expected network error")
	}
	if !pkgerrors.Is(err, pkgerrors.KindNetwork) {
		t.Errorf("kind = %v, want KindNetwork", pkgerrors.GetKind(err))
	}
}

func TestClient_CanceledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.GetThreads(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("GetThreads() error = %v, want context.Canceled", err)
	}
}
