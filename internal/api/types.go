package api

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultThreadTitle is used when a thread is created without a title.
const DefaultThreadTitle = "Untitled"

// Thread is a conversation as the UI sees it.
type Thread struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Message is a single chat message. Messages carry no identity of their own;
// their position in a thread is what orders them.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ThreadWithMessages is the payload of GET /threads/{id}. Messages is nil
// when the server omits it.
type ThreadWithMessages struct {
	ThreadID int64     `json:"thread_id"`
	Messages []Message `json:"messages,omitempty"`
}

// ThreadCreate is the body of POST /threads.
type ThreadCreate struct {
	Title string `json:"title"`
}

// ThreadCreateResponse is the wire shape returned by POST /threads.
type ThreadCreateResponse struct {
	ThreadID int64  `json:"thread_id"`
	Title    string `json:"title"`
}

// Thread converts the wire response into the UI-facing Thread.
func (r ThreadCreateResponse) Thread() Thread {
	return Thread{ID: r.ThreadID, Title: r.Title}
}

// MessageRequest is the body of POST /chat.
type MessageRequest struct {
	ThreadID int64  `json:"thread_id"`
	Question string `json:"question"`
}

// ChatResponse is the reply to POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// DeleteResponse is the confirmation returned by DELETE /threads/{id}.
type DeleteResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body the backend sends with 4xx/5xx statuses.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
