package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Reply scripts one response of the fake OpenRouter server.
type Reply struct {
	Status    int
	Content   string
	NoChoices bool
	// Body, when set, is written verbatim instead of a completion envelope.
	Body string
	// Header is added to the response, e.g. Retry-After on a 429.
	Header http.Header
}

// ContentReply returns a 200 reply whose first choice carries content.
func ContentReply(content string) Reply {
	return Reply{Status: http.StatusOK, Content: content}
}

// StatusReply returns a reply with the given status and a small error body.
func StatusReply(status int) Reply {
	return Reply{Status: status, Body: `{"error":{"message":"` + http.StatusText(status) + `"}}`}
}

// RecordedRequest captures what the fake server received.
type RecordedRequest struct {
	Method   string
	Header   http.Header
	Model    string
	Messages []RecordedMessage
	Raw      map[string]any
}

// RecordedMessage is one chat message from a recorded request body.
type RecordedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenRouter is a scripted stand-in for the chat completions endpoint. Replies
// are served in order and the last one repeats once the script runs out.
type OpenRouter struct {
	*httptest.Server

	t        testing.TB
	mu       sync.Mutex
	replies  []Reply
	requests []RecordedRequest
}

// NewOpenRouter starts a fake server that is closed when the test ends.
func NewOpenRouter(t testing.TB, replies ...Reply) *OpenRouter {
	t.Helper()
	if len(replies) == 0 {
		replies = []Reply{ContentReply(`{"ok":true}`)}
	}
	fake := &OpenRouter{t: t, replies: replies}
	fake.Server = httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(fake.Close)
	return fake
}

// Calls returns how many requests the server has received.
func (s *OpenRouter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of every recorded request.
func (s *OpenRouter) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, failing the test when there is none.
func (s *OpenRouter) LastRequest() RecordedRequest {
	s.t.Helper()
	requests := s.Requests()
	if len(requests) == 0 {
		s.t.Fatalf("fake openrouter: no requests recorded")
	}
	return requests[len(requests)-1]
}

func (s *OpenRouter) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	recorded := RecordedRequest{Method: r.Method, Header: r.Header.Clone()}
	var body struct {
		Model    string            `json:"model"`
		Messages []RecordedMessage `json:"messages"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		recorded.Model = body.Model
		recorded.Messages = body.Messages
	}
	_ = json.Unmarshal(raw, &recorded.Raw)

	s.mu.Lock()
	index := len(s.requests)
	s.requests = append(s.requests, recorded)
	if index >= len(s.replies) {
		index = len(s.replies) - 1
	}
	reply := s.replies[index]
	s.mu.Unlock()

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	for key, values := range reply.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if reply.Body != "" {
		_, _ = io.WriteString(w, reply.Body)
		return
	}
	choices := []any{}
	if !reply.NoChoices {
		choices = append(choices, map[string]any{
			"finish_reason": "stop",
			"message": map[string]any{
				"role":    "assistant",
				"content": reply.Content,
			},
		})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"choices": choices})
}
