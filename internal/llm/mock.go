package llm

import (
	"context"
	"sync"
)

// MockResponse is a canned reply for the MockProvider.
type MockResponse struct {
	Content string
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for tests and offline demos.
// It returns canned replies in FIFO order and records all requests unless
// DiscardCalls is set.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     int
	Calls     []Request

	// DiscardCalls counts requests without keeping them in Calls.
	DiscardCalls bool

	// Fallback, when set, answers every call made after the queue runs dry.
	Fallback *MockResponse
}

// NewMockProvider creates a MockProvider with the given canned replies.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned reply. Once the queue is empty it returns
// Fallback, or ErrProviderUnavailable when no fallback is set.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if !m.DiscardCalls {
		m.Calls = append(m.Calls, req)
	}

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.Fallback != nil:
		resp = *m.Fallback
	default:
		return nil, &ErrProviderUnavailable{}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content: resp.Content,
		Usage:   resp.Usage,
		Model:   "mock",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned reply to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// demoReply is served by the "mock" provider so the app can run without credentials.
const demoReply = `Here are your flashcards:
[
  {"question": "What does this demo provider return?", "answer": "The same two canned flashcards for every request."},
  {"question": "How do you switch to a real model?", "answer": "Set LLM_PROVIDER and the matching API key."}
]`

// NewDemoProvider returns a MockProvider that answers every request with a fixed deck.
// It keeps no request history, since it serves long-running processes.
func NewDemoProvider() *MockProvider {
	return &MockProvider{
		Fallback:     &MockResponse{Content: demoReply},
		DiscardCalls: true,
	}
}
