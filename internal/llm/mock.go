package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one scripted reply of a MockProvider. Err takes
// precedence over Content.
type MockResponse struct {
	Content    json.RawMessage
	Usage      Usage
	StopReason StopReason
	Err        error
}

// MockProvider replays scripted responses in order and records requests.
// Content still goes through schema validation, so tests see the same
// errors a real backend would produce.
type MockProvider struct {
	mu      sync.Mutex
	pending []MockResponse
	Calls   []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{pending: responses}
}

func (m *MockProvider) Name() string    { return "mock" }
func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.pending) == 0 {
		return nil, &Error{Kind: KindUnavailable, Provider: "mock", Err: errors.New("no scripted responses left")}
	}
	next := m.pending[0]
	m.pending = m.pending[1:]
	if next.Err != nil {
		return nil, next.Err
	}

	stop := next.StopReason
	if stop == "" {
		stop = StopEnd
	}
	return finish("mock", req, string(next.Content), Response{Usage: next.Usage, Model: "mock", StopReason: stop})
}

// AddResponse queues another scripted reply.
func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	m.pending = append(m.pending, r)
	m.mu.Unlock()
}

// CallCount returns how many times Generate ran.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
