package mocks

import (
	"context"
	"net/url"
	"sync"
)

// TransportCall captures one Post invocation
type TransportCall struct {
	URL  string
	Body string
}

// Form decodes the captured body. Keys with repeated entries keep their order.
func (c TransportCall) Form() url.Values {
	values, _ := url.ParseQuery(c.Body)
	return values
}

// MockTransport is a mock implementation of ports.Transport for testing
type MockTransport struct {
	mu sync.Mutex

	// Response to return
	response string
	err      error

	// PostFunc, when set, overrides the canned response
	PostFunc func(ctx context.Context, url, body string) (string, error)

	// Call tracking
	Calls []TransportCall
}

// NewMockTransport creates a transport that answers every post with response
func NewMockTransport(response string) *MockTransport {
	return &MockTransport{response: response}
}

// SetResponse sets the body and error returned from Post
func (m *MockTransport) SetResponse(response string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = response
	m.err = err
}

// Post implements ports.Transport
func (m *MockTransport) Post(ctx context.Context, url, body string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, TransportCall{URL: url, Body: body})
	postFunc, response, err := m.PostFunc, m.response, m.err
	m.mu.Unlock()

	if postFunc != nil {
		return postFunc(ctx, url, body)
	}
	return response, err
}

// CallCount returns the number of posts made
func (m *MockTransport) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent post. It panics if none was made.
func (m *MockTransport) LastCall() TransportCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[len(m.Calls)-1]
}

// Reset resets all mock state
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = ""
	m.err = nil
	m.PostFunc = nil
	m.Calls = nil
}
