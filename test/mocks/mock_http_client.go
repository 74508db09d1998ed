package mocks

import (
	"bytes"
	"io"
	"net/http"
	"sync"
)

// DefaultGatewayBody is what MockHTTPClient answers when DoFunc is nil
const DefaultGatewayBody = "ResponseCode=00&Auth=123456&tranNr=100001&Amount=1000"

// MockHTTPClient is a mock implementation of ports.HTTPClient for testing
type MockHTTPClient struct {
	mu     sync.Mutex
	DoFunc func(req *http.Request) (*http.Response, error)
	Calls  []*http.Request
	Bodies []string
}

// NewMockHTTPClient creates a new mock HTTP client
func NewMockHTTPClient(doFunc func(req *http.Request) (*http.Response, error)) *MockHTTPClient {
	return &MockHTTPClient{
		DoFunc: doFunc,
		Calls:  []*http.Request{},
	}
}

// NewResponse builds a response with the given status and body
func NewResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

// Do executes the mock function and captures the call and its body
func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		req.Body.Close()
		body = string(raw)
		req.Body = io.NopCloser(bytes.NewReader(raw))
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.Bodies = append(m.Bodies, body)
	m.mu.Unlock()

	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return NewResponse(http.StatusOK, DefaultGatewayBody), nil
}

// CallCount returns the number of requests made
func (m *MockHTTPClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Reset clears captured calls
func (m *MockHTTPClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = []*http.Request{}
	m.Bodies = nil
}
