package mocks

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kevin07696/card-gateway/internal/adapters/ports"
)

// Log levels recorded by MockLogger
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// LogEntry is one captured log call
type LogEntry struct {
	Level   string
	Message string
	Fields  []ports.Field
}

// String renders the entry the way a console encoder would
func (e LogEntry) String() string {
	var b strings.Builder
	b.WriteString(e.Level)
	b.WriteByte(' ')
	b.WriteString(e.Message)
	for _, f := range e.Fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}

// MockLogger records every log call in order. Safe for concurrent use so it
// can sit behind the transport's circuit breaker callbacks.
type MockLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMockLogger creates an empty recording logger
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(level, msg string, fields []ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (m *MockLogger) Info(msg string, fields ...ports.Field)  { m.record(LevelInfo, msg, fields) }
func (m *MockLogger) Error(msg string, fields ...ports.Field) { m.record(LevelError, msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...ports.Field)  { m.record(LevelWarn, msg, fields) }
func (m *MockLogger) Debug(msg string, fields ...ports.Field) { m.record(LevelDebug, msg, fields) }

// Entries returns the captured calls at level, or all of them when level is empty
func (m *MockLogger) Entries(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []LogEntry
	for _, e := range m.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Output renders every captured call, one per line, messages and field values included
func (m *MockLogger) Output() string {
	entries := m.Entries("")
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
