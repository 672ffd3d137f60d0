package logging

import "sync"

// MockEntry records a single log call made against a MockLogger.
type MockEntry struct {
	Level   string
	Message string
	Fields  []Field
	Err     error
}

type mockSink struct {
	mu      sync.Mutex
	entries []MockEntry
}

// MockLogger is a Logger implementation for tests. It records every call,
// including calls made through WithError/WithField children, so assertions
// can inspect what the code under test logged.
type MockLogger struct {
	sink   *mockSink
	fields []Field
	err    error
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{sink: &mockSink{}}
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	all := append(append([]Field{}, m.fields...), fields...)
	m.sink.entries = append(m.sink.entries, MockEntry{Level: level, Message: msg, Fields: all, Err: m.err})
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("error", msg, fields) }

func (m *MockLogger) WithError(err error) Logger {
	return &MockLogger{sink: m.sink, fields: m.fields, err: err}
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return &MockLogger{
		sink:   m.sink,
		fields: append(append([]Field{}, m.fields...), Field{Key: key, Value: value}),
		err:    m.err,
	}
}

// Entries returns a copy of the recorded log calls.
func (m *MockLogger) Entries() []MockEntry {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	return append([]MockEntry{}, m.sink.entries...)
}

// HasMessage reports whether any recorded entry carries the given message.
func (m *MockLogger) HasMessage(msg string) bool {
	for _, e := range m.Entries() {
		if e.Message == msg {
			return true
		}
	}
	return false
}
