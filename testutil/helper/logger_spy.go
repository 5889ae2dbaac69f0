package helper

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

// LogEntry is one recorded log call.
type LogEntry struct {
	Level   string
	Message string
	Args    []any
}

// LoggerSpy implements lending.Logger and lending.ContextualLogger,
// capturing every log call for test assertions. Safe for concurrent use.
type LoggerSpy struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLoggerSpy creates an empty LoggerSpy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

func (s *LoggerSpy) record(level, msg string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, LogEntry{Level: level, Message: msg, Args: args})
}

// Debug records a debug log call.
func (s *LoggerSpy) Debug(msg string, args ...any) { s.record("debug", msg, args...) }

// Info records an info log call.
func (s *LoggerSpy) Info(msg string, args ...any) { s.record("info", msg, args...) }

// Warn records a warn log call.
func (s *LoggerSpy) Warn(msg string, args ...any) { s.record("warn", msg, args...) }

// Error records an error log call.
func (s *LoggerSpy) Error(msg string, args ...any) { s.record("error", msg, args...) }

// DebugContext records a debug log call.
func (s *LoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	s.record("debug", msg, args...)
}

// InfoContext records an info log call.
func (s *LoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	s.record("info", msg, args...)
}

// WarnContext records a warn log call.
func (s *LoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	s.record("warn", msg, args...)
}

// ErrorContext records an error log call.
func (s *LoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	s.record("error", msg, args...)
}

// Entries returns a copy of all recorded log calls.
func (s *LoggerSpy) Entries() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]LogEntry, len(s.entries))
	copy(entries, s.entries)

	return entries
}

// HasLog reports whether a call with the given level and message was recorded.
func (s *LoggerSpy) HasLog(level, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.Level == level && entry.Message == message {
			return true
		}
	}

	return false
}

// Reset clears all recorded log calls.
func (s *LoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
}

// Ensure LoggerSpy implements both logging interfaces.
var (
	_ lending.Logger           = (*LoggerSpy)(nil)
	_ lending.ContextualLogger = (*LoggerSpy)(nil)
)
