package testutil

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/agentbus/core"
)

// RecordingSink keeps every trace log entry in memory.
type RecordingSink struct {
	mu      sync.Mutex
	entries []core.LogEntry
}

// Write implements core.LogSink.
func (s *RecordingSink) Write(e core.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

// Entries returns a copy of the recorded entries.
func (s *RecordingSink) Entries() []core.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.LogEntry(nil), s.entries...)
}

// LogRecord is a captured log call.
type LogRecord struct {
	Level string
	Msg   string
	Args  []any
}

// RecordingLogger captures log calls for assertions.
type RecordingLogger struct {
	mu      sync.Mutex
	records []LogRecord
}

func (l *RecordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, LogRecord{Level: level, Msg: msg, Args: args})
}

// Debug logs a debug message.
func (l *RecordingLogger) Debug(msg string, args ...any) { l.add("DEBUG", msg, args) }

// Info logs an informational message.
func (l *RecordingLogger) Info(msg string, args ...any) { l.add("INFO", msg, args) }

// Warn logs a warning message.
func (l *RecordingLogger) Warn(msg string, args ...any) { l.add("WARN", msg, args) }

// Error logs an error message.
func (l *RecordingLogger) Error(msg string, args ...any) { l.add("ERROR", msg, args) }

// Records returns a copy of the captured calls.
func (l *RecordingLogger) Records() []LogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogRecord(nil), l.records...)
}

// Messages returns the captured messages starting with prefix.
func (l *RecordingLogger) Messages(prefix string) []string {
	var out []string
	for _, r := range l.Records() {
		if strings.HasPrefix(r.Msg, prefix) {
			out = append(out, r.Msg)
		}
	}
	return out
}

// String renders all captured messages, one per line.
func (l *RecordingLogger) String() string {
	var b strings.Builder
	for _, r := range l.Records() {
		fmt.Fprintf(&b, "%s %s\n", r.Level, r.Msg)
	}
	return b.String()
}
