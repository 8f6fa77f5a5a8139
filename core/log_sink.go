package core

import "time"

// LogDirection distinguishes send and receive lines in the trace log.
type LogDirection string

const (
	// LogSend marks a message leaving a context.
	LogSend LogDirection = "send"
	// LogReceive marks a response arriving at a context.
	LogReceive LogDirection = "receive"
)

// LogEntry is one line of a trace-keyed message log.
type LogEntry struct {
	Timestamp time.Time
	TraceID   string
	Direction LogDirection
	From      string
	To        string
	Content   string
}

// LogSink receives trace log entries. Implementations decide the on-disk (or
// in-memory) format; the core only requires that entries for one trace can be
// retrieved later by that trace id.
type LogSink interface {
	Write(entry LogEntry) error
}
