package tracelog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agentbus/core"
)

// TimestampLayout is the UTC millisecond ISO-8601 layout used in log lines.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Extension is the file extension of trace log files.
const Extension = ".log"

// ErrInvalidTraceID is returned for trace ids that can not name a log file.
var ErrInvalidTraceID = errors.New("invalid trace id")

// FormatLine renders a log entry as a single line without trailing newline.
func FormatLine(e core.LogEntry) string {
	content := strings.ReplaceAll(e.Content, "\n", " ")
	return fmt.Sprintf("[%s] %s %s → %s :: %s",
		e.Timestamp.UTC().Format(TimestampLayout),
		strings.ToUpper(string(e.Direction)),
		e.From, e.To, content)
}

// FileSink appends formatted entries to one file per trace id.
type FileSink struct {
	mu  sync.Mutex
	dir string
}

// NewFileSink creates the directory if needed and returns a sink writing there.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Write appends the entry to <dir>/<traceID>.log.
func (s *FileSink) Write(e core.LogEntry) error {
	if !core.ValidTraceID(e.TraceID) {
		return fmt.Errorf("%w: %q", ErrInvalidTraceID, e.TraceID)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, e.TraceID+Extension), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open trace log: %w", err)
	}
	if _, err := f.WriteString(FormatLine(e) + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("append trace log: %w", err)
	}
	return f.Close()
}

// NopSink discards all entries.
type NopSink struct{}

// Write implements core.LogSink.
func (NopSink) Write(core.LogEntry) error { return nil }

// MultiSink fans an entry out to several sinks, returning the joined errors.
type MultiSink []core.LogSink

// Write implements core.LogSink.
func (m MultiSink) Write(e core.LogEntry) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
