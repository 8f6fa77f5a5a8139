package tracelog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/agentbus/core"
)

// ErrTraceNotFound is returned when no log file exists for a trace id.
var ErrTraceNotFound = errors.New("trace not found")

// Dir reads trace logs from a directory written by FileSink.
type Dir struct {
	path string
}

// NewDir returns a reader over path. The directory does not need to exist.
func NewDir(path string) *Dir { return &Dir{path: path} }

// Path returns the directory being read.
func (d *Dir) Path() string { return d.path }

// Traces lists trace ids (file names without extension) in sorted order. A
// missing directory yields an empty list.
func (d *Dir) Traces() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read log dir: %w", err)
	}
	ids := []string{}
	for _, e := range entries {
		if id, ok := traceIDFromName(e.Name()); ok && !e.IsDir() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Read returns the raw log text for the trace.
func (d *Dir) Read(traceID string) (string, error) {
	if !core.ValidTraceID(traceID) {
		return "", fmt.Errorf("%w: %s", ErrTraceNotFound, traceID)
	}
	data, err := os.ReadFile(filepath.Join(d.path, traceID+Extension))
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrTraceNotFound, traceID)
	}
	if err != nil {
		return "", fmt.Errorf("read trace log: %w", err)
	}
	return string(data), nil
}

func traceIDFromName(name string) (string, bool) {
	if !strings.HasSuffix(name, Extension) {
		return "", false
	}
	id := strings.TrimSuffix(name, Extension)
	return id, id != ""
}
