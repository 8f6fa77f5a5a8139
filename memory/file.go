package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hupe1980/agentbus/core"
)

// ErrInvalidTraceID is returned when a trace id can not be used as a file name.
var ErrInvalidTraceID = errors.New("invalid trace id")

// FileStore persists each trace as one pretty-printed JSON array in
// <dir>/<traceID>.json. Writes are read-modify-write and serialized by a
// process-local mutex; concurrent writers in other processes are not
// coordinated.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the directory if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create memory dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (f *FileStore) Dir() string { return f.dir }

// Record appends the entry to the trace file.
func (f *FileStore) Record(traceID string, entry core.MemoryEntry) error {
	path, err := f.path(traceID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := readEntries(path)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode memory for trace %s: %w", traceID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write memory for trace %s: %w", traceID, err)
	}
	return nil
}

// Recall reads all entries recorded for the trace; a missing file yields an
// empty slice.
func (f *FileStore) Recall(traceID string) ([]core.MemoryEntry, error) {
	path, err := f.path(traceID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return readEntries(path)
}

func (f *FileStore) path(traceID string) (string, error) {
	if !core.ValidTraceID(traceID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTraceID, traceID)
	}
	return filepath.Join(f.dir, traceID+".json"), nil
}

func readEntries(path string) ([]core.MemoryEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []core.MemoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read memory file: %w", err)
	}
	entries := []core.MemoryEntry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode memory file %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}
