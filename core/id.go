package core

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a new unique identifier for traces and conversations.
//
// Returns a string representation of a new random (v4) UUID.
func NewID() string { return uuid.NewString() }

// ValidTraceID reports whether id is usable as a single path element by
// file-backed stores and sinks (non-empty, no separators, no "..").
func ValidTraceID(id string) bool {
	if id == "" || id == "." {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}
