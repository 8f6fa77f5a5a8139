package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubAgent struct{ caps []Capability }

func (s stubAgent) ID() string                 { return "stub" }
func (s stubAgent) Name() string               { return "Stub" }
func (s stubAgent) Capabilities() []Capability { return s.caps }
func (s stubAgent) ReceiveMessage(_ context.Context, msg Message) (Response, error) {
	return ReplyTo(msg, "stub", msg.Content), nil
}

func TestHasCapability(t *testing.T) {
	a := stubAgent{caps: []Capability{{Name: "write", Description: "Writes copy"}, {Name: "design_ui"}}}

	assert.True(t, HasCapability(a, "write"))
	assert.True(t, HasCapability(a, "design_ui"))
	assert.False(t, HasCapability(a, "Write"))
	assert.False(t, HasCapability(stubAgent{}, "write"))
}

func TestAgentNotFoundError(t *testing.T) {
	var err error = &AgentNotFoundError{ID: "ghost"}
	assert.EqualError(t, err, "agent ghost not found")
	assert.True(t, errors.Is(err, ErrAgentNotFound))
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestValidTraceID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"3f1c6a2e-6c6d-4c53-9a7e-1d1f4b0e9a11", true},
		{"trace-1", true},
		{"", false},
		{".", false},
		{"..", false},
		{"a/b", false},
		{`a\b`, false},
		{"../etc", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidTraceID(tt.id))
		})
	}
}
