package core

import (
	"errors"
	"fmt"
)

// ErrAgentNotFound is returned (wrapped in *AgentNotFoundError) when a message
// is addressed to an identifier that is not registered on the bus.
var ErrAgentNotFound = errors.New("agent not found")

// AgentNotFoundError names the unknown recipient of a message.
type AgentNotFoundError struct {
	ID string
}

func (e *AgentNotFoundError) Error() string {
	return fmt.Sprintf("agent %s not found", e.ID)
}

// Unwrap allows errors.Is(err, ErrAgentNotFound).
func (e *AgentNotFoundError) Unwrap() error { return ErrAgentNotFound }
