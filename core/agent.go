package core

import "context"

// Capability is a named, described unit of functionality an agent claims to
// provide. Capabilities drive discovery: callers look agents up by name rather
// than by identifier.
type Capability struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Agent defines the interface every participant on the bus must implement.
//
// Implementations must:
//   - Return a stable, unique ID (the bus routing key)
//   - Declare their capabilities up front; the list is treated as immutable
//   - Respect context cancellation inside ReceiveMessage
//   - Produce exactly one Response per Message
type Agent interface {
	ID() string
	Name() string
	Capabilities() []Capability
	ReceiveMessage(ctx context.Context, msg Message) (Response, error)
}

// HasCapability reports whether the agent declares a capability with exactly
// the given name (case sensitive).
func HasCapability(a Agent, name string) bool {
	for _, c := range a.Capabilities() {
		if c.Name == name {
			return true
		}
	}
	return false
}
