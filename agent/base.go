package agent

import (
	"fmt"

	"github.com/hupe1980/agentbus/core"
)

// BaseAgent bundles the identity every agent exposes on the bus. Embed it in
// concrete agent implementations and supply a ReceiveMessage method to
// satisfy the core.Agent interface.
type BaseAgent struct {
	id           string            // Routing key on the bus
	name         string            // Human-readable name
	capabilities []core.Capability // Declared once, never mutated
}

// NewBaseAgent constructs a BaseAgent. The capability list is copied.
func NewBaseAgent(id, name string, capabilities ...core.Capability) BaseAgent {
	return BaseAgent{
		id:           id,
		name:         name,
		capabilities: append([]core.Capability(nil), capabilities...),
	}
}

// ID returns the bus routing key for this agent.
func (b *BaseAgent) ID() string { return b.id }

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Capabilities returns a copy of the declared capabilities.
func (b *BaseAgent) Capabilities() []core.Capability {
	return append([]core.Capability(nil), b.capabilities...)
}

// Description renders the agent identity for listings.
func (b *BaseAgent) Description() string {
	if len(b.capabilities) == 0 {
		return fmt.Sprintf("%s (%s)", b.name, b.id)
	}
	return fmt.Sprintf("%s (%s): %s", b.name, b.id, b.capabilities[0].Description)
}

// reply answers msg from this agent.
func (b *BaseAgent) reply(msg core.Message, content string) core.Response {
	return core.ReplyTo(msg, b.id, content)
}
