package agent

import (
	"github.com/hupe1980/agentbus/bus"
	"github.com/hupe1980/agentbus/core"
)

// Roster builds the complete playground roster in registration order.
// Coordinating agents get their own bus.Context on b.
func Roster(b *bus.Bus, optFns ...func(o *Options)) []core.Agent {
	return []core.Agent{
		NewPlannerAgent(b, optFns...),
		NewResearcherAgent(b, optFns...),
		NewWriterAgent(),
		NewAnalystAgent(),
		NewSpiralResolverAgent(),
		NewEscalationManager(),
		NewOpinionatedCoder(),
		NewDefensiveReviewer(),
		NewDesignerAgent(),
		NewCopywriterAgent(),
		NewOrchestratorAgent(b, optFns...),
	}
}

// RegisterDefaults registers the playground roster on b and returns the
// registered ids.
func RegisterDefaults(b *bus.Bus, optFns ...func(o *Options)) []string {
	agents := Roster(b, optFns...)
	ids := make([]string, 0, len(agents))
	for _, a := range agents {
		b.Register(a)
		ids = append(ids, a.ID())
	}
	return ids
}
