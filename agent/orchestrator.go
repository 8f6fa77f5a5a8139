package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/panjf2000/ants/v2"

	"github.com/hupe1980/agentbus/bus"
	"github.com/hupe1980/agentbus/core"
	"github.com/hupe1980/agentbus/logging"
	"github.com/hupe1980/agentbus/resilience"
)

// subtask maps a capability to the instruction sent to whoever provides it.
type subtask struct {
	capability string
	format     string
}

var orchestratorSubtasks = []subtask{
	{capability: "design_ui", format: "Design layout for: %s"},
	{capability: "write", format: "Write intro copy for: %s"},
	{capability: "code", format: "Implement UI in HTML for: %s"},
}

// OrchestratorAgent splits a goal into design, copy and code subtasks, runs
// them concurrently with retry-once-then-fallback and assembles the results
// in arrival order.
type OrchestratorAgent struct {
	BaseAgent
	bctx   *bus.Context
	logger logging.Logger
	pool   *ants.Pool
}

// NewOrchestratorAgent creates the "orchestrator" agent sending through b.
func NewOrchestratorAgent(b *bus.Bus, optFns ...func(o *Options)) *OrchestratorAgent {
	opts := newOptions(optFns)
	const id = "orchestrator"
	return &OrchestratorAgent{
		BaseAgent: NewBaseAgent(id, "Orchestrator Agent",
			core.Capability{Name: "orchestrate", Description: "Coordinates tasks between agents and assembles results"}),
		bctx:   bus.NewContext(b, id, opts.ContextOptions...),
		logger: opts.Logger,
		pool:   opts.Pool,
	}
}

// Context returns the orchestrator's bus context.
func (a *OrchestratorAgent) Context() *bus.Context { return a.bctx }

// ReceiveMessage blocks until every assignee answered (or fell back) or ctx
// is done, in which case ctx's error is returned.
func (a *OrchestratorAgent) ReceiveMessage(ctx context.Context, msg core.Message) (core.Response, error) {
	goal := msg.Content
	traceID := orDefault(msg.TraceID, core.NewID())
	conversationID := orDefault(msg.ConversationID, core.NewID())

	respond := func(content string) core.Response {
		return core.Response{From: a.ID(), To: msg.From, Content: content, TraceID: traceID, ConversationID: conversationID}
	}

	var legs []leg
	for _, t := range orchestratorSubtasks {
		if id, ok := a.bctx.FindAgent(t.capability); ok {
			legs = append(legs, leg{agentID: id, content: fmt.Sprintf(t.format, goal)})
		}
	}
	if len(legs) == 0 {
		return respond("No agents available to orchestrate tasks for: " + goal), nil
	}

	responses, err := fanOut(ctx, a.bctx.Conversations(), a.pool, conversationID, legs, func(ctx context.Context, l leg) core.Response {
		return resilience.CallWithFallback(ctx,
			func(ctx context.Context) (core.Response, error) {
				return a.bctx.Send(ctx, l.agentID, l.content,
					bus.WithTrace(traceID), bus.WithConversation(conversationID),
					bus.WithParent(msg.From), bus.WithMetadata(msg.Metadata))
			},
			func(error) core.Response {
				return core.Response{
					From:           l.agentID,
					To:             a.ID(),
					Content:        fmt.Sprintf("[FALLBACK] %s failed after retry.", l.agentID),
					TraceID:        traceID,
					ConversationID: conversationID,
				}
			},
			func(o *resilience.Options) {
				o.OnRetry = func(err error) {
					a.logger.Warn(fmt.Sprintf("[WARN] [%s] %s failed, retrying once...", traceID, l.agentID),
						"trace_id", traceID, "agent", l.agentID, "error", err)
				}
			})
	})
	if err != nil {
		return core.Response{}, err
	}

	parts := make([]string, 0, len(responses))
	for _, r := range responses {
		parts = append(parts, fmt.Sprintf("From %s:\n%s", r.From, r.Content))
	}
	return respond(fmt.Sprintf("Here is your assembled result for: %s\n\n%s", goal, strings.Join(parts, "\n\n"))), nil
}
