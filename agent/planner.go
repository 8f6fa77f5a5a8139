package agent

import (
	"context"
	"fmt"

	"github.com/panjf2000/ants/v2"

	"github.com/hupe1980/agentbus/bus"
	"github.com/hupe1980/agentbus/core"
	"github.com/hupe1980/agentbus/logging"
)

// PlannerAgent breaks a goal into a research leg and a writing leg, runs both
// concurrently and combines the answers.
type PlannerAgent struct {
	BaseAgent
	bctx   *bus.Context
	logger logging.Logger
	pool   *ants.Pool
}

// NewPlannerAgent creates the "planner" agent sending through b.
func NewPlannerAgent(b *bus.Bus, optFns ...func(o *Options)) *PlannerAgent {
	opts := newOptions(optFns)
	const id = "planner"
	return &PlannerAgent{
		BaseAgent: NewBaseAgent(id, "Planner Agent",
			core.Capability{Name: "plan", Description: "Can break down high-level goals into subtasks"}),
		bctx:   bus.NewContext(b, id, opts.ContextOptions...),
		logger: opts.Logger,
		pool:   opts.Pool,
	}
}

// Context returns the planner's bus context.
func (a *PlannerAgent) Context() *bus.Context { return a.bctx }

func (a *PlannerAgent) ReceiveMessage(ctx context.Context, msg core.Message) (core.Response, error) {
	goal := msg.Content
	traceID := orDefault(msg.TraceID, core.NewID())
	conversationID := orDefault(msg.ConversationID, core.NewID())

	seen, err := a.bctx.Memory(traceID)
	if err != nil {
		a.logger.Warn("recall memory failed", "trace_id", traceID, "error", err)
	}
	a.logger.Info(fmt.Sprintf("[MEMORY] [%s] Planner has seen %d events so far.", traceID, len(seen)),
		"trace_id", traceID, "events", len(seen))

	respond := func(content string) core.Response {
		return core.Response{From: a.ID(), To: msg.From, Content: content, TraceID: traceID, ConversationID: conversationID}
	}

	researcherID, hasResearcher := a.bctx.FindAgent("research")
	writerID, hasWriter := a.bctx.FindAgent("write")
	if !hasResearcher && !hasWriter {
		return respond(fmt.Sprintf("Goal: %s\n\nResearch:\nNo research agent available.\n\nWritten Summary:\nNo writer agent available.", goal)), nil
	}

	failures := map[string]string{}
	var legs []leg
	if hasResearcher {
		legs = append(legs, leg{agentID: researcherID, content: "Research this goal: " + goal})
		failures[researcherID] = "Error: Research failed - %v"
	}
	if hasWriter {
		legs = append(legs, leg{agentID: writerID, content: "Summarize plan for: " + goal})
		if _, ok := failures[writerID]; !ok {
			failures[writerID] = "Error: Writing failed - %v"
		}
	}

	responses, err := fanOut(ctx, a.bctx.Conversations(), a.pool, conversationID, legs, func(ctx context.Context, l leg) core.Response {
		resp, err := a.bctx.Send(ctx, l.agentID, l.content,
			bus.WithTrace(traceID), bus.WithConversation(conversationID),
			bus.WithParent(msg.From), bus.WithMetadata(msg.Metadata))
		if err != nil {
			return core.Response{
				From:           l.agentID,
				To:             a.ID(),
				Content:        fmt.Sprintf(failures[l.agentID], err),
				TraceID:        traceID,
				ConversationID: conversationID,
			}
		}
		return resp
	})
	if err != nil {
		return core.Response{}, err
	}

	research := "No research response received."
	if hasResearcher {
		research = responseFrom(responses, researcherID, research)
	}
	summary := "No writer response received."
	if hasWriter {
		summary = responseFrom(responses, writerID, summary)
	}

	return respond(fmt.Sprintf("Goal: %s\n\nResearch:\n%s\n\nWritten Summary:\n%s", goal, research, summary)), nil
}
