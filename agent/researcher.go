package agent

import (
	"context"
	"fmt"
	"regexp"

	"github.com/panjf2000/ants/v2"

	"github.com/hupe1980/agentbus/bus"
	"github.com/hupe1980/agentbus/core"
)

var researchPrefix = regexp.MustCompile(`(?i)^Research this goal:\s*`)

// ResearcherAgent gathers background on a topic and asks the first analyst
// for deeper insight.
type ResearcherAgent struct {
	BaseAgent
	bctx *bus.Context
	pool *ants.Pool
}

// NewResearcherAgent creates the "researcher" agent sending through b.
func NewResearcherAgent(b *bus.Bus, optFns ...func(o *Options)) *ResearcherAgent {
	opts := newOptions(optFns)
	const id = "researcher"
	return &ResearcherAgent{
		BaseAgent: NewBaseAgent(id, "Researcher Agent",
			core.Capability{Name: "research", Description: "Can find information related to a topic or goal"}),
		bctx: bus.NewContext(b, id, opts.ContextOptions...),
		pool: opts.Pool,
	}
}

// Context returns the researcher's bus context.
func (a *ResearcherAgent) Context() *bus.Context { return a.bctx }

func (a *ResearcherAgent) ReceiveMessage(ctx context.Context, msg core.Message) (core.Response, error) {
	topic := researchPrefix.ReplaceAllString(msg.Content, "")
	traceID := orDefault(msg.TraceID, core.NewID())
	conversationID := orDefault(msg.ConversationID, core.NewID())

	respond := func(content string) core.Response {
		return core.Response{From: a.ID(), To: msg.From, Content: content, TraceID: traceID, ConversationID: conversationID}
	}

	analystID, ok := a.bctx.FindAgent("analyze")
	if !ok {
		return respond(fmt.Sprintf("General info for \"%s\" but no analyst available.", topic)), nil
	}

	var sendErr error
	responses, err := fanOut(ctx, a.bctx.Conversations(), a.pool, conversationID,
		[]leg{{agentID: analystID, content: "Provide analysis for: " + topic}},
		func(ctx context.Context, l leg) core.Response {
			resp, err := a.bctx.Send(ctx, l.agentID, l.content,
				bus.WithTrace(traceID), bus.WithConversation(conversationID),
				bus.WithParent(msg.From), bus.WithMetadata(msg.Metadata))
			sendErr = err
			return resp
		})
	if err != nil {
		return core.Response{}, err
	}
	if sendErr != nil {
		return respond(fmt.Sprintf("Error: Failed to get analysis for \"%s\". %v", topic, sendErr)), nil
	}

	return respond(fmt.Sprintf(`Here are some key points about "%s":
- Common features: user tracking, progress charts, reminders
- Competitors: FitTrack, MyFitnessPal, Google Fit
- Trends: Wearable integration, gamification, habit loops

Analyst insight:
%s`, topic, responses[0].Content)), nil
}
