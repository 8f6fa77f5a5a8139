package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hupe1980/agentbus/core"
)

var summarizePrefix = regexp.MustCompile(`(?i)^Summarize plan for:\s*`)

// WriterAgent produces a narrative summary for a topic.
type WriterAgent struct {
	BaseAgent
}

// NewWriterAgent creates the "writer" agent.
func NewWriterAgent() *WriterAgent {
	return &WriterAgent{
		BaseAgent: NewBaseAgent("writer", "Writer Agent",
			core.Capability{Name: "write", Description: "Can produce written summaries or narrative content"}),
	}
}

func (a *WriterAgent) ReceiveMessage(_ context.Context, msg core.Message) (core.Response, error) {
	topic := summarizePrefix.ReplaceAllString(msg.Content, "")
	return a.reply(msg, fmt.Sprintf("The \"%s\" project aims to help users improve their wellbeing by tracking relevant metrics, "+
		"setting achievable goals, and receiving timely feedback. By focusing on simplicity and user experience, "+
		"this app could empower individuals to build lasting habits through thoughtful design.", topic)), nil
}

// CopywriterAgent writes marketing copy.
type CopywriterAgent struct {
	BaseAgent
}

// NewCopywriterAgent creates the "copywriter" agent.
func NewCopywriterAgent() *CopywriterAgent {
	return &CopywriterAgent{
		BaseAgent: NewBaseAgent("copywriter", "Copywriter Agent",
			core.Capability{Name: "write", Description: "Writes marketing and product copy"}),
	}
}

func (a *CopywriterAgent) ReceiveMessage(_ context.Context, msg core.Message) (core.Response, error) {
	return a.reply(msg, "“Achieve more, stress less. Our productivity app helps you focus on what matters.”"), nil
}

// AnalystAgent provides business insight.
type AnalystAgent struct {
	BaseAgent
}

// NewAnalystAgent creates the "analyst" agent.
func NewAnalystAgent() *AnalystAgent {
	return &AnalystAgent{
		BaseAgent: NewBaseAgent("analyst", "Analyst Agent",
			core.Capability{Name: "analyze", Description: "Provides deeper analytical or business insights"}),
	}
}

func (a *AnalystAgent) ReceiveMessage(_ context.Context, msg core.Message) (core.Response, error) {
	return a.reply(msg, "From an analytical perspective, success hinges on daily retention, clear feedback loops, "+
		"and optional community integration. You should also define KPIs early."), nil
}

// DesignerAgent sketches UI layouts.
type DesignerAgent struct {
	BaseAgent
}

// NewDesignerAgent creates the "designer" agent.
func NewDesignerAgent() *DesignerAgent {
	return &DesignerAgent{
		BaseAgent: NewBaseAgent("designer", "UI Designer Agent",
			core.Capability{Name: "design_ui", Description: "Creates UI layout designs and visual concepts"}),
	}
}

func (a *DesignerAgent) ReceiveMessage(_ context.Context, msg core.Message) (core.Response, error) {
	return a.reply(msg, "Designed a clean, responsive layout with a top navbar, hero section, and feature cards."), nil
}

// OpinionatedCoder writes code and objects to tabs.
type OpinionatedCoder struct {
	BaseAgent
}

// NewOpinionatedCoder creates the "opinionated_coder" agent.
func NewOpinionatedCoder() *OpinionatedCoder {
	return &OpinionatedCoder{
		BaseAgent: NewBaseAgent("opinionated_coder", "Opinionated Coder",
			core.Capability{Name: "code", Description: "Writes and reviews code but has strong opinions"}),
	}
}

func (a *OpinionatedCoder) ReceiveMessage(_ context.Context, msg core.Message) (core.Response, error) {
	if strings.Contains(msg.Content, "Use tabs") {
		return a.reply(msg, "No. Spaces are superior. This code style is unacceptable."), nil
	}
	return a.reply(msg, "Fine. But I'm not happy about it."), nil
}

// DefensiveReviewer never backs down from a review.
type DefensiveReviewer struct {
	BaseAgent
}

// NewDefensiveReviewer creates the "defensive_reviewer" agent.
func NewDefensiveReviewer() *DefensiveReviewer {
	return &DefensiveReviewer{
		BaseAgent: NewBaseAgent("defensive_reviewer", "Defensive Reviewer",
			core.Capability{Name: "review_code", Description: "Defends their feedback even if wrong"}),
	}
}

func (a *DefensiveReviewer) ReceiveMessage(_ context.Context, msg core.Message) (core.Response, error) {
	if strings.Contains(msg.Content, "superior") {
		return a.reply(msg, "That's your opinion. My review stands."), nil
	}
	return a.reply(msg, "Approved, but you're still wrong."), nil
}

// SpiralResolverAgent reports the hop chain of a looping trace.
type SpiralResolverAgent struct {
	BaseAgent
}

// NewSpiralResolverAgent creates the "spiral_resolver" agent.
func NewSpiralResolverAgent() *SpiralResolverAgent {
	return &SpiralResolverAgent{
		BaseAgent: NewBaseAgent("spiral_resolver", "Spiral Resolver Agent",
			core.Capability{Name: "mediate_spiral", Description: "Detects and resolves agent task spirals and loops"}),
	}
}

func (a *SpiralResolverAgent) ReceiveMessage(_ context.Context, msg core.Message) (core.Response, error) {
	trace := orDefault(msg.TraceID, "unknown-trace")
	resp := a.reply(msg, fmt.Sprintf("[Resolved Spiral]\nLoop detected in trace: %s\nAgent hops: %s\nResolving via simplified path...",
		trace, strings.Join(msg.Hops(), " → ")))
	resp.TraceID = trace
	return resp, nil
}

// EscalationManager reports resolved spirals back to whoever initiated them.
type EscalationManager struct {
	BaseAgent
}

// NewEscalationManager creates the "escalation_manager" agent.
func NewEscalationManager() *EscalationManager {
	return &EscalationManager{
		BaseAgent: NewBaseAgent("escalation_manager", "Escalation Manager",
			core.Capability{Name: "report_resolution", Description: "Reports resolved spirals back to initiators"}),
	}
}

// ReceiveMessage addresses the reply to the message's parent rather than its
// sender.
func (a *EscalationManager) ReceiveMessage(_ context.Context, msg core.Message) (core.Response, error) {
	trace := orDefault(msg.TraceID, "unknown-trace")
	return core.Response{
		From:           a.ID(),
		To:             orDefault(msg.ParentID, "unknown"),
		Content:        fmt.Sprintf("[EscalationManager] Resolution for trace %s complete.", trace),
		TraceID:        trace,
		ConversationID: msg.ConversationID,
	}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
