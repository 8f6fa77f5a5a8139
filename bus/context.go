package bus

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hupe1980/agentbus/core"
	"github.com/hupe1980/agentbus/logging"
	"github.com/hupe1980/agentbus/memory"
	"github.com/hupe1980/agentbus/tracelog"
	"github.com/hupe1980/agentbus/tracker"
)

// MaxDepth is the hard ceiling on message depth. A send whose resulting depth
// exceeds it is short-circuited.
const MaxDepth = 10

// ContextOptions configures a Context.
type ContextOptions struct {
	// MemoryStore receives sent/received entries. Defaults to a private
	// in-memory store.
	MemoryStore core.MemoryStore

	// LogSink receives send/receive trace log entries. Defaults to NopSink.
	LogSink core.LogSink

	// Logger receives [SEND] / [RECV] lines. Defaults to NoOp logger if nil.
	Logger logging.Logger

	// NewID generates trace and conversation ids. Defaults to core.NewID.
	NewID func() string

	// Now supplies timestamps. Defaults to time.Now.
	Now func() time.Time
}

// SendOptions carries optional correlation and provenance for Context.Send.
type SendOptions struct {
	TraceID        string
	ConversationID string
	ParentID       string
	Metadata       *core.Metadata
}

// Context mediates all outgoing sends for one agent identity.
type Context struct {
	bus    *Bus
	selfID string

	store         core.MemoryStore
	sink          core.LogSink
	logger        logging.Logger
	newID         func() string
	now           func() time.Time
	conversations *tracker.Tracker
}

// NewContext creates a Context sending as selfID through b.
func NewContext(b *Bus, selfID string, optFns ...func(o *ContextOptions)) *Context {
	opts := ContextOptions{
		LogSink: tracelog.NopSink{},
		Logger:  logging.NoOpLogger{},
		NewID:   core.NewID,
		Now:     time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MemoryStore == nil {
		opts.MemoryStore = memory.NewInMemoryStore()
	}
	if opts.LogSink == nil {
		opts.LogSink = tracelog.NopSink{}
	}
	if opts.NewID == nil {
		opts.NewID = core.NewID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Context{
		bus:           b,
		selfID:        selfID,
		store:         opts.MemoryStore,
		sink:          opts.LogSink,
		logger:        logging.OrNoOp(opts.Logger),
		newID:         opts.NewID,
		now:           opts.Now,
		conversations: tracker.New(),
	}
}

// SelfID returns the identity this context sends as.
func (c *Context) SelfID() string { return c.selfID }

// Conversations returns the context's private conversation tracker.
func (c *Context) Conversations() *tracker.Tracker { return c.conversations }

// Send delivers content to the agent identified by to and returns its response.
//
// Trace and conversation ids default to fresh ids. If the previous hop chain
// already contains this context's identity, or the resulting depth exceeds
// MaxDepth, no message is dispatched and a synthesized "[ERROR] Loop or depth
// limit reached" response is returned with a nil error.
//
// Errors from the bus (unknown recipient, handler failure) are returned as is.
func (c *Context) Send(ctx context.Context, to, content string, optFns ...func(o *SendOptions)) (core.Response, error) {
	var opts SendOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	traceID := opts.TraceID
	if traceID == "" {
		traceID = c.newID()
	}
	conversationID := opts.ConversationID
	if conversationID == "" {
		conversationID = c.newID()
	}

	meta := opts.Metadata.Clone()
	if meta == nil {
		meta = &core.Metadata{}
	}
	previousHops := meta.Hops
	newDepth := meta.Depth + 1
	hops := append(append([]string{}, previousHops...), c.selfID)

	if slices.Contains(previousHops, c.selfID) || newDepth > MaxDepth {
		return core.Response{
			From:           c.selfID,
			To:             to,
			Content:        fmt.Sprintf("[ERROR] Loop or depth limit reached (depth=%d)\nHops: %s", newDepth, strings.Join(hops, " → ")),
			TraceID:        traceID,
			ConversationID: conversationID,
		}, nil
	}

	meta.Hops = hops
	meta.Depth = newDepth

	msg := core.Message{
		From:           c.selfID,
		To:             to,
		Content:        content,
		TraceID:        traceID,
		ConversationID: conversationID,
		ParentID:       opts.ParentID,
		Metadata:       meta,
	}

	c.logger.Info(fmt.Sprintf("[SEND] [%s] %s → %s :: %s", traceID, msg.From, msg.To, content),
		"trace_id", traceID, "from", msg.From, "to", msg.To, "depth", newDepth)
	c.writeLog(core.LogSend, traceID, msg.From, msg.To, content)
	if err := c.store.Record(traceID, core.MemoryEntry{
		Direction:      core.DirectionSent,
		Peer:           to,
		Content:        content,
		ConversationID: conversationID,
		Timestamp:      c.now().UnixMilli(),
	}); err != nil {
		return core.Response{}, fmt.Errorf("record sent memory: %w", err)
	}

	resp, err := c.bus.Send(ctx, msg)
	if err != nil {
		return core.Response{}, err
	}

	c.writeLog(core.LogReceive, traceID, resp.From, resp.To, resp.Content)
	if err := c.store.Record(traceID, core.MemoryEntry{
		Direction:      core.DirectionReceived,
		Peer:           resp.From,
		Content:        resp.Content,
		ConversationID: resp.ConversationID,
		Timestamp:      c.now().UnixMilli(),
	}); err != nil {
		return resp, fmt.Errorf("record received memory: %w", err)
	}

	c.logger.Info(fmt.Sprintf("[RECV] [%s] %s → %s :: %s", traceID, resp.From, resp.To, FirstLine(resp.Content)),
		"trace_id", traceID, "from", resp.From, "to", resp.To)

	return resp, nil
}

// writeLog forwards to the sink; sink failures are logged, never returned.
func (c *Context) writeLog(dir core.LogDirection, traceID, from, to, content string) {
	err := c.sink.Write(core.LogEntry{
		Timestamp: c.now(),
		TraceID:   traceID,
		Direction: dir,
		From:      from,
		To:        to,
		Content:   content,
	})
	if err != nil {
		c.logger.Warn("trace log write failed", "trace_id", traceID, "error", err)
	}
}

// FindAgent returns the id of the first agent declaring the capability.
func (c *Context) FindAgent(capability string) (string, bool) {
	a, ok := c.bus.FirstAgentByCapability(capability)
	if !ok {
		return "", false
	}
	return a.ID(), true
}

// FindAgents returns the ids of every agent declaring the capability.
func (c *Context) FindAgents(capability string) []string {
	agents := c.bus.AgentsByCapability(capability)
	ids := make([]string, 0, len(agents))
	for _, a := range agents {
		ids = append(ids, a.ID())
	}
	return ids
}

// Memory returns every entry recorded for the trace, in recording order.
func (c *Context) Memory(traceID string) ([]core.MemoryEntry, error) {
	return c.store.Recall(traceID)
}

// FirstLine returns s up to (not including) the first newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// WithTrace sets the trace id of a send.
func WithTrace(traceID string) func(o *SendOptions) {
	return func(o *SendOptions) { o.TraceID = traceID }
}

// WithConversation sets the conversation id of a send.
func WithConversation(conversationID string) func(o *SendOptions) {
	return func(o *SendOptions) { o.ConversationID = conversationID }
}

// WithParent sets the parent id carried by the outgoing message.
func WithParent(parentID string) func(o *SendOptions) {
	return func(o *SendOptions) { o.ParentID = parentID }
}

// WithMetadata continues the provenance chain of an incoming message.
func WithMetadata(meta *core.Metadata) func(o *SendOptions) {
	return func(o *SendOptions) { o.Metadata = meta }
}
