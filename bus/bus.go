package bus

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/agentbus/core"
	"github.com/hupe1980/agentbus/logging"
)

// InstrumentationName names the otel tracer used when none is configured.
const InstrumentationName = "github.com/hupe1980/agentbus/bus"

// Options configures a Bus.
type Options struct {
	// Logger receives the [DISPATCH] line for every routed message.
	// Defaults to NoOp logger if nil.
	Logger logging.Logger

	// Tracer records one span per dispatch. Defaults to the global otel
	// tracer provider, which is a no-op unless the application installs one.
	Tracer trace.Tracer
}

// Bus is the central message dispatcher.
//
// Concurrency Model:
//   - Registry reads and writes are guarded by an RWMutex
//   - Handlers are invoked outside the lock, so agents may send further
//     messages (or register agents) while handling one
type Bus struct {
	logger logging.Logger
	tracer trace.Tracer

	mu     sync.RWMutex
	agents map[string]core.Agent
	order  []string // registration order; replacement keeps the original slot
}

// New creates an empty Bus.
func New(optFns ...func(o *Options)) *Bus {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(InstrumentationName)
	}

	return &Bus{
		logger: logging.OrNoOp(opts.Logger),
		tracer: opts.Tracer,
		agents: make(map[string]core.Agent),
	}
}

// Register adds an agent under its ID. If an agent with the same ID already
// exists it is replaced without warning and keeps its registry position.
func (b *Bus) Register(a core.Agent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := a.ID()
	if _, exists := b.agents[id]; !exists {
		b.order = append(b.order, id)
	}
	b.agents[id] = a
}

// Agent retrieves a registered agent by id.
func (b *Bus) Agent(id string) (core.Agent, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.agents[id]
	return a, ok
}

// Send routes msg to its recipient and returns the recipient's response with
// TraceID forced to msg.TraceID. An unknown recipient yields an
// *core.AgentNotFoundError without invoking any handler; handler errors are
// returned unchanged.
func (b *Bus) Send(ctx context.Context, msg core.Message) (core.Response, error) {
	recipient, ok := b.Agent(msg.To)
	if !ok {
		return core.Response{}, &core.AgentNotFoundError{ID: msg.To}
	}

	ctx, span := b.tracer.Start(ctx, "bus.dispatch",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("agentbus.trace_id", msg.TraceID),
			attribute.String("agentbus.conversation_id", msg.ConversationID),
			attribute.String("agentbus.from", msg.From),
			attribute.String("agentbus.to", msg.To),
		),
	)
	defer span.End()

	b.logger.Info(fmt.Sprintf("[DISPATCH] [%s] %s → %s", msg.TraceID, msg.From, msg.To),
		"trace_id", msg.TraceID, "from", msg.From, "to", msg.To)

	resp, err := recipient.ReceiveMessage(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return core.Response{}, err
	}

	resp.TraceID = msg.TraceID
	return resp, nil
}

// AgentsByCapability returns, in registry order, every agent declaring the
// named capability.
func (b *Bus) AgentsByCapability(name string) []core.Agent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var matches []core.Agent
	for _, id := range b.order {
		if a := b.agents[id]; core.HasCapability(a, name) {
			matches = append(matches, a)
		}
	}
	return matches
}

// FirstAgentByCapability returns the first agent (registry order) declaring
// the named capability.
func (b *Bus) FirstAgentByCapability(name string) (core.Agent, bool) {
	matches := b.AgentsByCapability(name)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// ListAgents returns registered agent ids in registry order.
func (b *Bus) ListAgents() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.order...)
}
