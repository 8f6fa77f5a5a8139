// Package agentbus provides a high-level façade over the message bus and its
// supporting services (memory, trace logs, logging, fan-out workers) enabling
// rapid construction of in-process multi-agent systems. Most applications
// interact with this package by:
//  1. Creating an AgentBus via New() or NewFromConfig()
//  2. Registering agents (custom ones via Register, the playground roster via
//     RegisterDefaults)
//  3. Sending messages either directly (Send) or on behalf of an agent
//     through a bus.Context obtained from NewContext
//
// All defaults are safe for local development and testing: memory is kept in
// process and trace logs are discarded unless a sink is configured.
package agentbus

import (
	"context"
	"fmt"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/agentbus/agent"
	"github.com/hupe1980/agentbus/bus"
	"github.com/hupe1980/agentbus/config"
	"github.com/hupe1980/agentbus/core"
	"github.com/hupe1980/agentbus/logging"
	"github.com/hupe1980/agentbus/memory"
	"github.com/hupe1980/agentbus/tracelog"
)

// Options configures the AgentBus instance.
type Options struct {
	// MemoryStore is shared by every context created through the façade.
	// Defaults to an in-memory store.
	MemoryStore core.MemoryStore

	// LogSink receives per-trace message logs. Defaults to tracelog.NopSink.
	LogSink core.LogSink

	// Tracer records dispatch spans. Defaults to the global otel tracer.
	Tracer trace.Tracer

	// Workers sizes the pool running fan-out legs. Zero disables pooling
	// and every leg gets its own goroutine.
	Workers int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentBus is the high-level façade aggregating the bus and its services.
type AgentBus struct {
	opts Options
	bus  *bus.Bus
	pool *ants.Pool
}

// New creates a new AgentBus instance with optional overrides. Any unset
// service is initialized with an in-memory or no-op implementation.
func New(optFns ...func(o *Options)) *AgentBus {
	opts := Options{
		MemoryStore: memory.NewInMemoryStore(),
		LogSink:     tracelog.NopSink{},
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	b := bus.New(func(o *bus.Options) {
		o.Logger = opts.Logger
		o.Tracer = opts.Tracer
	})

	ab := &AgentBus{opts: opts, bus: b}
	if opts.Workers > 0 {
		pool, err := agent.NewPool(opts.Workers)
		if err != nil {
			opts.Logger.Warn("fan-out pool disabled", "workers", opts.Workers, "error", err)
		} else {
			ab.pool = pool
		}
	}
	return ab
}

// NewFromConfig builds an AgentBus from loaded configuration: logger
// backend, file or in-memory memory store, a file trace log under
// cfg.Traces.Dir and a fan-out pool of cfg.Workers.
func NewFromConfig(cfg *config.Config, optFns ...func(o *Options)) (*AgentBus, error) {
	logger := logging.New(cfg.LoggerConfig())

	var store core.MemoryStore
	switch cfg.Memory.Backend {
	case config.MemoryBackendMemory:
		store = memory.NewInMemoryStore()
	default:
		fileStore, err := memory.NewFileStore(cfg.Memory.Dir)
		if err != nil {
			return nil, fmt.Errorf("create memory store: %w", err)
		}
		store = fileStore
	}

	sink, err := tracelog.NewFileSink(cfg.Traces.Dir)
	if err != nil {
		return nil, fmt.Errorf("create trace log: %w", err)
	}

	return New(append([]func(o *Options){func(o *Options) {
		o.MemoryStore = store
		o.LogSink = sink
		o.Logger = logger
		o.Workers = cfg.Workers
	}}, optFns...)...), nil
}

// Bus exposes the underlying dispatcher.
func (ab *AgentBus) Bus() *bus.Bus { return ab.bus }

// Logger returns the configured logger.
func (ab *AgentBus) Logger() logging.Logger { return ab.opts.Logger }

// Register adds an agent to the bus, replacing any agent with the same ID.
func (ab *AgentBus) Register(a core.Agent) { ab.bus.Register(a) }

// RegisterDefaults registers the playground roster wired to the façade's
// services and returns the registered ids.
func (ab *AgentBus) RegisterDefaults() []string {
	return agent.RegisterDefaults(ab.bus, ab.agentOptions)
}

func (ab *AgentBus) agentOptions(o *agent.Options) {
	o.Logger = ab.opts.Logger
	o.Pool = ab.pool
	o.ContextOptions = append(o.ContextOptions, ab.contextOptions)
}

func (ab *AgentBus) contextOptions(o *bus.ContextOptions) {
	o.MemoryStore = ab.opts.MemoryStore
	o.LogSink = ab.opts.LogSink
	o.Logger = ab.opts.Logger
}

// NewContext returns a bus.Context sending as selfID and sharing the
// façade's memory store, trace log and logger.
func (ab *AgentBus) NewContext(selfID string, optFns ...func(o *bus.ContextOptions)) *bus.Context {
	return bus.NewContext(ab.bus, selfID, append([]func(o *bus.ContextOptions){ab.contextOptions}, optFns...)...)
}

// Send dispatches msg directly through the bus without loop protection or
// memory recording. Use NewContext to send on behalf of an agent.
func (ab *AgentBus) Send(ctx context.Context, msg core.Message) (core.Response, error) {
	return ab.bus.Send(ctx, msg)
}

// Memory returns the shared memory entries recorded for a trace.
func (ab *AgentBus) Memory(traceID string) ([]core.MemoryEntry, error) {
	return ab.opts.MemoryStore.Recall(traceID)
}

// Close releases the fan-out pool.
func (ab *AgentBus) Close() {
	if ab.pool != nil {
		ab.pool.Release()
	}
}
