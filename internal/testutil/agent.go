package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/agentbus/core"
)

// FuncAgent is a configurable agent whose handler is a plain function. It
// records every message it receives.
type FuncAgent struct {
	AgentID   string
	AgentName string
	Caps      []core.Capability
	Handle    func(ctx context.Context, msg core.Message) (core.Response, error)

	mu       sync.Mutex
	received []core.Message
}

// NewFuncAgent builds an agent with the given id, handler and capability names.
func NewFuncAgent(id string, handle func(ctx context.Context, msg core.Message) (core.Response, error), capabilities ...string) *FuncAgent {
	caps := make([]core.Capability, 0, len(capabilities))
	for _, c := range capabilities {
		caps = append(caps, core.Capability{Name: c, Description: c})
	}
	return &FuncAgent{AgentID: id, AgentName: id, Caps: caps, Handle: handle}
}

// NewEchoAgent replies with "ok:" + content to the sender.
func NewEchoAgent(id string, capabilities ...string) *FuncAgent {
	return NewFuncAgent(id, func(_ context.Context, msg core.Message) (core.Response, error) {
		return core.ReplyTo(msg, id, "ok:"+msg.Content), nil
	}, capabilities...)
}

// NewFailingAgent always returns err.
func NewFailingAgent(id string, err error, capabilities ...string) *FuncAgent {
	return NewFuncAgent(id, func(context.Context, core.Message) (core.Response, error) {
		return core.Response{}, err
	}, capabilities...)
}

func (a *FuncAgent) ID() string                      { return a.AgentID }
func (a *FuncAgent) Name() string                    { return a.AgentName }
func (a *FuncAgent) Capabilities() []core.Capability { return a.Caps }

// ReceiveMessage records msg and delegates to Handle.
func (a *FuncAgent) ReceiveMessage(ctx context.Context, msg core.Message) (core.Response, error) {
	a.mu.Lock()
	a.received = append(a.received, msg)
	a.mu.Unlock()
	return a.Handle(ctx, msg)
}

// Received returns a copy of all messages handled so far.
func (a *FuncAgent) Received() []core.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]core.Message(nil), a.received...)
}

// Calls returns the number of messages handled so far.
func (a *FuncAgent) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.received)
}
