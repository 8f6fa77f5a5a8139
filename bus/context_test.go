package bus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentbus/core"
	"github.com/hupe1980/agentbus/internal/testutil"
	"github.com/hupe1980/agentbus/memory"
)

func fixedIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestContext_SendEchoScenario(t *testing.T) {
	b := New()
	b.Register(testutil.NewEchoAgent("echo"))
	c := NewContext(b, "caller")

	resp, err := c.Send(context.Background(), "echo", "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok:hi", resp.Content)
	assert.NotEmpty(t, resp.TraceID)

	entries, err := c.Memory(resp.TraceID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, core.DirectionSent, entries[0].Direction)
	assert.Equal(t, "echo", entries[0].Peer)
	assert.Equal(t, "hi", entries[0].Content)
	assert.Equal(t, core.DirectionReceived, entries[1].Direction)
	assert.Equal(t, "echo", entries[1].Peer)
	assert.Equal(t, "ok:hi", entries[1].Content)
}

func TestContext_GeneratesIndependentIDs(t *testing.T) {
	b := New()
	echo := testutil.NewEchoAgent("echo")
	b.Register(echo)
	c := NewContext(b, "caller", func(o *ContextOptions) { o.NewID = fixedIDs("trace-x", "conv-y") })

	resp, err := c.Send(context.Background(), "echo", "hi")
	require.NoError(t, err)
	assert.Equal(t, "trace-x", resp.TraceID)
	assert.Equal(t, "conv-y", resp.ConversationID)

	msg := echo.Received()[0]
	assert.Equal(t, "trace-x", msg.TraceID)
	assert.Equal(t, "conv-y", msg.ConversationID)
}

func TestContext_SendBuildsProvenance(t *testing.T) {
	b := New()
	echo := testutil.NewEchoAgent("echo")
	b.Register(echo)
	c := NewContext(b, "planner")

	deadline := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	in := &core.Metadata{Hops: []string{"user", "orchestrator"}, Depth: 2, Deadline: &deadline, Extra: map[string]any{"project": "landing"}}

	_, err := c.Send(context.Background(), "echo", "go",
		WithTrace("t1"), WithConversation("c1"), WithParent("user"), WithMetadata(in))
	require.NoError(t, err)

	msg := echo.Received()[0]
	assert.Equal(t, "planner", msg.From)
	assert.Equal(t, "echo", msg.To)
	assert.Equal(t, "t1", msg.TraceID)
	assert.Equal(t, "c1", msg.ConversationID)
	assert.Equal(t, "user", msg.ParentID)
	require.NotNil(t, msg.Metadata)
	assert.Equal(t, []string{"user", "orchestrator", "planner"}, msg.Metadata.Hops)
	assert.Equal(t, 3, msg.Metadata.Depth)
	assert.Equal(t, &deadline, msg.Metadata.Deadline)
	assert.Equal(t, "landing", msg.Metadata.Extra["project"])

	// caller metadata untouched
	assert.Equal(t, []string{"user", "orchestrator"}, in.Hops)
	assert.Equal(t, 2, in.Depth)
}

func TestContext_HopsMatchDepthAcrossChain(t *testing.T) {
	b := New()
	var last core.Message
	b.Register(testutil.NewFuncAgent("sink", func(_ context.Context, msg core.Message) (core.Response, error) {
		last = msg
		return core.ReplyTo(msg, "sink", "done"), nil
	}))
	relay := NewContext(b, "relay")
	b.Register(testutil.NewFuncAgent("relay", func(ctx context.Context, msg core.Message) (core.Response, error) {
		return relay.Send(ctx, "sink", msg.Content, WithTrace(msg.TraceID), WithMetadata(msg.Metadata))
	}))

	_, err := NewContext(b, "origin").Send(context.Background(), "relay", "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"origin", "relay"}, last.Metadata.Hops)
	assert.Equal(t, len(last.Metadata.Hops), last.Metadata.Depth)
}

func TestContext_LoopDetected(t *testing.T) {
	b := New()
	x := testutil.NewEchoAgent("x")
	b.Register(x)
	c := NewContext(b, "c")

	resp, err := c.Send(context.Background(), "x", "m",
		WithTrace("t1"), WithConversation("c1"),
		WithMetadata(&core.Metadata{Hops: []string{"c"}, Depth: 1}))
	require.NoError(t, err)

	assert.Equal(t, "[ERROR] Loop or depth limit reached (depth=2)\nHops: c → c", resp.Content)
	assert.Equal(t, "c", resp.From)
	assert.Equal(t, "x", resp.To)
	assert.Equal(t, "t1", resp.TraceID)
	assert.Equal(t, "c1", resp.ConversationID)
	assert.Equal(t, 0, x.Calls())

	entries, err := c.Memory("t1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestContext_DepthLimit(t *testing.T) {
	tests := []struct {
		depth    int
		blocked  bool
		wantText string
	}{
		{depth: 8, blocked: false},
		{depth: 9, blocked: false},
		{depth: 10, blocked: true, wantText: "[ERROR] Loop or depth limit reached (depth=11)"},
		{depth: 42, blocked: true, wantText: "[ERROR] Loop or depth limit reached (depth=43)"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.depth), func(t *testing.T) {
			b := New()
			x := testutil.NewEchoAgent("x")
			b.Register(x)
			c := NewContext(b, "c")

			hops := make([]string, tt.depth)
			for i := range hops {
				hops[i] = fmt.Sprintf("h%d", i)
			}
			resp, err := c.Send(context.Background(), "x", "m", WithMetadata(&core.Metadata{Hops: hops, Depth: tt.depth}))
			require.NoError(t, err)

			if tt.blocked {
				assert.Equal(t, 0, x.Calls())
				assert.Contains(t, resp.Content, tt.wantText)
				assert.Contains(t, resp.Content, "h0 → h1")
				assert.True(t, strings.HasSuffix(resp.Content, " → c"))
			} else {
				assert.Equal(t, 1, x.Calls())
				assert.Equal(t, "ok:m", resp.Content)
			}
		})
	}
}

func TestContext_UnknownRecipient(t *testing.T) {
	b := New()
	c := NewContext(b, "caller")

	_, err := c.Send(context.Background(), "ghost", "hi", WithTrace("t1"))
	assert.ErrorIs(t, err, core.ErrAgentNotFound)

	// the outgoing entry is recorded before dispatch
	entries, _ := c.Memory("t1")
	require.Len(t, entries, 1)
	assert.Equal(t, core.DirectionSent, entries[0].Direction)
}

func TestContext_HandlerFailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	b := New()
	b.Register(testutil.NewFailingAgent("bad", boom))
	c := NewContext(b, "caller")

	_, err := c.Send(context.Background(), "bad", "hi")
	assert.ErrorIs(t, err, boom)
}

func TestContext_ObservabilityAndSink(t *testing.T) {
	logger := &testutil.RecordingLogger{}
	sink := &testutil.RecordingSink{}
	now := time.UnixMilli(1_700_000_000_000)

	b := New()
	b.Register(testutil.NewFuncAgent("writer", func(_ context.Context, msg core.Message) (core.Response, error) {
		return core.ReplyTo(msg, "writer", "headline\nbody text"), nil
	}))
	c := NewContext(b, "planner", func(o *ContextOptions) {
		o.Logger = logger
		o.LogSink = sink
		o.Now = func() time.Time { return now }
	})

	_, err := c.Send(context.Background(), "writer", "draft", WithTrace("t1"))
	require.NoError(t, err)

	assert.Equal(t, []string{"[SEND] [t1] planner → writer :: draft"}, logger.Messages("[SEND]"))
	assert.Equal(t, []string{"[RECV] [t1] writer → planner :: headline"}, logger.Messages("[RECV]"))

	entries := sink.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, core.LogEntry{Timestamp: now, TraceID: "t1", Direction: core.LogSend, From: "planner", To: "writer", Content: "draft"}, entries[0])
	assert.Equal(t, core.LogReceive, entries[1].Direction)
	assert.Equal(t, "headline\nbody text", entries[1].Content)

	mem, err := c.Memory("t1")
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), mem[0].Timestamp)
}

func TestContext_SharedFileStore(t *testing.T) {
	store, err := memory.NewFileStore(t.TempDir())
	require.NoError(t, err)

	b := New()
	b.Register(testutil.NewEchoAgent("echo"))
	c := NewContext(b, "caller", func(o *ContextOptions) { o.MemoryStore = store })

	_, err = c.Send(context.Background(), "echo", "hi", WithTrace("trace-1"))
	require.NoError(t, err)

	entries, err := store.Recall("trace-1")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestContext_MemoryRecordFailure(t *testing.T) {
	store, err := memory.NewFileStore(t.TempDir())
	require.NoError(t, err)
	b := New()
	echo := testutil.NewEchoAgent("echo")
	b.Register(echo)
	c := NewContext(b, "caller", func(o *ContextOptions) { o.MemoryStore = store })

	_, err = c.Send(context.Background(), "echo", "hi", WithTrace("../bad"))
	assert.ErrorIs(t, err, memory.ErrInvalidTraceID)
	assert.Equal(t, 0, echo.Calls())
}

func TestContext_FindAgents(t *testing.T) {
	b := New()
	b.Register(testutil.NewEchoAgent("writer", "write"))
	b.Register(testutil.NewEchoAgent("copywriter", "write"))
	c := NewContext(b, "planner")

	id, ok := c.FindAgent("write")
	require.True(t, ok)
	assert.Equal(t, "writer", id)
	assert.Equal(t, []string{"writer", "copywriter"}, c.FindAgents("write"))

	_, ok = c.FindAgent("research")
	assert.False(t, ok)
	assert.Empty(t, c.FindAgents("research"))
}

func TestContext_PrivateTracker(t *testing.T) {
	b := New()
	c1 := NewContext(b, "a")
	c2 := NewContext(b, "b")
	assert.NotSame(t, c1.Conversations(), c2.Conversations())
	assert.Equal(t, "a", c1.SelfID())
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", FirstLine("one\ntwo"))
	assert.Equal(t, "single", FirstLine("single"))
	assert.Equal(t, "", FirstLine("\nx"))
}
