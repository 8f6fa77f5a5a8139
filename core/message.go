package core

import "time"

// Metadata carries provenance information attached to a message as it travels
// between agents. Hops lists every agent the message passed through (oldest
// first) and Depth counts them; once a message went through a bus.Context the
// invariant len(Hops) == Depth holds.
//
// Deadline is carried opaquely and never enforced by the core. Extra holds any
// additional caller-defined fields and is propagated by shallow copy.
type Metadata struct {
	Hops     []string       `json:"hops"`
	Depth    int            `json:"depth"`
	Deadline *time.Time     `json:"deadline,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Clone returns a copy of the metadata whose slices and maps can be mutated
// without affecting the original. A nil receiver yields nil.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	c := &Metadata{Depth: m.Depth, Deadline: m.Deadline}
	if m.Hops != nil {
		c.Hops = append([]string(nil), m.Hops...)
	}
	if m.Extra != nil {
		c.Extra = make(map[string]any, len(m.Extra))
		for k, v := range m.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// Message is a single request routed by the bus from one agent to another.
type Message struct {
	From           string    `json:"from"`
	To             string    `json:"to"`
	Content        string    `json:"content"`
	TraceID        string    `json:"traceId,omitempty"`
	ConversationID string    `json:"conversationId,omitempty"`
	ParentID       string    `json:"parentId,omitempty"`
	Metadata       *Metadata `json:"metadata,omitempty"`
}

// Hops returns the message's hop chain or nil when no metadata is attached.
func (m Message) Hops() []string {
	if m.Metadata == nil {
		return nil
	}
	return m.Metadata.Hops
}

// Response is produced by an agent in reply to exactly one Message.
type Response struct {
	From           string `json:"from"`
	To             string `json:"to"`
	Content        string `json:"content"`
	TraceID        string `json:"traceId,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

// ReplyTo builds a response addressed back to the sender of msg, carrying its
// trace and conversation identifiers.
func ReplyTo(msg Message, from, content string) Response {
	return Response{
		From:           from,
		To:             msg.From,
		Content:        content,
		TraceID:        msg.TraceID,
		ConversationID: msg.ConversationID,
	}
}
