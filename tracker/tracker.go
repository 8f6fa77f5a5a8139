package tracker

import (
	"sync"

	"github.com/hupe1980/agentbus/core"
)

// OnComplete is invoked once per conversation with all responses in arrival
// order. A returned error is passed through to the caller of Receive.
type OnComplete func(responses []core.Response) error

type conversation struct {
	waitingFor map[string]struct{}
	responses  []core.Response
	onComplete OnComplete
}

// Tracker aggregates responses for independent conversations. It is safe for
// concurrent use; completion callbacks run outside the internal lock so they
// may call back into the tracker.
type Tracker struct {
	mu            sync.Mutex
	conversations map[string]*conversation
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{conversations: make(map[string]*conversation)}
}

// Start opens a conversation waiting for one response from each id in
// waitFor (duplicates collapse). An existing conversation with the same id is
// silently replaced.
func (t *Tracker) Start(conversationID string, waitFor []string, onComplete OnComplete) {
	waiting := make(map[string]struct{}, len(waitFor))
	for _, id := range waitFor {
		waiting[id] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.conversations[conversationID] = &conversation{
		waitingFor: waiting,
		responses:  []core.Response{},
		onComplete: onComplete,
	}
}

// Receive records a response for the conversation. Unknown (or already
// closed) conversations are ignored. Every response is appended, including
// duplicates and unexpected senders; only resp.From is removed from the
// outstanding set. When nothing is outstanding the conversation is closed and
// its callback invoked synchronously; its error is returned unchanged.
func (t *Tracker) Receive(conversationID string, resp core.Response) error {
	t.mu.Lock()
	conv, ok := t.conversations[conversationID]
	if !ok {
		t.mu.Unlock()
		return nil
	}

	conv.responses = append(conv.responses, resp)
	delete(conv.waitingFor, resp.From)

	if len(conv.waitingFor) > 0 {
		t.mu.Unlock()
		return nil
	}

	delete(t.conversations, conversationID)
	t.mu.Unlock()

	if conv.onComplete == nil {
		return nil
	}
	return conv.onComplete(conv.responses)
}

// Pending returns the respondents still outstanding for an open conversation.
func (t *Tracker) Pending(conversationID string) ([]string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	conv, ok := t.conversations[conversationID]
	if !ok {
		return nil, false
	}
	ids := make([]string, 0, len(conv.waitingFor))
	for id := range conv.waitingFor {
		ids = append(ids, id)
	}
	return ids, true
}

// Active returns the number of open conversations.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conversations)
}

// Cancel closes an open conversation without invoking its callback. It
// reports whether a conversation was open.
func (t *Tracker) Cancel(conversationID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.conversations[conversationID]
	delete(t.conversations, conversationID)
	return ok
}
