package core

// Direction tells whether a memory entry records an outgoing or an incoming
// message from the point of view of the recording agent.
type Direction string

const (
	// DirectionSent marks an entry recorded before a message left the agent.
	DirectionSent Direction = "sent"
	// DirectionReceived marks an entry recorded after a response arrived.
	DirectionReceived Direction = "received"
)

// MemoryEntry is a single append-only record in a per-trace memory log.
// Timestamp is expressed in Unix milliseconds.
type MemoryEntry struct {
	Direction      Direction `json:"direction"`
	Peer           string    `json:"peer"`
	Content        string    `json:"content"`
	ConversationID string    `json:"conversationId,omitempty"`
	Timestamp      int64     `json:"timestamp"`
}

// MemoryStore defines append-only persistence of memory entries keyed by
// trace id. Recall returns entries in recording order and an empty slice
// (not an error) for unknown traces.
type MemoryStore interface {
	Record(traceID string, entry MemoryEntry) error
	Recall(traceID string) ([]MemoryEntry, error)
}
