// Package bus routes messages between registered agents.
//
// Bus is the dispatcher: it owns the agent registry, resolves recipients by
// identifier and capability, and guarantees that every response carries the
// trace id of the request that produced it.
//
// Context wraps a Bus for a single sending identity. Every outgoing Send goes
// through a hop/depth loop guard and is recorded in the context's memory store
// and trace log. A context also owns a private conversation tracker for
// fan-out/fan-in coordination.
//
// Observability lines are a compatibility contract for log scrapers:
//
//	[DISPATCH] [<traceId>] <from> → <to>
//	[SEND] [<traceId>] <from> → <to> :: <content>
//	[RECV] [<traceId>] <from> → <to> :: <first line of content>
package bus
