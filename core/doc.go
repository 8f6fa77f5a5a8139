// Package core provides the foundational domain types and interfaces shared by
// every agentbus component. It defines:
//
//   - Agents (named units exposing capabilities and a message handler)
//   - Messages and responses (including hop/depth provenance metadata)
//   - Memory entries and the MemoryStore collaborator contract
//   - Trace log entries and the LogSink collaborator contract
//
// The package intentionally keeps routing, loop prevention and conversation
// aggregation out of scope; those live in the bus and tracker packages. Keeping
// the contracts here lets store and sink backends be swapped without
// introducing dependency cycles.
package core
