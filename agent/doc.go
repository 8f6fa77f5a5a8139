// Package agent contains the playground roster: deterministic agents that
// exercise routing, capability discovery, fan-out aggregation and the loop
// guard of the bus.
//
// The package focuses on three concerns:
//
//  1. Identity plumbing shared by every agent (BaseAgent)
//  2. Leaf agents with fixed replies (writer, analyst, designer, ...)
//  3. Coordinating agents that fan out through a bus.Context and collect
//     replies with a tracker (planner, researcher, orchestrator)
//
// Execution Model:
//   - Every agent is addressed through the bus by its ID
//   - Coordinating agents send only through their own bus.Context so hop,
//     depth, memory and trace logging apply to every leg
//   - Fan-out legs run on an optional ants pool; when the pool is saturated
//     a leg falls back to a plain goroutine so nested fan-out never deadlocks
//
// RegisterDefaults wires the complete roster onto a bus.
package agent
