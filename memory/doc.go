// Package memory contains concrete MemoryStore implementations. The store
// interface and MemoryEntry type reside in the core package. Import
// github.com/hupe1980/agentbus/core and depend on core.MemoryStore in your
// code; select an implementation (in-process or per-trace JSON files) at
// wiring time.
package memory
