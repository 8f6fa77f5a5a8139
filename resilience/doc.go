// Package resilience provides the retry-once-then-fallback helper used by
// fan-out agents to degrade gracefully when a delegated send fails.
package resilience
