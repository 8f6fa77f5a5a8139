// Package dashboard serves the read-only trace API consumed by the trace
// viewer: the list of recorded traces and the raw message log of one trace.
package dashboard
