// Package tracelog implements the trace-keyed message log: sinks that append
// one line per send/receive to <dir>/<traceID>.log, and readers that list and
// return those logs for the dashboard.
//
// Line format (content newlines flattened to spaces):
//
//	[2025-01-02T03:04:05.678Z] SEND planner → researcher :: Research this goal: ...
package tracelog
