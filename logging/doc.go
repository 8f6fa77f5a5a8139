// Package logging provides a minimal logging interface and adapters for agentbus.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the bus, contexts and agents use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZapAdapter wrapping go.uber.org/zap
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	b := bus.New(func(o *bus.Options) { o.Logger = logger })
//
// The observability lines emitted by the core ([DISPATCH], [SEND], [RECV],
// [WARN]) are carried as the log message so that log-scraping tools keep
// working regardless of the selected backend.
package logging
