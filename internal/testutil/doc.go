// Package testutil contains helper agents, sinks and loggers used across
// tests to reduce boilerplate when wiring a bus and asserting what flowed
// through it. These helpers are intentionally minimal and are not intended
// for production usage.
package testutil
