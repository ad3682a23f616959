// Package logging provides a minimal logging interface and adapters for agentloop.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that agents, tools and the orchestrator use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - RunLogger with component/run scoping and tool, model and run helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	o := agentloop.NewOrchestrator(agentloop.Delegate(supervisor), func(o *agentloop.Options) {
//	    o.Logger = logger
//	})
//
// Arguments after the message are slog style key/value pairs.
package logging
