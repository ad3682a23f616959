// Package runner executes agents asynchronously and streams their lifecycle.
//
// A Runner wraps any core.Agent, typically an agentloop.Orchestrator. Each
// Run gets a fresh run identifier and a cancellable context, and executes on
// its own goroutine. Callbacks fired by nested agents (steps, plans, routing
// decisions) are converted into core.Events and delivered on the run's event
// channel, followed by exactly one terminal event: an answer or an error.
//
// # Responsibilities
//   - Run identifiers and per-run cancellation (Cancel)
//   - Event streaming with a bounded buffer
//   - Backpressure through a cap on simultaneous runs
//   - A synchronous helper (RunSync) that drains the channels
package runner
