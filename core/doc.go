// Package core provides the foundational domain types and interfaces used by
// agentloop. It defines the core abstractions for:
//
//   - Agents (units of work that turn a task string into an answer)
//   - Decisions, Steps and the append-only Transcript of a reasoning loop
//   - Plans and RoutingDecisions produced by planner and supervisor agents
//   - The immutable worker Directory consulted by supervisors
//   - The error taxonomy shared by every component
//   - Lifecycle Events and context-carried callbacks for observability
//
// The package keeps implementation concerns (model backends, concrete tools,
// concrete agents) out of scope, exposing small interfaces so they can be
// swapped or mocked independently.
package core
