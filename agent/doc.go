// Package agent contains the agent implementations that drive a model
// backend. The package focuses on four concerns:
//
//  1. Think-Act-Observe reasoning over a tool registry (ReActAgent)
//  2. Single-shot routing to a named worker (Supervisor)
//  3. Single-shot task decomposition (Planner)
//  4. Composition of agents into a pipeline (SequentialAgent)
//
// Design principles:
//   - No hidden global state: models, registries and directories are passed
//     to constructors and never mutated afterwards
//   - Strict sequencing: every model call and tool call is awaited before the
//     next one starts
//   - Observability: structured logging per agent plus lifecycle callbacks
//     carried on the context (see core.WithCallbacks)
//   - Extensibility: embed BaseAgent; only implement Run
//
// All agents implement core.Agent, so any of them can serve as a worker
// behind a Supervisor or as the executor of a plan.
package agent
