// Package model defines the provider-agnostic abstraction for language model
// backends used by agents.
//
// Core goals:
//   - One blocking call contract: prompt in, response text out
//   - Transport and authentication failures surface as *core.TransportError
//   - Instrumentation (logging, tracing) as a wrapper, not per provider
//   - Lightweight scripted mocking for tests and demos (MockModel)
//
// Providers (openai, anthropic) implement Model so agents stay decoupled
// from vendor SDKs.
package model
