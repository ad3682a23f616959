// Package testutil contains helpers used across tests to reduce boilerplate
// when scripting model output, stubbing tools and recording what agents
// did. They are not intended for production usage.
package testutil
