package model

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/agentloop/core"
)

type rule struct {
	substring string
	response  string
}

// MockModel is a lightweight in-memory Model useful for tests and demos.
//
// Responses are resolved in this order: an exact prompt match registered
// with AddResponse, then the first substring rule registered with AddRule
// that the prompt contains, then the fallback. Every prompt is recorded.
type MockModel struct {
	info Info

	mu       sync.Mutex
	exact    map[string]string
	rules    []rule
	fallback *string
	prompts  []string
	failWith error
}

// NewMockModel constructs an empty MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:  Info{Name: name, Provider: provider},
		exact: make(map[string]string),
	}
}

// AddResponse registers a canned completion for an exact prompt.
func (m *MockModel) AddResponse(prompt, response string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.exact[prompt] = response
	return m
}

// AddRule registers a canned completion for prompts containing substring.
// Rules are checked in registration order, so register the most specific first.
func (m *MockModel) AddRule(substring, response string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rules = append(m.rules, rule{substring: substring, response: response})
	return m
}

// SetFallback sets the completion returned when nothing else matches.
func (m *MockModel) SetFallback(response string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fallback = &response
	return m
}

// FailWith makes every subsequent call fail with a transport error wrapping err.
func (m *MockModel) FailWith(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failWith = err
	return m
}

// Call implements Model.
func (m *MockModel) Call(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)

	if m.failWith != nil {
		return "", &core.TransportError{Provider: m.info.Provider, Err: m.failWith}
	}

	if resp, ok := m.exact[prompt]; ok {
		return resp, nil
	}

	for _, r := range m.rules {
		if strings.Contains(prompt, r.substring) {
			return r.response, nil
		}
	}

	if m.fallback != nil {
		return *m.fallback, nil
	}

	return "", &core.TransportError{
		Provider: m.info.Provider,
		Err:      fmt.Errorf("no scripted response for prompt %q", truncate(prompt, 80)),
	}
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

// Prompts returns every prompt received, in call order.
func (m *MockModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.prompts...)
}

// Calls returns the number of calls received.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.prompts)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// DemoWorker is the worker name the demo script routes to.
const DemoWorker = "executor"

// DemoTask is the task the demo script answers.
const DemoTask = "What is 4 * (3 + 5)?"

// Demo returns a MockModel scripted to solve DemoTask with the Calculator
// tool in every orchestration mode: it plans a single step, routes to
// DemoWorker and then computes 3 + 5 followed by 4 * 8.
func Demo() *MockModel {
	return NewMockModel("demo", "mock").
		AddRule("Observation: 32", `{"thought":"4 * 8 is 32, so the answer is 32.","action":{"tool":"Finish","args":"32"}}`).
		AddRule("Observation: 8", `{"thought":"3 + 5 is 8. Now multiply 4 by 8.","action":{"tool":"Calculator","args":"4 * 8"}}`).
		AddRule("You are a planner agent", "1. "+DemoTask).
		AddRule("You are a supervisor agent", `{"worker":"`+DemoWorker+`","task":"`+DemoTask+`"}`).
		AddRule("Task: "+DemoTask, `{"thought":"First compute the parenthesised sum 3 + 5.","action":{"tool":"Calculator","args":"3 + 5"}}`)
}
