package core

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// FinishTool is the reserved tool identifier that ends a reasoning loop.
// The action's Args carry the final answer verbatim.
const FinishTool = "Finish"

// Action is a structured request to invoke one named tool with an opaque
// argument string.
type Action struct {
	Tool string `json:"tool"`
	Args string `json:"args"`
}

// IsFinish reports whether the action terminates the run.
func (a Action) IsFinish() bool { return a.Tool == FinishTool }

// String renders the action as compact JSON, the form used in transcripts.
// HTML characters stay literal so shell arguments read back unchanged.
func (a Action) String() string {
	var sb strings.Builder

	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(a); err != nil {
		return a.Tool + " " + a.Args
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// Decision is one decoded model response of a reasoning loop.
type Decision struct {
	Thought string `json:"thought"`
	Action  Action `json:"action"`
}

// Step is one completed (Thought, Action, Observation) iteration.
type Step struct {
	ID          string    `json:"id"`
	Index       int       `json:"index"`
	Thought     string    `json:"thought"`
	Action      Action    `json:"action"`
	Observation string    `json:"observation"`
	Failed      bool      `json:"failed,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// String renders the step in the layout resent to the model.
func (s Step) String() string {
	return "Thought: " + s.Thought + "\nAction: " + s.Action.String() + "\nObservation: " + s.Observation
}

// Transcript is the append-only record of one run's steps.
//
// Entries are never reordered, removed or modified after Append. Steps returns
// a copy so callers cannot mutate the record. A Transcript is scoped to a
// single run and must not be shared across runs.
type Transcript struct {
	mu    sync.RWMutex
	steps []Step
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append records a completed iteration. ID, Index and Timestamp are assigned
// here. The stored step is returned.
func (t *Transcript) Append(thought string, action Action, observation string, failed bool) Step {
	t.mu.Lock()
	defer t.mu.Unlock()

	step := Step{
		ID:          NewID(),
		Index:       len(t.steps),
		Thought:     thought,
		Action:      action,
		Observation: observation,
		Failed:      failed,
		Timestamp:   time.Now().UTC(),
	}
	t.steps = append(t.steps, step)

	return step
}

// Len returns the number of recorded steps.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.steps)
}

// Steps returns a copy of the recorded steps in order.
func (t *Transcript) Steps() []Step {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Step, len(t.steps))
	copy(out, t.steps)

	return out
}

// Render joins all steps in order, one block per step.
func (t *Transcript) Render() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var sb strings.Builder
	for i, s := range t.steps {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(s.String())
	}

	return sb.String()
}

// Plan is an ordered list of sub-task strings.
type Plan []string

// RoutingDecision selects a worker and the sub-task delegated to it.
type RoutingDecision struct {
	Worker string `json:"worker"`
	Task   string `json:"task"`
}
