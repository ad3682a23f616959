package core

import (
	"time"

	"github.com/google/uuid"
)

// EventKind categorizes lifecycle events streamed by the runner.
type EventKind string

const (
	// EventStep carries one completed reasoning iteration.
	EventStep EventKind = "step"
	// EventPlan carries the plan produced by a planner.
	EventPlan EventKind = "plan"
	// EventRoute carries a supervisor's routing decision.
	EventRoute EventKind = "route"
	// EventAnswer carries the final answer of a run.
	EventAnswer EventKind = "answer"
	// EventError carries the terminal error of a run.
	EventError EventKind = "error"
)

// Event is an immutable record of something observable that happened during
// a run. Exactly one of the payload fields is set, matching Kind:
//   - EventStep: Step
//   - EventPlan: Plan
//   - EventRoute: Routing
//   - EventAnswer: Content
//   - EventError: Error
type Event struct {
	ID        string           `json:"id"`
	RunID     string           `json:"run_id"`
	Author    string           `json:"author"`
	Kind      EventKind        `json:"kind"`
	Step      *Step            `json:"step,omitempty"`
	Plan      Plan             `json:"plan,omitempty"`
	Routing   *RoutingDecision `json:"routing,omitempty"`
	Content   string           `json:"content,omitempty"`
	Error     string           `json:"error,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewEvent creates a bare event authored by 'author' bound to a run.
// Prefer the helper constructors for the common kinds.
func NewEvent(runID, author string, kind EventKind) Event {
	return Event{
		ID:        NewID(),
		RunID:     runID,
		Author:    author,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
}

// NewStepEvent wraps a completed iteration.
func NewStepEvent(runID, author string, step Step) Event {
	e := NewEvent(runID, author, EventStep)
	e.Step = &step
	return e
}

// NewPlanEvent wraps a plan.
func NewPlanEvent(runID, author string, plan Plan) Event {
	e := NewEvent(runID, author, EventPlan)
	e.Plan = append(Plan(nil), plan...)
	return e
}

// NewRouteEvent wraps a routing decision.
func NewRouteEvent(runID, author string, decision RoutingDecision) Event {
	e := NewEvent(runID, author, EventRoute)
	e.Routing = &decision
	return e
}

// NewAnswerEvent carries a final answer.
func NewAnswerEvent(runID, author, answer string) Event {
	e := NewEvent(runID, author, EventAnswer)
	e.Content = answer
	return e
}

// NewErrorEvent carries a terminal error.
func NewErrorEvent(runID, author string, err error) Event {
	e := NewEvent(runID, author, EventError)
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// NewID generates a new unique identifier for runs, steps and events.
func NewID() string { return uuid.NewString() }

// IsFinal reports whether the event terminates a run's stream.
func (e Event) IsFinal() bool { return e.Kind == EventAnswer || e.Kind == EventError }
