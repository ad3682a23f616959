package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/hupe1980/agentloop/core"
)

// printer renders run events as a colored transcript. Terminal errors are
// reported by main.
type printer struct {
	w io.Writer

	thought     *color.Color
	action      *color.Color
	observation *color.Color
	failure     *color.Color
	heading     *color.Color
	answer      *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:           w,
		thought:     color.New(color.FgCyan),
		action:      color.New(color.FgYellow),
		observation: color.New(color.FgGreen),
		failure:     color.New(color.FgRed),
		heading:     color.New(color.FgMagenta, color.Bold),
		answer:      color.New(color.FgGreen, color.Bold),
	}
}

func (p *printer) print(ev core.Event) {
	switch ev.Kind {
	case core.EventPlan:
		p.heading.Fprintf(p.w, "Plan (%s):\n", ev.Author)
		for i, step := range ev.Plan {
			fmt.Fprintf(p.w, "  %d. %s\n", i+1, step)
		}
	case core.EventRoute:
		p.heading.Fprintf(p.w, "%s → %s: ", ev.Author, ev.Routing.Worker)
		fmt.Fprintln(p.w, ev.Routing.Task)
	case core.EventStep:
		p.heading.Fprintf(p.w, "[%s] step %d\n", ev.Author, ev.Step.Index+1)
		p.thought.Fprint(p.w, "Thought: ")
		fmt.Fprintln(p.w, ev.Step.Thought)
		p.action.Fprint(p.w, "Action: ")
		fmt.Fprintln(p.w, ev.Step.Action.String())
		if ev.Step.Failed {
			p.failure.Fprint(p.w, "Observation: ")
		} else {
			p.observation.Fprint(p.w, "Observation: ")
		}
		fmt.Fprintln(p.w, ev.Step.Observation)
	case core.EventAnswer:
		p.answer.Fprint(p.w, "Answer: ")
		fmt.Fprintln(p.w, ev.Content)
	}
}
