// Package decoder turns raw model output into the structured values the
// agents act on: a Decision for reasoning loops, a RoutingDecision for
// supervisors and a Plan for planners.
//
// Decoding is strict. Surrounding whitespace and a single enclosing markdown
// code fence are removed; everything else must match the schema exactly or a
// *core.ParseError describing the failure is returned. No repair is
// attempted.
package decoder

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/agentloop/core"
)

const (
	schemaAction  = "action"
	schemaRouting = "routing"
	schemaPlan    = "plan"
)

var (
	fenceRe      = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*[ \t]*\r?\n?(.*?)\\s*```$")
	listMarkerRe = regexp.MustCompile(`^(?:\d+[.)]|[-*•])(?:\s+|$)`)
)

// StripFence trims surrounding whitespace and removes one enclosing markdown
// code fence (with or without a language tag) if present.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// DecodeAction parses {"thought": string, "action": {"tool": string, "args": string}}.
func DecodeAction(raw string) (core.Decision, error) {
	root, err := parseObject(schemaAction, raw)
	if err != nil {
		return core.Decision{}, err
	}

	thought, err := stringField(schemaAction, raw, root, "thought", false)
	if err != nil {
		return core.Decision{}, err
	}

	action := root.Get("action")
	if !action.Exists() {
		return core.Decision{}, parseErr(schemaAction, core.ParseMissingField, "action", raw)
	}
	if !action.IsObject() {
		return core.Decision{}, parseErr(schemaAction, core.ParseWrongType, "action", raw)
	}

	tool, err := stringField(schemaAction, raw, action, "tool", true)
	if err != nil {
		return core.Decision{}, err
	}

	args, err := stringField(schemaAction, raw, action, "args", false)
	if err != nil {
		return core.Decision{}, err
	}

	return core.Decision{
		Thought: thought,
		Action:  core.Action{Tool: tool, Args: args},
	}, nil
}

// DecodeRouting parses {"worker": string, "task": string}.
func DecodeRouting(raw string) (core.RoutingDecision, error) {
	root, err := parseObject(schemaRouting, raw)
	if err != nil {
		return core.RoutingDecision{}, err
	}

	worker, err := stringField(schemaRouting, raw, root, "worker", true)
	if err != nil {
		return core.RoutingDecision{}, err
	}

	task, err := stringField(schemaRouting, raw, root, "task", false)
	if err != nil {
		return core.RoutingDecision{}, err
	}

	return core.RoutingDecision{Worker: worker, Task: task}, nil
}

// DecodePlan splits free text into steps, one per non-blank line. Leading
// list markers such as "1.", "2)" or "-" are removed. Text without any step
// is an error.
func DecodePlan(raw string) (core.Plan, error) {
	body := StripFence(raw)

	var plan core.Plan
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		step := strings.TrimSpace(listMarkerRe.ReplaceAllString(line, ""))
		if step == "" {
			continue
		}

		plan = append(plan, step)
	}

	if len(plan) == 0 {
		return nil, parseErr(schemaPlan, core.ParseEmpty, "", raw)
	}

	return plan, nil
}

func parseObject(schema, raw string) (gjson.Result, error) {
	body := StripFence(raw)
	if body == "" {
		return gjson.Result{}, parseErr(schema, core.ParseEmpty, "", raw)
	}

	if !gjson.Valid(body) {
		return gjson.Result{}, parseErr(schema, core.ParseMalformed, "", raw)
	}

	root := gjson.Parse(body)
	if !root.IsObject() {
		return gjson.Result{}, parseErr(schema, core.ParseMalformed, "", raw)
	}

	return root, nil
}

// stringField reads a required string member of obj. When nonEmpty is set an
// empty string counts as missing.
func stringField(schema, raw string, obj gjson.Result, name string, nonEmpty bool) (string, error) {
	field := name
	if schema == schemaAction && name != "thought" && name != "action" {
		field = "action." + name
	}

	v := obj.Get(name)
	if !v.Exists() {
		return "", parseErr(schema, core.ParseMissingField, field, raw)
	}

	if v.Type != gjson.String {
		return "", parseErr(schema, core.ParseWrongType, field, raw)
	}

	if nonEmpty && strings.TrimSpace(v.Str) == "" {
		return "", parseErr(schema, core.ParseMissingField, field, raw)
	}

	return v.Str, nil
}

func parseErr(schema string, kind core.ParseErrorKind, field, raw string) error {
	return &core.ParseError{Schema: schema, Kind: kind, Field: field, Raw: raw}
}
