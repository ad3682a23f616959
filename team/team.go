// Package team loads worker team definitions from YAML and builds them into
// a worker directory of reasoning agents.
//
// A team file looks like:
//
//	supervisor:
//	  name: supervisor
//	  description: Routes tasks to the right specialist.
//	workers:
//	  - name: mathematician
//	    description: Solves arithmetic with the Calculator tool.
//	    instruction: You are a precise mathematician.
//	    tools: [Calculator]
//	    max_iterations: 10
//	  - name: researcher
//	    description: Reads web pages.
//	    tools: [WebScraper]
//	    tool_errors: observe
//	pipelines:
//	  - name: report
//	    description: Researches a topic, then writes a report file.
//	    stages: [researcher, writer]
package team

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is the root of a team file.
type Definition struct {
	Supervisor *SupervisorDef `yaml:"supervisor,omitempty"`
	Workers    []WorkerDef    `yaml:"workers"`
	Pipelines  []PipelineDef  `yaml:"pipelines,omitempty"`
}

// SupervisorDef customizes the supervisor that routes to the team.
type SupervisorDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// WorkerDef describes one reasoning worker.
type WorkerDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Instruction opens the worker's prompt and may use {{.task}} and {{.agent}}.
	Instruction string `yaml:"instruction,omitempty"`
	// Tools names entries of the tool catalog. Empty means no tools.
	Tools []string `yaml:"tools,omitempty"`
	// MaxIterations overrides the team default when non-nil. Zero disables the ceiling.
	MaxIterations *int `yaml:"max_iterations,omitempty"`
	// ToolErrors overrides the team default: abort or observe.
	ToolErrors string `yaml:"tool_errors,omitempty"`
}

// PipelineDef chains workers so each stage receives the previous result.
type PipelineDef struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Stages      []string `yaml:"stages"`
}

// Load reads and validates a team file.
func Load(path string) (*Definition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	def, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return def, nil
}

// Parse decodes and validates a team definition. Unknown fields are rejected.
func Parse(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("team definition is empty")
		}
		return nil, err
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// Validate checks names, references and limits.
func (d *Definition) Validate() error {
	var errs []error

	if len(d.Workers) == 0 {
		errs = append(errs, errors.New("workers: at least one worker is required"))
	}

	names := map[string]struct{}{}
	claim := func(path, name string) {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("%s.name: is required", path))
			return
		}
		if _, exists := names[name]; exists {
			errs = append(errs, fmt.Errorf("%s.name: duplicate name %q", path, name))
		}
		names[name] = struct{}{}
	}

	for i, w := range d.Workers {
		path := fmt.Sprintf("workers[%d]", i)
		claim(path, w.Name)

		if w.MaxIterations != nil && *w.MaxIterations < 0 {
			errs = append(errs, fmt.Errorf("%s.max_iterations: must be >= 0", path))
		}

		switch strings.ToLower(w.ToolErrors) {
		case "", "abort", "observe":
		default:
			errs = append(errs, fmt.Errorf("%s.tool_errors: unsupported value %q", path, w.ToolErrors))
		}
	}

	workers := map[string]struct{}{}
	for _, w := range d.Workers {
		workers[w.Name] = struct{}{}
	}

	for i, p := range d.Pipelines {
		path := fmt.Sprintf("pipelines[%d]", i)
		claim(path, p.Name)

		if len(p.Stages) == 0 {
			errs = append(errs, fmt.Errorf("%s.stages: at least one stage is required", path))
		}

		for j, stage := range p.Stages {
			if _, ok := workers[stage]; !ok {
				errs = append(errs, fmt.Errorf("%s.stages[%d]: unknown worker %q", path, j, stage))
			}
		}
	}

	if d.Supervisor != nil && d.Supervisor.Name != "" {
		if _, exists := names[d.Supervisor.Name]; exists {
			errs = append(errs, fmt.Errorf("supervisor.name: %q collides with a worker or pipeline", d.Supervisor.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid team definition: %w", errors.Join(errs...))
	}

	return nil
}
