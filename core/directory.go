package core

import "fmt"

// Directory is an immutable mapping from worker name to agent.
//
// It is built once before any run and only read afterwards, so lookups need
// no synchronization. Descriptors preserve registration order, which is the
// order workers are advertised to the model.
type Directory struct {
	workers map[string]Agent
	order   []string
}

// NewDirectory builds a directory from the given workers. Empty or duplicate
// names are rejected.
func NewDirectory(workers ...Agent) (*Directory, error) {
	d := &Directory{
		workers: make(map[string]Agent, len(workers)),
		order:   make([]string, 0, len(workers)),
	}

	for _, w := range workers {
		if w == nil {
			return nil, fmt.Errorf("worker directory: nil worker")
		}

		name := w.Name()
		if name == "" {
			return nil, fmt.Errorf("worker directory: worker with empty name")
		}

		if _, exists := d.workers[name]; exists {
			return nil, fmt.Errorf("worker directory: %w: %s", ErrDuplicateName, name)
		}

		d.workers[name] = w
		d.order = append(d.order, name)
	}

	return d, nil
}

// Lookup resolves a worker by name.
func (d *Directory) Lookup(name string) (Agent, bool) {
	w, ok := d.workers[name]
	return w, ok
}

// Descriptors returns the advertised workers in registration order.
func (d *Directory) Descriptors() []AgentDescriptor {
	out := make([]AgentDescriptor, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, Describe(d.workers[name]))
	}

	return out
}

// Names returns worker names in registration order.
func (d *Directory) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)

	return out
}

// Len returns the number of workers.
func (d *Directory) Len() int { return len(d.order) }
