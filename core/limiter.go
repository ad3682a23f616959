package core

import (
	"sync"
)

// IterationLimiter enforces a maximum number of reasoning iterations per run.
type IterationLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewIterationLimiter creates a new limiter with a max number of iterations.
// If max == 0, unlimited iterations are allowed.
func NewIterationLimiter(max int) *IterationLimiter {
	return &IterationLimiter{max: max}
}

// Increment claims the next iteration and returns a MaxIterationsError if the
// limit is already used up.
func (il *IterationLimiter) Increment() error {
	il.mu.Lock()
	defer il.mu.Unlock()

	if il.max > 0 && il.count >= il.max {
		return &MaxIterationsError{Limit: il.max}
	}
	il.count++

	return nil
}

// Count returns the number of iterations claimed so far.
func (il *IterationLimiter) Count() int {
	il.mu.Lock()
	defer il.mu.Unlock()

	return il.count
}

// Remaining returns how many iterations are left before hitting the limit.
func (il *IterationLimiter) Remaining() int {
	il.mu.Lock()
	defer il.mu.Unlock()

	if il.max == 0 {
		return -1 // unlimited
	}

	return il.max - il.count
}
