package clusterone

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidParams = errors.New("invalid parameters")
	ErrEmptyGraph    = errors.New("graph has no nodes")
)

// RunError describes a failure inside a run.
type RunError struct {
	Op    string // phase that failed: "grow", "merge"
	Seq   int64  // seed sequence number, -1 when not tied to a seed
	Seed  []int
	Cause error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.Seq >= 0 {
		return fmt.Sprintf("%s seed #%d %v: %v", e.Op, e.Seq, e.Seed, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *RunError) Unwrap() error {
	return e.Cause
}
