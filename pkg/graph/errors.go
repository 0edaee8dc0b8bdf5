package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidWeight  = errors.New("invalid edge weight")
	ErrNodeOutOfRange = errors.New("node index out of range")
	ErrUnknownPolicy  = errors.New("unknown duplicate edge policy")
	ErrMalformedLine  = errors.New("malformed edge line")
	ErrUnsupportedURI = errors.New("unsupported graph source")
	ErrInvalidTable   = errors.New("invalid table name")
)

// ParseError reports a problem in a specific line of an edge list.
type ParseError struct {
	Source string // file name or URI
	Line   int
	Cause  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Cause)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
