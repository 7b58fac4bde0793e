package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is wrapped by every MalformedInputError.
	ErrMalformedInput = errors.New("graph: malformed input")
	// ErrAmbiguousCapacity is wrapped by every AmbiguousCapacityError.
	ErrAmbiguousCapacity = errors.New("graph: ambiguous capacity")
)

// MalformedInputError reports a header or data line that cannot be parsed.
// Line is 1-based; zero means the problem is not tied to a single line.
type MalformedInputError struct {
	Source string
	Line   int
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed %s at line %d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed %s: %s", e.Source, e.Reason)
}

func (e *MalformedInputError) Unwrap() error { return ErrMalformedInput }

// AmbiguousCapacityError reports an edge listed twice with different capacities.
type AmbiguousCapacityError struct {
	Edge        EdgeKey
	Line        int
	Existing    int
	Conflicting int
}

func (e *AmbiguousCapacityError) Error() string {
	return fmt.Sprintf("ambiguous capacity value for edge %d %d at line %d: %d was already given, got %d",
		e.Edge.From, e.Edge.To, e.Line, e.Existing, e.Conflicting)
}

func (e *AmbiguousCapacityError) Unwrap() error { return ErrAmbiguousCapacity }
