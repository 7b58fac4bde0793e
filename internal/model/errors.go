package model

import (
	"errors"
	"fmt"

	"github.com/zheng/ratioflow/internal/graph"
)

var (
	// ErrMissingEdge is wrapped by every MissingEdgeError.
	ErrMissingEdge = errors.New("model: missing edge")
	// ErrSelfLoop is wrapped by every SelfLoopError.
	ErrSelfLoop = errors.New("model: self-loop ratio")
)

// MissingEdgeError is returned when the ratio matrix gives a positive ratio
// to an edge that the capacity graph does not define.
type MissingEdgeError struct {
	Edge graph.EdgeKey
}

func (e *MissingEdgeError) Error() string {
	return fmt.Sprintf("missing edge %s (%d -> %d) from the capacity graph", e.Edge, e.Edge.From, e.Edge.To)
}

func (e *MissingEdgeError) Unwrap() error { return ErrMissingEdge }

// SelfLoopError is returned when a diagonal ratio entry is positive and
// self-loops are not allowed.
type SelfLoopError struct {
	Edge  graph.EdgeKey
	Ratio int
}

func (e *SelfLoopError) Error() string {
	return fmt.Sprintf("positive ratio %d on diagonal entry %s (node %d)", e.Ratio, e.Edge, e.Edge.From)
}

func (e *SelfLoopError) Unwrap() error { return ErrSelfLoop }
