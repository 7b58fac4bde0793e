package model

import (
	"context"
	"fmt"

	"github.com/zheng/ratioflow/internal/graph"
)

// Orientation selects which columns of each ratio row are considered
type Orientation int

const (
	// Forward visits columns i+1..n of row i: edges leaving node i towards
	// higher-numbered nodes.
	Forward Orientation = iota
	// Reverse visits columns 1..i of row i: edges into node i from
	// lower-or-equal-numbered nodes, diagonal included.
	Reverse
)

func (o Orientation) String() string {
	if o == Reverse {
		return "reverse"
	}
	return "forward"
}

// OrientationFor maps the reverse flag to an Orientation
func OrientationFor(reverse bool) Orientation {
	if reverse {
		return Reverse
	}
	return Forward
}

// columns returns the inclusive 1-based column range of row i, clamped to
// the entries the row actually has. lo > hi means nothing to visit.
func (o Orientation) columns(i, rowLen int) (lo, hi int) {
	if o == Reverse {
		return 1, min(i, rowLen)
	}
	return i + 1, rowLen
}

// Capacities is the read-only view of the capacity graph used by the traversal
type Capacities interface {
	Lookup(edge graph.EdgeKey) (int, bool)
}

// Ratios is the read-only view of the ratio matrix used by the traversal
type Ratios interface {
	Len() int
	Row(i int) []int
}

// Options controls a traversal
type Options struct {
	Orientation Orientation
	// AllowSelfLoops lets a positive diagonal entry through as edge (i,i)
	// instead of failing with *SelfLoopError.
	AllowSelfLoops bool
}

// Step is what a visitor sees for each qualifying matrix entry
type Step struct {
	Row            int
	Edge           graph.EdgeKey
	Capacity       int
	Ratio          int
	Reference      graph.EdgeKey
	ReferenceRatio int
}

// Visitor projects a Step onto an artifact. ok=false means the step
// produces nothing.
type Visitor[T any] interface {
	Visit(step Step) (artifact T, ok bool)
}

// rowState carries the reference edge of the row being folded
type rowState struct {
	set       bool
	reference graph.EdgeKey
	ratio     int
}

func (s rowState) observe(edge graph.EdgeKey, ratio int) rowState {
	if s.set {
		return s
	}
	return rowState{set: true, reference: edge, ratio: ratio}
}

// Traverse walks the ratio matrix row by row and collects what v yields.
// Rows are visited in increasing order, columns in increasing order within
// the range the orientation selects. The reference edge of a row is the
// first visited edge with a positive ratio. A positive ratio on an edge the
// capacity graph lacks aborts the whole walk with *MissingEdgeError.
func Traverse[T any](ctx context.Context, caps Capacities, ratios Ratios, opts Options, v Visitor[T]) ([]T, error) {
	var out []T
	for i := 1; i <= ratios.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		out, err = traverseRow(caps, i, ratios.Row(i), opts, v, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func traverseRow[T any](caps Capacities, i int, row []int, opts Options, v Visitor[T], out []T) ([]T, error) {
	var state rowState
	lo, hi := opts.Orientation.columns(i, len(row))
	for j := lo; j <= hi; j++ {
		ratio := row[j-1]
		if ratio <= 0 {
			continue
		}

		edge := graph.EdgeKey{From: i, To: j}
		if edge.IsSelfLoop() && !opts.AllowSelfLoops {
			return nil, &SelfLoopError{Edge: edge, Ratio: ratio}
		}
		capacity, ok := caps.Lookup(edge)
		if !ok {
			return nil, &MissingEdgeError{Edge: edge}
		}

		state = state.observe(edge, ratio)
		if artifact, ok := v.Visit(Step{
			Row:            i,
			Edge:           edge,
			Capacity:       capacity,
			Ratio:          ratio,
			Reference:      state.reference,
			ReferenceRatio: state.ratio,
		}); ok {
			out = append(out, artifact)
		}
	}
	return out, nil
}

// traversalError tags an error with the artifact stream that produced it
func traversalError(stream string, err error) error {
	return fmt.Errorf("building %s: %w", stream, err)
}
