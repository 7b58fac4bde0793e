package model

import "github.com/zheng/ratioflow/internal/graph"

// Bound is the upper-bound assertion Edge <= Capacity
type Bound struct {
	Edge     graph.EdgeKey `json:"edge"`
	Capacity int           `json:"capacity"`
}

// Constraint is the proportionality assertion
// Ratio * Reference = ReferenceRatio * Edge,
// i.e. Reference / Edge = ReferenceRatio / Ratio.
type Constraint struct {
	Reference      graph.EdgeKey `json:"reference"`
	ReferenceRatio int           `json:"reference_ratio"`
	Edge           graph.EdgeKey `json:"edge"`
	Ratio          int           `json:"ratio"`
}

// RowReference records the reference edge chosen for one ratio row
type RowReference struct {
	Row   int           `json:"row"`
	Edge  graph.EdgeKey `json:"edge"`
	Ratio int           `json:"ratio"`
}

// ObjectiveVisitor yields every qualifying edge as an objective term
type ObjectiveVisitor struct{}

func (ObjectiveVisitor) Visit(s Step) (graph.EdgeKey, bool) {
	return s.Edge, true
}

// BoundVisitor yields the capacity bound of every qualifying edge
type BoundVisitor struct{}

func (BoundVisitor) Visit(s Step) (Bound, bool) {
	return Bound{Edge: s.Edge, Capacity: s.Capacity}, true
}

// ConstraintVisitor ties every non-reference edge to its row's reference edge
type ConstraintVisitor struct{}

func (ConstraintVisitor) Visit(s Step) (Constraint, bool) {
	if s.Edge == s.Reference {
		return Constraint{}, false
	}
	return Constraint{
		Reference:      s.Reference,
		ReferenceRatio: s.ReferenceRatio,
		Edge:           s.Edge,
		Ratio:          s.Ratio,
	}, true
}

// ReferenceVisitor yields each row's reference edge once
type ReferenceVisitor struct{}

func (ReferenceVisitor) Visit(s Step) (RowReference, bool) {
	if s.Edge != s.Reference {
		return RowReference{}, false
	}
	return RowReference{Row: s.Row, Edge: s.Edge, Ratio: s.Ratio}, true
}
