package model

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zheng/ratioflow/internal/graph"
)

// Model is the complete LP model: objective terms, bounds and constraints
type Model struct {
	Orientation Orientation     `json:"-"`
	Objective   []graph.EdgeKey `json:"objective"`
	Bounds      []Bound         `json:"bounds"`
	Constraints []Constraint    `json:"constraints"`
}

// Stats summarizes a model
type Stats struct {
	Orientation    string `json:"orientation"`
	ObjectiveTerms int    `json:"objective_terms"`
	Bounds         int    `json:"bounds"`
	Constraints    int    `json:"constraints"`
}

// Stats returns the artifact counts of m
func (m *Model) Stats() Stats {
	return Stats{
		Orientation:    m.Orientation.String(),
		ObjectiveTerms: len(m.Objective),
		Bounds:         len(m.Bounds),
		Constraints:    len(m.Constraints),
	}
}

// Build produces all three artifact streams. The streams are independent
// read-only passes over caps and ratios, so they run concurrently; the first
// failure cancels the others and is returned. Nothing partial is returned on
// error.
func Build(ctx context.Context, caps Capacities, ratios Ratios, opts Options) (*Model, error) {
	m := &Model{Orientation: opts.Orientation}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		terms, err := Traverse[graph.EdgeKey](gctx, caps, ratios, opts, ObjectiveVisitor{})
		if err != nil {
			return traversalError("objective", err)
		}
		m.Objective = terms
		return nil
	})
	g.Go(func() error {
		bounds, err := Traverse[Bound](gctx, caps, ratios, opts, BoundVisitor{})
		if err != nil {
			return traversalError("bounds", err)
		}
		m.Bounds = bounds
		return nil
	})
	g.Go(func() error {
		constraints, err := Traverse[Constraint](gctx, caps, ratios, opts, ConstraintVisitor{})
		if err != nil {
			return traversalError("constraints", err)
		}
		m.Constraints = constraints
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// References returns the reference edge of every row that has one
func References(ctx context.Context, caps Capacities, ratios Ratios, opts Options) ([]RowReference, error) {
	refs, err := Traverse[RowReference](ctx, caps, ratios, opts, ReferenceVisitor{})
	if err != nil {
		return nil, traversalError("references", err)
	}
	return refs, nil
}
