package model_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/zheng/ratioflow/internal/graph"
	"github.com/zheng/ratioflow/internal/model"
)

func e(from, to int) graph.EdgeKey {
	return graph.EdgeKey{From: from, To: to}
}

func mustGraph(t *testing.T, text string) *graph.CapacityGraph {
	t.Helper()
	g, err := graph.ParseCapacityGraph(strings.NewReader(text))
	require.NoError(t, err)
	return g
}

func mustMatrix(t *testing.T, text string) *graph.RatioMatrix {
	t.Helper()
	m, err := graph.ParseRatioMatrix(strings.NewReader(text))
	require.NoError(t, err)
	return m
}

// TraversalSuite exercises the ratio matrix walk and the model builder.
type TraversalSuite struct {
	suite.Suite
	caps   *graph.CapacityGraph
	ratios *graph.RatioMatrix
}

func (s *TraversalSuite) SetupTest() {
	s.caps = mustGraph(s.T(), "3\n1 2 5\n1 3 6\n2 3 7\n")
	s.ratios = mustMatrix(s.T(), "3\n0 2 3\n0 0 5\n0 0 0\n")
}

// TestForwardScenario checks the three streams of the three-node example.
func (s *TraversalSuite) TestForwardScenario() {
	m, err := model.Build(context.Background(), s.caps, s.ratios, model.Options{})
	require.NoError(s.T(), err)

	require.Equal(s.T(), []graph.EdgeKey{e(1, 2), e(1, 3), e(2, 3)}, m.Objective)
	require.Equal(s.T(), []model.Bound{
		{Edge: e(1, 2), Capacity: 5},
		{Edge: e(1, 3), Capacity: 6},
		{Edge: e(2, 3), Capacity: 7},
	}, m.Bounds)
	require.Equal(s.T(), []model.Constraint{
		{Reference: e(1, 2), ReferenceRatio: 2, Edge: e(1, 3), Ratio: 3},
	}, m.Constraints)
	require.Equal(s.T(), model.Stats{Orientation: "forward", ObjectiveTerms: 3, Bounds: 3, Constraints: 1}, m.Stats())
}

// TestReverseScenario checks that reverse mode reads the lower triangle.
func (s *TraversalSuite) TestReverseScenario() {
	caps := mustGraph(s.T(), "3\n2 1 4\n3 1 8\n3 2 9\n")
	ratios := mustMatrix(s.T(), "3\n0 0 0\n4 0 0\n1 2 0\n")

	m, err := model.Build(context.Background(), caps, ratios, model.Options{Orientation: model.Reverse})
	require.NoError(s.T(), err)
	require.Equal(s.T(), []graph.EdgeKey{e(2, 1), e(3, 1), e(3, 2)}, m.Objective)
	require.Equal(s.T(), []model.Constraint{
		{Reference: e(3, 1), ReferenceRatio: 1, Edge: e(3, 2), Ratio: 2},
	}, m.Constraints)
	require.Equal(s.T(), "reverse", m.Stats().Orientation)
}

// TestReferenceIsPositional verifies the first positive entry wins, not the largest.
func (s *TraversalSuite) TestReferenceIsPositional() {
	caps := mustGraph(s.T(), "4\n1 2 1\n1 3 1\n1 4 1\n")
	ratios := mustMatrix(s.T(), "4\n0 1 9 5\n0 0 0 0\n0 0 0 0\n0 0 0 0\n")

	m, err := model.Build(context.Background(), caps, ratios, model.Options{})
	require.NoError(s.T(), err)
	require.Equal(s.T(), []model.Constraint{
		{Reference: e(1, 2), ReferenceRatio: 1, Edge: e(1, 3), Ratio: 9},
		{Reference: e(1, 2), ReferenceRatio: 1, Edge: e(1, 4), Ratio: 5},
	}, m.Constraints)
	for _, c := range m.Constraints {
		require.NotEqual(s.T(), c.Reference, c.Edge)
	}
}

// TestReferenceResetsPerRow makes sure one row's reference never leaks into the next.
func (s *TraversalSuite) TestReferenceResetsPerRow() {
	refs, err := model.References(context.Background(), s.caps, s.ratios, model.Options{})
	require.NoError(s.T(), err)
	require.Equal(s.T(), []model.RowReference{
		{Row: 1, Edge: e(1, 2), Ratio: 2},
		{Row: 2, Edge: e(2, 3), Ratio: 5},
	}, refs)
}

// TestSinglePositiveRowHasNoConstraint covers rows whose only edge is the reference.
func (s *TraversalSuite) TestSinglePositiveRowHasNoConstraint() {
	ratios := mustMatrix(s.T(), "3\n0 0 3\n0 0 5\n0 0 0\n")
	m, err := model.Build(context.Background(), s.caps, ratios, model.Options{})
	require.NoError(s.T(), err)
	require.Empty(s.T(), m.Constraints)
	require.Len(s.T(), m.Objective, 2)
}

// TestMissingEdge verifies a positive ratio on an undefined edge is fatal.
func (s *TraversalSuite) TestMissingEdge() {
	caps := mustGraph(s.T(), "3\n1 2 5\n2 3 7\n")

	m, err := model.Build(context.Background(), caps, s.ratios, model.Options{})
	require.Error(s.T(), err)
	require.Nil(s.T(), m)
	require.True(s.T(), errors.Is(err, model.ErrMissingEdge))

	var missing *model.MissingEdgeError
	require.ErrorAs(s.T(), err, &missing)
	require.Equal(s.T(), e(1, 3), missing.Edge)
	require.Contains(s.T(), err.Error(), "x13")
}

// TestZeroRatioNeedsNoEdge verifies edges with zero or negative ratio are never looked up.
func (s *TraversalSuite) TestZeroRatioNeedsNoEdge() {
	caps := mustGraph(s.T(), "3\n1 2 5\n")
	ratios := mustMatrix(s.T(), "3\n0 2 0\n0 0 -4\n0 0 0\n")

	m, err := model.Build(context.Background(), caps, ratios, model.Options{})
	require.NoError(s.T(), err)
	require.Equal(s.T(), []graph.EdgeKey{e(1, 2)}, m.Objective)
}

// TestSelfLoopRejectedByDefault covers a positive diagonal entry in reverse mode.
func (s *TraversalSuite) TestSelfLoopRejectedByDefault() {
	caps := mustGraph(s.T(), "2\n1 1 3\n2 1 4\n")
	ratios := mustMatrix(s.T(), "2\n7 0\n4 0\n")

	_, err := model.Build(context.Background(), caps, ratios, model.Options{Orientation: model.Reverse})
	require.Error(s.T(), err)
	require.True(s.T(), errors.Is(err, model.ErrSelfLoop))

	var loop *model.SelfLoopError
	require.ErrorAs(s.T(), err, &loop)
	require.Equal(s.T(), e(1, 1), loop.Edge)
	require.Equal(s.T(), 7, loop.Ratio)
}

// TestSelfLoopAllowed keeps the permissive behavior when asked to.
func (s *TraversalSuite) TestSelfLoopAllowed() {
	caps := mustGraph(s.T(), "2\n1 1 3\n2 1 4\n")
	ratios := mustMatrix(s.T(), "2\n7 0\n4 0\n")

	m, err := model.Build(context.Background(), caps, ratios, model.Options{
		Orientation:    model.Reverse,
		AllowSelfLoops: true,
	})
	require.NoError(s.T(), err)
	require.Equal(s.T(), []graph.EdgeKey{e(1, 1), e(2, 1)}, m.Objective)
	require.Empty(s.T(), m.Constraints)
}

// TestForwardIgnoresDiagonal verifies the forward range starts right of the diagonal.
func (s *TraversalSuite) TestForwardIgnoresDiagonal() {
	caps := mustGraph(s.T(), "2\n1 2 3\n")
	ratios := mustMatrix(s.T(), "2\n5 1\n0 6\n")

	m, err := model.Build(context.Background(), caps, ratios, model.Options{})
	require.NoError(s.T(), err)
	require.Equal(s.T(), []graph.EdgeKey{e(1, 2)}, m.Objective)
}

// TestIrregularRowsDoNotPanic covers short rows and rows beyond the declared dimension.
func (s *TraversalSuite) TestIrregularRowsDoNotPanic() {
	caps := mustGraph(s.T(), "4\n1 2 1\n3 4 2\n")
	ratios := mustMatrix(s.T(), "2\n0 1\n0\n0 0 0 2\n")

	m, err := model.Build(context.Background(), caps, ratios, model.Options{})
	require.NoError(s.T(), err)
	require.Equal(s.T(), []graph.EdgeKey{e(1, 2), e(3, 4)}, m.Objective)

	m, err = model.Build(context.Background(), caps, mustMatrix(s.T(), "2\n0 1\n"), model.Options{Orientation: model.Reverse})
	require.NoError(s.T(), err)
	require.Empty(s.T(), m.Objective)
}

// TestDeterministic verifies repeated builds agree exactly.
func (s *TraversalSuite) TestDeterministic() {
	first, err := model.Build(context.Background(), s.caps, s.ratios, model.Options{})
	require.NoError(s.T(), err)
	for i := 0; i < 20; i++ {
		again, err := model.Build(context.Background(), s.caps, s.ratios, model.Options{})
		require.NoError(s.T(), err)
		require.Equal(s.T(), first, again)
	}
}

// TestCanceledContext stops the walk before the first row.
func (s *TraversalSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := model.Traverse[graph.EdgeKey](ctx, s.caps, s.ratios, model.Options{}, model.ObjectiveVisitor{})
	require.ErrorIs(s.T(), err, context.Canceled)
}

func TestTraversalSuite(t *testing.T) {
	suite.Run(t, new(TraversalSuite))
}
