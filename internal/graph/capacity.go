package graph

import (
	"fmt"
	"io"
	"sort"
	"strconv"
)

const capacitySource = "capacity graph"

// CapacityGraph maps each directed edge to its capacity.
// It is immutable once returned by ParseCapacityGraph.
type CapacityGraph struct {
	numNodes   int
	capacities map[EdgeKey]int
	maxNode    int
}

// Edge is one entry of a CapacityGraph
type Edge struct {
	Key      EdgeKey `json:"key"`
	Capacity int     `json:"capacity"`
}

// ParseCapacityGraph reads the capacity file format:
//
//	# comment
//	<num_nodes>
//	<from> <to> <capacity>
//
// Repeating an edge with the same capacity is accepted; repeating it with a
// different capacity fails with *AmbiguousCapacityError.
func ParseCapacityGraph(r io.Reader) (*CapacityGraph, error) {
	g := &CapacityGraph{capacities: make(map[EdgeKey]int)}
	seenHeader := false

	err := scanRecords(r, capacitySource, func(line int, fields []string) error {
		if !seenHeader {
			n, err := parseHeader(capacitySource, line, fields, "num_nodes")
			if err != nil {
				return err
			}
			g.numNodes = n
			seenHeader = true
			return nil
		}

		if len(fields) != 3 {
			return &MalformedInputError{
				Source: capacitySource,
				Line:   line,
				Reason: fmt.Sprintf("expected \"from to capacity\", got %d fields", len(fields)),
			}
		}
		var vals [3]int
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return &MalformedInputError{Source: capacitySource, Line: line, Reason: fmt.Sprintf("%q is not an integer", f)}
			}
			if v < 1 {
				return &MalformedInputError{Source: capacitySource, Line: line, Reason: fmt.Sprintf("%q must be a positive integer", f)}
			}
			vals[i] = v
		}

		edge := EdgeKey{From: vals[0], To: vals[1]}
		capacity := vals[2]
		if existing, ok := g.capacities[edge]; ok {
			if existing != capacity {
				return &AmbiguousCapacityError{Edge: edge, Line: line, Existing: existing, Conflicting: capacity}
			}
			return nil
		}
		g.capacities[edge] = capacity
		g.maxNode = max(g.maxNode, edge.From, edge.To)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !seenHeader {
		return nil, &MalformedInputError{Source: capacitySource, Reason: "missing num_nodes header"}
	}
	return g, nil
}

// Lookup returns the capacity of edge, if present
func (g *CapacityGraph) Lookup(edge EdgeKey) (int, bool) {
	c, ok := g.capacities[edge]
	return c, ok
}

// NumNodes returns the node count declared in the header
func (g *CapacityGraph) NumNodes() int {
	return g.numNodes
}

// Len returns the number of distinct edges
func (g *CapacityGraph) Len() int {
	return len(g.capacities)
}

// MaxNodeID returns the largest node id referenced by any edge
func (g *CapacityGraph) MaxNodeID() int {
	return g.maxNode
}

// Edges returns all edges ordered by (from, to)
func (g *CapacityGraph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.capacities))
	for k, c := range g.capacities {
		edges = append(edges, Edge{Key: k, Capacity: c})
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Key.Less(edges[j].Key)
	})
	return edges
}
