package graph

import (
	"fmt"
	"strconv"
)

// EdgeKey identifies a directed edge by its ordered pair of node ids.
// (1,2) and (2,1) are distinct keys.
type EdgeKey struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// String renders the key in compact form, e.g. (1,2) -> "x12"
func (e EdgeKey) String() string {
	return NamingCompact.Format(e)
}

// IsSelfLoop reports whether the edge starts and ends on the same node
func (e EdgeKey) IsSelfLoop() bool {
	return e.From == e.To
}

// Less orders keys by From, then To
func (e EdgeKey) Less(o EdgeKey) bool {
	if e.From != o.From {
		return e.From < o.From
	}
	return e.To < o.To
}

// Naming selects how an EdgeKey is rendered as an LP variable name
type Naming string

const (
	// NamingCompact concatenates the node ids: x12. Ambiguous once ids reach 10.
	NamingCompact Naming = "compact"
	// NamingDelimited separates the node ids: x1_12.
	NamingDelimited Naming = "delimited"
)

// ParseNaming converts a config or flag value to a Naming
func ParseNaming(s string) (Naming, error) {
	switch Naming(s) {
	case NamingCompact, "":
		return NamingCompact, nil
	case NamingDelimited:
		return NamingDelimited, nil
	default:
		return "", fmt.Errorf("unknown edge naming %q (want %q or %q)", s, NamingCompact, NamingDelimited)
	}
}

// Format renders the edge as an LP variable name
func (n Naming) Format(e EdgeKey) string {
	from, to := strconv.Itoa(e.From), strconv.Itoa(e.To)
	if n == NamingDelimited {
		return "x" + from + "_" + to
	}
	return "x" + from + to
}

// Ambiguous reports whether compact names may collide for node ids up to maxNode
func (n Naming) Ambiguous(maxNode int) bool {
	return n != NamingDelimited && maxNode >= 10
}
