package graph

import (
	"fmt"
	"io"
	"strconv"
)

const ratioSource = "ratio matrix"

// RatioMatrix holds the proportional flow ratios, one row per node.
// A zero entry means no relation. Rows are kept exactly as read: neither the
// row count nor the row lengths are checked against the declared dimension.
type RatioMatrix struct {
	dimension int
	rows      [][]int
}

// ParseRatioMatrix reads the ratio file format:
//
//	# comment
//	<dimension>
//	<r11> <r12> ... <r1n>
func ParseRatioMatrix(r io.Reader) (*RatioMatrix, error) {
	m := &RatioMatrix{}
	seenHeader := false

	err := scanRecords(r, ratioSource, func(line int, fields []string) error {
		if !seenHeader {
			n, err := parseHeader(ratioSource, line, fields, "dimension")
			if err != nil {
				return err
			}
			m.dimension = n
			seenHeader = true
			return nil
		}

		row := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return &MalformedInputError{
					Source: ratioSource,
					Line:   line,
					Reason: fmt.Sprintf("column %d: %q is not an integer", i+1, f),
				}
			}
			row[i] = v
		}
		m.rows = append(m.rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !seenHeader {
		return nil, &MalformedInputError{Source: ratioSource, Reason: "missing dimension header"}
	}
	return m, nil
}

// Dimension returns the dimension declared in the header
func (m *RatioMatrix) Dimension() int {
	return m.dimension
}

// Len returns the number of rows actually read
func (m *RatioMatrix) Len() int {
	return len(m.rows)
}

// Row returns row i (1-based). The returned slice must not be modified.
func (m *RatioMatrix) Row(i int) []int {
	if i < 1 || i > len(m.rows) {
		return nil
	}
	return m.rows[i-1]
}

// Rows returns a deep copy of all rows
func (m *RatioMatrix) Rows() [][]int {
	out := make([][]int, len(m.rows))
	for i, row := range m.rows {
		out[i] = append([]int(nil), row...)
	}
	return out
}
