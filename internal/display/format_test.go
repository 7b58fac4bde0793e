package display_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zheng/ratioflow/internal/display"
	"github.com/zheng/ratioflow/internal/graph"
	"github.com/zheng/ratioflow/internal/model"
	"github.com/zheng/ratioflow/internal/storage"
)

func TestFormatEdgeTable(t *testing.T) {
	g, err := graph.ParseCapacityGraph(strings.NewReader("12\n1 12 4\n1 2 5\n"))
	require.NoError(t, err)

	out := display.FormatEdgeTable(g, graph.NamingDelimited)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "VARIABLE"))
	assert.True(t, strings.HasPrefix(lines[1], "x1_2 "))
	assert.True(t, strings.HasPrefix(lines[2], "x1_12"))
	assert.True(t, strings.HasSuffix(lines[2], " 4"))
}

func TestFormatReferences(t *testing.T) {
	out := display.FormatReferences([]model.RowReference{
		{Row: 1, Edge: graph.EdgeKey{From: 1, To: 2}, Ratio: 2},
	}, graph.NamingCompact)
	assert.Equal(t, "row 1    x12 (ratio 2)\n", out)

	assert.Contains(t, display.FormatReferences(nil, graph.NamingCompact), "no row")
}

func TestFormatRunTable(t *testing.T) {
	now := time.Unix(1700000000, 0)
	out := display.FormatRunTable([]*storage.Run{
		{
			ID:             "0123456789abcdef",
			StartedAt:      now.Add(-3 * time.Minute),
			Status:         storage.RunStatusOK,
			OutputPath:     "optimised_flow.lp",
			ObjectiveTerms: 3,
			Bounds:         3,
			Constraints:    1,
			Size:           2048,
			Digest:         "aaaaaaaaaaaaaaaaaaaa",
		},
		{
			ID:        "fedcba98",
			StartedAt: now.Add(-time.Hour),
			Reverse:   true,
			Status:    storage.RunStatusFailed,
			Error:     "missing edge x13",
		},
	}, now)

	assert.Contains(t, out, "01234567 ")
	assert.Contains(t, out, "3 minutes ago")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "aaaaaaaaaaaa\n")
	assert.Contains(t, out, "reverse")
	assert.Contains(t, out, "└── missing edge x13")
}

func TestShortDigest(t *testing.T) {
	assert.Equal(t, "abc", display.ShortDigest("abc"))
	assert.Equal(t, "0123456789ab", display.ShortDigest("0123456789abcdef"))
}
