package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/zheng/ratioflow/internal/graph"
	"github.com/zheng/ratioflow/internal/model"
	"github.com/zheng/ratioflow/internal/storage"
)

// ShortDigest keeps the first 12 hex characters of a digest
func ShortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

// FormatEdgeTable renders every edge of g with its LP variable name
func FormatEdgeTable(g *graph.CapacityGraph, naming graph.Naming) string {
	edges := g.Edges()
	width := len("VARIABLE")
	for _, e := range edges {
		width = max(width, len(naming.Format(e.Key)))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s  %6s  %6s  %8s\n", width, "VARIABLE", "FROM", "TO", "CAPACITY"))
	for _, e := range edges {
		sb.WriteString(fmt.Sprintf("%-*s  %6d  %6d  %8d\n", width, naming.Format(e.Key), e.Key.From, e.Key.To, e.Capacity))
	}
	return sb.String()
}

// FormatReferences renders the reference edge chosen for each row
func FormatReferences(refs []model.RowReference, naming graph.Naming) string {
	if len(refs) == 0 {
		return "(no row has a positive ratio)\n"
	}
	var sb strings.Builder
	for _, r := range refs {
		sb.WriteString(fmt.Sprintf("row %-4d %s (ratio %d)\n", r.Row, naming.Format(r.Edge), r.Ratio))
	}
	return sb.String()
}

// FormatRunTable renders recorded runs, newest first, relative to now
func FormatRunTable(runs []*storage.Run, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-8s  %-14s  %-6s  %-7s  %-28s  %5s  %5s  %5s  %8s  %s\n",
		"ID", "WHEN", "STATUS", "DIR", "OUTPUT", "TERMS", "BNDS", "CONS", "SIZE", "DIGEST"))
	for _, r := range runs {
		dir := "forward"
		if r.Reverse {
			dir = "reverse"
		}
		line := fmt.Sprintf("%-8s  %-14s  %-6s  %-7s  %-28s  %5d  %5d  %5d  %8s  %s",
			shortID(r.ID),
			humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			r.Status,
			dir,
			truncate(r.OutputPath, 28),
			r.ObjectiveTerms, r.Bounds, r.Constraints,
			humanize.Bytes(uint64(r.Size)),
			ShortDigest(r.Digest),
		)
		sb.WriteString(strings.TrimRight(line, " ") + "\n")
		if r.Error != "" {
			sb.WriteString("          └── " + r.Error + "\n")
		}
	}
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "…" + s[len(s)-n+1:]
}
