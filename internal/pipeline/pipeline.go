// Package pipeline turns a capacity graph file and a ratio matrix file into
// an LP model file. Everything is built in memory first, so a failing run
// never leaves a partial model on disk.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/zheng/ratioflow/internal/export"
	"github.com/zheng/ratioflow/internal/graph"
	"github.com/zheng/ratioflow/internal/model"
)

// StdoutPath as an output path writes the model to Request.Stdout
const StdoutPath = "-"

// Request describes one generation run
type Request struct {
	GraphPath  string
	RatioPath  string
	OutputPath string
	Naming     graph.Naming
	Options    model.Options
	// Stdout receives the model when OutputPath is StdoutPath
	Stdout io.Writer
}

// Result describes a successful run
type Result struct {
	OutputPath string       `json:"output_path"`
	Stats      model.Stats  `json:"stats"`
	Nodes      int          `json:"nodes"`
	Edges      int          `json:"edges"`
	Rows       int          `json:"rows"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	Duration   string       `json:"duration"`
	Model      *model.Model `json:"-"`
}

// Inputs are the two parsed input files
type Inputs struct {
	Graph  *graph.CapacityGraph
	Ratios *graph.RatioMatrix
}

// LoadInputs parses both input files. Each file is closed before returning.
func LoadInputs(graphPath, ratioPath string) (*Inputs, error) {
	g, err := parseFile(graphPath, graph.ParseCapacityGraph)
	if err != nil {
		return nil, err
	}
	m, err := parseFile(ratioPath, graph.ParseRatioMatrix)
	if err != nil {
		return nil, err
	}
	return &Inputs{Graph: g, Ratios: m}, nil
}

func parseFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Run parses the inputs, builds the model and writes it out
func Run(ctx context.Context, req Request, logger *slog.Logger) (*Result, error) {
	start := time.Now()

	in, err := LoadInputs(req.GraphPath, req.RatioPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("inputs parsed",
		"graph", req.GraphPath,
		"nodes", in.Graph.NumNodes(),
		"edges", in.Graph.Len(),
		"ratios", req.RatioPath,
		"dimension", in.Ratios.Dimension(),
		"rows", in.Ratios.Len(),
	)
	if in.Ratios.Len() != in.Ratios.Dimension() {
		logger.Warn("ratio matrix row count differs from its declared dimension",
			"dimension", in.Ratios.Dimension(), "rows", in.Ratios.Len())
	}

	naming := req.Naming
	if naming == "" {
		naming = graph.NamingCompact
	}
	if maxNode := max(in.Graph.MaxNodeID(), in.Ratios.Dimension(), in.Ratios.Len()); naming.Ambiguous(maxNode) {
		logger.Warn("compact edge names are ambiguous for node ids above 9, consider --naming delimited",
			"max_node", maxNode)
	}

	m, err := model.Build(ctx, in.Graph, in.Ratios, req.Options)
	if err != nil {
		return nil, err
	}

	data := export.NewExporter(export.ExportOptions{Naming: naming}).Render(m)
	if err := writeOutput(req, data); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	res := &Result{
		OutputPath: req.OutputPath,
		Stats:      m.Stats(),
		Nodes:      in.Graph.NumNodes(),
		Edges:      in.Graph.Len(),
		Rows:       in.Ratios.Len(),
		Size:       int64(len(data)),
		Digest:     hex.EncodeToString(sum[:]),
		Duration:   time.Since(start).String(),
		Model:      m,
	}
	logger.Info("model generated",
		"output", res.OutputPath,
		"orientation", res.Stats.Orientation,
		"objective_terms", res.Stats.ObjectiveTerms,
		"bounds", res.Stats.Bounds,
		"constraints", res.Stats.Constraints,
	)
	return res, nil
}

func writeOutput(req Request, data []byte) error {
	if req.OutputPath == StdoutPath {
		w := req.Stdout
		if w == nil {
			w = os.Stdout
		}
		_, err := w.Write(data)
		return err
	}
	return export.WriteFile(req.OutputPath, data)
}

// Inspection is what the inspect command reports
type Inspection struct {
	Inputs     *Inputs
	References []model.RowReference
}

// Inspect parses both inputs and resolves each row's reference edge
func Inspect(ctx context.Context, graphPath, ratioPath string, opts model.Options) (*Inspection, error) {
	in, err := LoadInputs(graphPath, ratioPath)
	if err != nil {
		return nil, err
	}
	refs, err := model.References(ctx, in.Graph, in.Ratios, opts)
	if err != nil {
		return nil, err
	}
	return &Inspection{Inputs: in, References: refs}, nil
}
