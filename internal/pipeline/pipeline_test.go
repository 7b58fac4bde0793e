package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zheng/ratioflow/internal/graph"
	"github.com/zheng/ratioflow/internal/model"
	"github.com/zheng/ratioflow/internal/pipeline"
)

const (
	scenarioGraph = `# capacities
3
1 2 5
1 3 6
2 3 7
`
	scenarioRatios = `# ratios
3
0 2 3
0 0 5
0 0 0
`
	scenarioLP = `/* Objective function */
max: + x12 + x13 + x23;

/* Variable bounds */
x12 <= 5;
x13 <= 6;
x23 <= 7;

/* Constraints */
3 x12 = 2 x13;
`
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeInputs(t *testing.T, graphText, ratioText string) (dir, graphPath, ratioPath string) {
	t.Helper()
	dir = t.TempDir()
	graphPath = filepath.Join(dir, "test_ILP.graph")
	ratioPath = filepath.Join(dir, "test_ILP.weights")
	require.NoError(t, os.WriteFile(graphPath, []byte(graphText), 0o644))
	require.NoError(t, os.WriteFile(ratioPath, []byte(ratioText), 0o644))
	return dir, graphPath, ratioPath
}

func TestRunScenario(t *testing.T) {
	dir, graphPath, ratioPath := writeInputs(t, scenarioGraph, scenarioRatios)
	out := filepath.Join(dir, "optimised_flow.lp")

	res, err := pipeline.Run(context.Background(), pipeline.Request{
		GraphPath:  graphPath,
		RatioPath:  ratioPath,
		OutputPath: out,
	}, discard)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, scenarioLP, string(data))

	assert.Equal(t, out, res.OutputPath)
	assert.Equal(t, model.Stats{Orientation: "forward", ObjectiveTerms: 3, Bounds: 3, Constraints: 1}, res.Stats)
	assert.Equal(t, 3, res.Nodes)
	assert.Equal(t, int64(len(scenarioLP)), res.Size)
	assert.Len(t, res.Digest, 64)
}

func TestRunIsDeterministic(t *testing.T) {
	dir, graphPath, ratioPath := writeInputs(t, scenarioGraph, scenarioRatios)

	var digests []string
	var outputs [][]byte
	for _, name := range []string{"a.lp", "b.lp"} {
		out := filepath.Join(dir, name)
		res, err := pipeline.Run(context.Background(), pipeline.Request{
			GraphPath: graphPath, RatioPath: ratioPath, OutputPath: out,
		}, discard)
		require.NoError(t, err)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		digests = append(digests, res.Digest)
		outputs = append(outputs, data)
	}
	assert.Equal(t, digests[0], digests[1])
	assert.True(t, bytes.Equal(outputs[0], outputs[1]))
}

func TestRunMissingEdgeWritesNothing(t *testing.T) {
	dir, graphPath, ratioPath := writeInputs(t, "3\n1 2 5\n2 3 7\n", scenarioRatios)
	out := filepath.Join(dir, "optimised_flow.lp")

	_, err := pipeline.Run(context.Background(), pipeline.Request{
		GraphPath: graphPath, RatioPath: ratioPath, OutputPath: out,
	}, discard)
	require.Error(t, err)

	var missing *model.MissingEdgeError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, graph.EdgeKey{From: 1, To: 3}, missing.Edge)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output file after a failed run")
}

func TestRunMissingEdgeKeepsPreviousModel(t *testing.T) {
	dir, graphPath, ratioPath := writeInputs(t, "3\n1 2 5\n2 3 7\n", scenarioRatios)
	out := filepath.Join(dir, "optimised_flow.lp")
	require.NoError(t, os.WriteFile(out, []byte(scenarioLP), 0o644))

	_, err := pipeline.Run(context.Background(), pipeline.Request{
		GraphPath: graphPath, RatioPath: ratioPath, OutputPath: out,
	}, discard)
	require.Error(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, scenarioLP, string(data))
}

func TestRunAmbiguousCapacity(t *testing.T) {
	dir, graphPath, ratioPath := writeInputs(t, "3\n1 2 5\n1 3 6\n1 2 6\n", scenarioRatios)

	_, err := pipeline.Run(context.Background(), pipeline.Request{
		GraphPath: graphPath, RatioPath: ratioPath, OutputPath: filepath.Join(dir, "m.lp"),
	}, discard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, graph.ErrAmbiguousCapacity))
	assert.Contains(t, err.Error(), graphPath)
}

func TestRunMissingInputFile(t *testing.T) {
	dir, graphPath, _ := writeInputs(t, scenarioGraph, scenarioRatios)
	_, err := pipeline.Run(context.Background(), pipeline.Request{
		GraphPath:  graphPath,
		RatioPath:  filepath.Join(dir, "absent.weights"),
		OutputPath: filepath.Join(dir, "m.lp"),
	}, discard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunToStdout(t *testing.T) {
	_, graphPath, ratioPath := writeInputs(t, scenarioGraph, scenarioRatios)

	var buf bytes.Buffer
	res, err := pipeline.Run(context.Background(), pipeline.Request{
		GraphPath:  graphPath,
		RatioPath:  ratioPath,
		OutputPath: pipeline.StdoutPath,
		Stdout:     &buf,
	}, discard)
	require.NoError(t, err)
	assert.Equal(t, scenarioLP, buf.String())
	assert.Equal(t, pipeline.StdoutPath, res.OutputPath)
}

func TestInspect(t *testing.T) {
	_, graphPath, ratioPath := writeInputs(t, scenarioGraph, scenarioRatios)

	insp, err := pipeline.Inspect(context.Background(), graphPath, ratioPath, model.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, insp.Inputs.Graph.Len())
	assert.Equal(t, []model.RowReference{
		{Row: 1, Edge: graph.EdgeKey{From: 1, To: 2}, Ratio: 2},
		{Row: 2, Edge: graph.EdgeKey{From: 2, To: 3}, Ratio: 5},
	}, insp.References)
}
