package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-viz-pipeline/internal/interpreter"
	"go-viz-pipeline/internal/knowledge"
	"go-viz-pipeline/internal/model"
	"go-viz-pipeline/internal/render"
	"go-viz-pipeline/internal/review"
	"go-viz-pipeline/internal/schema"
	"go-viz-pipeline/internal/transform"
)

// mockInterpreter is a canned stand-in for the generation service.
type mockInterpreter struct {
	mappings     map[string]string
	instructions model.Instructions
	explanation  string
	interpretErr error
	explainErr   error
}

var _ interpreter.Client = (*mockInterpreter)(nil)

func (m *mockInterpreter) MapColumns(context.Context, []string) (map[string]string, error) {
	return m.mappings, nil
}

func (m *mockInterpreter) InterpretRequirements(context.Context, string, map[string]string, map[string][]interface{}) (model.Instructions, error) {
	return m.instructions, m.interpretErr
}

func (m *mockInterpreter) Explain(context.Context, model.DataSummary, model.VisualizationSpec) (string, error) {
	return m.explanation, m.explainErr
}

func writeOrdersCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	content := "cust_id,order_amt,region\n1,10.5,north\n2,20,south\n3,30,north\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestOrchestrator(t *testing.T, interp interpreter.Client) (*Orchestrator, *ResultStore, string) {
	t.Helper()
	log := zap.NewNop()
	resultsDir := t.TempDir()

	store := knowledge.NewStore(filepath.Join(t.TempDir(), "knowledge.json"), log)
	resolver := schema.NewResolver(store, interp, log)
	results := NewResultStore(resultsDir, log)

	o := NewOrchestrator(resolver, interp, transform.NewApplier(log),
		render.New(), review.NewReviewer(), results, nil, log)
	return o, results, resultsDir
}

func TestProcessFile(t *testing.T) {
	interp := &mockInterpreter{mappings: map[string]string{
		"cust_id":   "Customer ID",
		"order_amt": "Order Amount",
		"region":    "Region",
	}}
	o, _, _ := newTestOrchestrator(t, interp)

	info, err := o.ProcessFile(context.Background(), writeOrdersCSV(t))
	require.NoError(t, err)

	assert.Equal(t, "Customer ID", info.SchemaMappings["cust_id"])
	assert.Equal(t, "Region", info.SchemaMappings["region"])
	assert.Len(t, info.SampleData["cust_id"], 3)
}

func TestProcessRequestEndToEnd(t *testing.T) {
	interp := &mockInterpreter{
		mappings: map[string]string{
			"cust_id": "Customer ID", "order_amt": "Order Amount", "region": "Region",
		},
		instructions: model.Instructions{
			GroupBy:     []string{"region"},
			Aggregation: model.AggregationSpec{Method: "sum", Column: "order_amt"},
			Visualization: model.VisualizationSpec{
				Type: "bar", XAxis: "region", YAxis: "sum_order_amt", Title: "Orders by Region",
			},
		},
		explanation: "Total order value per region.",
	}
	o, _, _ := newTestOrchestrator(t, interp)

	res, err := o.ProcessRequest(context.Background(), writeOrdersCSV(t), "total orders by region")
	require.NoError(t, err)

	assert.NotEmpty(t, res.VizID)
	assert.Contains(t, res.VisualizationHTML, "vegaEmbed")
	assert.Contains(t, res.VisualizationHTML, "Orders by Region")
	assert.Equal(t, "Total order value per region.", res.Explanation)
	assert.Empty(t, res.Issues)
	assert.Equal(t, 10.0, res.QualityScore)

	// The full result is retrievable and carries the transformed table.
	full, err := o.GetResult(res.VizID)
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "sum_order_amt"}, full.Columns)
	require.Len(t, full.Data, 2)
	assert.Equal(t, "total orders by region", full.Requirements)
	assert.Equal(t, "Customer ID", full.SchemaMappings["cust_id"])
}

func TestProcessRequestWithoutGrouping(t *testing.T) {
	interp := &mockInterpreter{
		mappings: map[string]string{"cust_id": "Customer ID", "order_amt": "Order Amount"},
		instructions: model.Instructions{
			Visualization: model.VisualizationSpec{
				Type: "bar", XAxis: "cust_id", YAxis: "order_amt",
			},
		},
		explanation: "Order amount per customer.",
	}
	o, _, _ := newTestOrchestrator(t, interp)

	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("cust_id,order_amt\n1,10.5\n2,20\n3,30\n"), 0644))

	res, err := o.ProcessRequest(context.Background(),
		path, "show me a bar chart of amount by customer")
	require.NoError(t, err)
	assert.NotEmpty(t, res.VisualizationHTML)

	full, err := o.GetResult(res.VizID)
	require.NoError(t, err)
	// No grouping instruction, so all rows pass through untouched.
	assert.Len(t, full.Data, 3)
	assert.Equal(t, []string{"cust_id", "order_amt"}, full.Columns)
}

func TestProcessRequestAbortsOnInterpreterError(t *testing.T) {
	interp := &mockInterpreter{
		mappings:     map[string]string{},
		interpretErr: errors.New("service unavailable"),
	}
	o, _, resultsDir := newTestOrchestrator(t, interp)

	_, err := o.ProcessRequest(context.Background(), writeOrdersCSV(t), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to interpret requirements")

	// Nothing partial may land in the store.
	entries, readErr := os.ReadDir(resultsDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestProcessRequestAbortsOnExplainError(t *testing.T) {
	interp := &mockInterpreter{
		mappings:     map[string]string{},
		instructions: model.DefaultInstructions(),
		explainErr:   errors.New("timeout"),
	}
	o, _, resultsDir := newTestOrchestrator(t, interp)

	_, err := o.ProcessRequest(context.Background(), writeOrdersCSV(t), "anything")
	require.Error(t, err)

	entries, readErr := os.ReadDir(resultsDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestProcessRequestMissingFile(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, &mockInterpreter{})

	_, err := o.ProcessRequest(context.Background(), "does-not-exist.csv", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read dataset")
}

func TestGetResultSurvivesRestart(t *testing.T) {
	interp := &mockInterpreter{
		mappings:     map[string]string{},
		instructions: model.DefaultInstructions(),
		explanation:  "A bar chart.",
	}
	o, _, resultsDir := newTestOrchestrator(t, interp)

	res, err := o.ProcessRequest(context.Background(), writeOrdersCSV(t), "show the data")
	require.NoError(t, err)

	// A second store over the same directory must re-hydrate the result.
	reopened := NewResultStore(resultsDir, zap.NewNop())
	got, err := reopened.Get(res.VizID)
	require.NoError(t, err)
	assert.Equal(t, "A bar chart.", got.Explanation)

	_, err = o.GetResult("unknown-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDownloadableArtifact(t *testing.T) {
	interp := &mockInterpreter{
		mappings:     map[string]string{},
		instructions: model.DefaultInstructions(),
		explanation:  "A bar chart.",
	}
	o, _, _ := newTestOrchestrator(t, interp)

	res, err := o.ProcessRequest(context.Background(), writeOrdersCSV(t), "show the data")
	require.NoError(t, err)

	page := o.DownloadableArtifact(res.VizID)
	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "A bar chart.")

	// Unknown identifiers get an error page, never a Go error.
	page = o.DownloadableArtifact("unknown-id")
	assert.Contains(t, page, "<h1>Error</h1>")
	assert.Contains(t, page, "visualization not found")
}
