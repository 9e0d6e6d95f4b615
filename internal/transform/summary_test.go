package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-viz-pipeline/internal/dataset"
	"go-viz-pipeline/internal/model"
)

func TestSummarizeNumericAndCategorical(t *testing.T) {
	a := NewApplier(zap.NewNop())
	table := dataset.NewTable(
		[]string{"region", "revenue"},
		[]model.GenericRecord{
			{"region": "north", "revenue": 100.0},
			{"region": "south", "revenue": 50.0},
			{"region": "north", "revenue": 200.0},
		},
	)

	summary := a.Summarize(table, model.Instructions{})

	assert.Equal(t, 3, summary.RowCount)
	assert.Equal(t, 2, summary.ColumnCount)
	assert.Equal(t, []string{"region", "revenue"}, summary.Columns)

	stats, ok := summary.NumericSummary["revenue"]
	require.True(t, ok)
	require.NotNil(t, stats.Min)
	assert.Equal(t, 50.0, *stats.Min)
	assert.Equal(t, 200.0, *stats.Max)
	assert.InDelta(t, 116.666, *stats.Mean, 0.001)

	cat, ok := summary.CategoricalSummary["region"]
	require.True(t, ok)
	assert.Equal(t, 2, cat.UniqueValues)
	assert.Equal(t, map[string]int{"north": 2, "south": 1}, cat.TopValues)

	assert.Nil(t, summary.Visualization)
}

func TestSummarizeTopValuesCappedAtFive(t *testing.T) {
	a := NewApplier(zap.NewNop())
	rows := make([]model.GenericRecord, 0, 8)
	for _, city := range []string{"a", "b", "c", "d", "e", "f", "g", "a"} {
		rows = append(rows, model.GenericRecord{"city": city})
	}
	table := dataset.NewTable([]string{"city"}, rows)

	summary := a.Summarize(table, model.Instructions{})

	cat := summary.CategoricalSummary["city"]
	assert.Equal(t, 7, cat.UniqueValues)
	require.Len(t, cat.TopValues, 5)
	// "a" appears twice and must survive the cut.
	assert.Equal(t, 2, cat.TopValues["a"])
}

func TestSummarizeAllMissingNumericColumn(t *testing.T) {
	a := NewApplier(zap.NewNop())
	table := dataset.NewTable(
		[]string{"revenue"},
		[]model.GenericRecord{{"revenue": nil}, {"revenue": ""}},
	)

	summary := a.Summarize(table, model.Instructions{})

	stats, ok := summary.NumericSummary["revenue"]
	require.True(t, ok, "an all-missing column still counts as numeric")
	assert.Nil(t, stats.Min)
	assert.Nil(t, stats.Max)
	assert.Nil(t, stats.Mean)
}

func TestSummarizeEchoesVisualizationSpec(t *testing.T) {
	a := NewApplier(zap.NewNop())
	table := dataset.NewTable([]string{"x"}, nil)
	viz := model.VisualizationSpec{Type: "bar", XAxis: "x", YAxis: "y"}

	summary := a.Summarize(table, model.Instructions{Visualization: viz})

	require.NotNil(t, summary.Visualization)
	assert.Equal(t, viz, *summary.Visualization)
}
