package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-viz-pipeline/internal/model"
)

func categorical(unique int) model.DataSummary {
	return model.DataSummary{
		CategoricalSummary: map[string]model.CategoricalStats{
			"region": {UniqueValues: unique},
		},
	}
}

func TestReviewCleanChartScoresFull(t *testing.T) {
	r := NewReviewer()

	issues, score := r.Review("show revenue by region",
		model.VisualizationSpec{Type: "bar", XAxis: "region", YAxis: "revenue"},
		categorical(4))

	assert.Empty(t, issues)
	assert.Equal(t, 10.0, score)
}

func TestReviewPieWithTooManyCategories(t *testing.T) {
	r := NewReviewer()

	issues, score := r.Review("share by region",
		model.VisualizationSpec{Type: "pie", XAxis: "region"},
		categorical(10))

	require.Len(t, issues, 1)
	assert.Equal(t, model.SeverityWarning, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "10 categories")
	assert.Equal(t, 9.0, score)

	// Exactly at the limit is fine.
	issues, _ = r.Review("share by region",
		model.VisualizationSpec{Type: "pie", XAxis: "region"},
		categorical(7))
	assert.Empty(t, issues)
}

func TestReviewBarWithTooManyCategories(t *testing.T) {
	r := NewReviewer()

	issues, score := r.Review("revenue by region",
		model.VisualizationSpec{Type: "bar", XAxis: "region"},
		categorical(20))

	require.Len(t, issues, 1)
	assert.Equal(t, model.SeverityWarning, issues[0].Severity)
	assert.Equal(t, 9.0, score)
}

func TestReviewScatterColorSuggestion(t *testing.T) {
	r := NewReviewer()
	summary := model.DataSummary{RowCount: 120}

	issues, score := r.Review("correlation between price and size",
		model.VisualizationSpec{Type: "scatter", XAxis: "price", YAxis: "size"},
		summary)

	require.Len(t, issues, 1)
	assert.Equal(t, model.SeveritySuggestion, issues[0].Severity)
	assert.Equal(t, 9.5, score)

	// Encoding a color dimension silences the suggestion.
	issues, _ = r.Review("correlation between price and size",
		model.VisualizationSpec{Type: "scatter", XAxis: "price", YAxis: "size", Color: "region"},
		summary)
	assert.Empty(t, issues)
}

func TestReviewKeywordMismatchSuggestions(t *testing.T) {
	r := NewReviewer()

	issues, _ := r.Review("trend of revenue over TIME",
		model.VisualizationSpec{Type: "bar", XAxis: "month"},
		model.DataSummary{})

	// "time" and "trend" each fire independently against a bar chart.
	require.Len(t, issues, 2)
	for _, issue := range issues {
		assert.Equal(t, model.SeveritySuggestion, issue.Severity)
	}

	// A line chart satisfies both hints.
	issues, _ = r.Review("trend of revenue over time",
		model.VisualizationSpec{Type: "line", XAxis: "month"},
		model.DataSummary{})
	assert.Empty(t, issues)
}

func TestReviewAccumulatesIssuesIntoScore(t *testing.T) {
	r := NewReviewer()

	// Pie with too many slices plus a trend keyword mismatch: one warning
	// and one suggestion, so 10.0 - 1.0 - 0.5.
	issues, score := r.Review("trend of sales",
		model.VisualizationSpec{Type: "pie", XAxis: "region"},
		categorical(10))

	assert.Len(t, issues, 2)
	assert.Equal(t, 8.5, score)
}

func TestScoreFloorsAtZero(t *testing.T) {
	issues := make([]model.Issue, 0, 6)
	for i := 0; i < 6; i++ {
		issues = append(issues, model.Issue{Severity: model.SeverityError})
	}
	assert.Equal(t, 0.0, score(issues))
}
