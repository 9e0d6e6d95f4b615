// Package review runs rule-based static checks over a visualization spec and
// its data summary. Rules are independent and all issues accumulate; nothing
// short-circuits.
package review

import (
	"fmt"
	"strings"

	"go-viz-pipeline/internal/model"
)

const (
	pieCategoryLimit = 7
	barCategoryLimit = 15
	scatterRowLimit  = 50

	startingScore = 10.0
)

// chartHints maps requirement keywords to the chart types that usually fit
// them, plus the suggestion text emitted on a mismatch.
var chartHints = []struct {
	keyword string
	types   []string
	hint    string
}{
	{"time", []string{"line", "area"}, "a line chart or area chart"},
	{"trend", []string{"line"}, "a line chart"},
	{"distribution", []string{"histogram", "density"}, "a histogram or density plot"},
	{"correlation", []string{"scatter"}, "a scatter plot"},
}

// Reviewer performs deterministic quality checks on visualizations.
type Reviewer struct{}

func NewReviewer() *Reviewer {
	return &Reviewer{}
}

// Review returns the accumulated issue list and a quality score. The score
// starts at 10.0 and loses 2.0 per error, 1.0 per warning and 0.5 per
// suggestion, floored at 0.
func (r *Reviewer) Review(requirements string, viz model.VisualizationSpec, summary model.DataSummary) ([]model.Issue, float64) {
	issues := []model.Issue{}

	if viz.Type == "pie" {
		if stats, ok := summary.CategoricalSummary[viz.XAxis]; ok && stats.UniqueValues > pieCategoryLimit {
			issues = append(issues, model.Issue{
				Severity: model.SeverityWarning,
				Message: fmt.Sprintf("Pie chart has %d categories, which may be too many for effective visualization. Consider using a bar chart instead.",
					stats.UniqueValues),
			})
		}
	}

	if viz.Type == "bar" {
		if stats, ok := summary.CategoricalSummary[viz.XAxis]; ok && stats.UniqueValues > barCategoryLimit {
			issues = append(issues, model.Issue{
				Severity: model.SeverityWarning,
				Message: fmt.Sprintf("Bar chart has %d categories, which may be difficult to read. Consider filtering to show only top categories.",
					stats.UniqueValues),
			})
		}
	}

	if viz.Type == "scatter" && summary.RowCount > scatterRowLimit && viz.Color == "" {
		issues = append(issues, model.Issue{
			Severity: model.SeveritySuggestion,
			Message:  "For scatter plots with many data points, using color to encode an additional variable can reveal patterns.",
		})
	}

	lowered := strings.ToLower(requirements)
	for _, hint := range chartHints {
		if !strings.Contains(lowered, hint.keyword) {
			continue
		}
		if !containsString(hint.types, viz.Type) {
			issues = append(issues, model.Issue{
				Severity: model.SeveritySuggestion,
				Message:  fmt.Sprintf("Requirements mention '%s' which often works best with %s.", hint.keyword, hint.hint),
			})
		}
	}

	return issues, score(issues)
}

func score(issues []model.Issue) float64 {
	s := startingScore
	for _, issue := range issues {
		switch issue.Severity {
		case model.SeverityError:
			s -= 2.0
		case model.SeverityWarning:
			s -= 1.0
		case model.SeveritySuggestion:
			s -= 0.5
		}
	}
	if s < 0 {
		return 0
	}
	return s
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
