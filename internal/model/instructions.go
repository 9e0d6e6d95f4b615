package model

// FilterSpec is a single row filter derived from user requirements.
// Operation uses the interpreter's wire form ("==", ">", "in", "contains", ...);
// the transform package normalizes it before evaluation.
type FilterSpec struct {
	Column    string      `json:"column"`
	Operation string      `json:"operation"`
	Value     interface{} `json:"value"`
}

// AggregationSpec describes how grouped rows are reduced.
type AggregationSpec struct {
	Method string `json:"method"` // sum, mean, count, min, max
	Column string `json:"column"` // target column; empty means "pick first numeric"
}

// VisualizationSpec describes the chart to render.
type VisualizationSpec struct {
	Type  string `json:"type"` // bar, line, scatter, pie, area
	XAxis string `json:"x_axis"`
	YAxis string `json:"y_axis"`
	Color string `json:"color,omitempty"`
	Title string `json:"title"`
}

// IsZero reports whether no visualization was specified at all.
func (v VisualizationSpec) IsZero() bool {
	return v.Type == "" && v.XAxis == "" && v.YAxis == "" && v.Color == "" && v.Title == ""
}

// Instructions is the validated structured form of a free-text requirement.
type Instructions struct {
	Filters       []FilterSpec      `json:"filters"`
	GroupBy       []string          `json:"groupby"`
	Aggregation   AggregationSpec   `json:"aggregation"`
	Visualization VisualizationSpec `json:"visualization"`
}

// DefaultInstructions is the safe fallback used whenever the interpreter
// fails to produce well-formed structured output.
func DefaultInstructions() Instructions {
	return Instructions{
		Filters:     []FilterSpec{},
		GroupBy:     []string{},
		Aggregation: AggregationSpec{Method: "sum"},
		Visualization: VisualizationSpec{
			Type:  "bar",
			Title: "Data Visualization",
		},
	}
}
