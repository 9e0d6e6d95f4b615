package model

// Severity classifies a review issue.
type Severity string

const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// Issue is one diagnostic produced by the quality review.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// PipelineResult is the durable record of one successful processing run.
// It is created once, keyed by VizID, and never mutated afterwards.
type PipelineResult struct {
	VizID             string            `json:"viz_id"`
	VisualizationHTML string            `json:"visualization_html"`
	Explanation       string            `json:"explanation"`
	Issues            []Issue           `json:"issues"`
	QualityScore      float64           `json:"quality_score"`
	Columns           []string          `json:"processed_columns"`
	Data              []GenericRecord   `json:"processed_data"`
	Requirements      string            `json:"requirements"`
	SchemaMappings    map[string]string `json:"schema_mappings"`
	Visualization     VisualizationSpec `json:"visualization_info"`
}
