package model

// NumericStats holds basic statistics for one numeric column.
// Fields are nil when the computation is undefined (e.g. all values missing).
type NumericStats struct {
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
	Mean *float64 `json:"mean"`
}

// CategoricalStats holds frequency information for one text column.
type CategoricalStats struct {
	UniqueValues int            `json:"unique_values"`
	TopValues    map[string]int `json:"top_values"` // at most 5 entries
}

// DataSummary describes a processed table for review and explanation.
type DataSummary struct {
	RowCount           int                         `json:"row_count"`
	ColumnCount        int                         `json:"column_count"`
	Columns            []string                    `json:"columns"`
	NumericSummary     map[string]NumericStats     `json:"numeric_summary,omitempty"`
	CategoricalSummary map[string]CategoricalStats `json:"categorical_summary,omitempty"`
	Visualization      *VisualizationSpec          `json:"visualization,omitempty"`
}
