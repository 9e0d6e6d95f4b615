package dataset

import (
	"go-viz-pipeline/internal/model"
	"go-viz-pipeline/pkg/utils"
)

// Table is an in-memory tabular dataset with a stable column order.
type Table struct {
	Columns []string
	Rows    []model.GenericRecord
}

// NewTable builds a table from an explicit column order and rows.
func NewTable(columns []string, rows []model.GenericRecord) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// Copy returns a table sharing no row storage with the original.
func (t *Table) Copy() *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	rows := make([]model.GenericRecord, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Clone()
	}
	return &Table{Columns: cols, Rows: rows}
}

// HasColumn reports whether the table declares the given column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// IsNumericColumn reports whether every present value in the column is
// numeric. Columns with no values at all count as numeric, mirroring how
// an all-missing column still carries a numeric dtype.
func (t *Table) IsNumericColumn(name string) bool {
	for _, row := range t.Rows {
		v, ok := row[name]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		if !utils.IsNumeric(v) {
			return false
		}
	}
	return true
}

// NumericColumns returns the numeric columns in declaration order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.Columns {
		if t.IsNumericColumn(c) {
			out = append(out, c)
		}
	}
	return out
}
