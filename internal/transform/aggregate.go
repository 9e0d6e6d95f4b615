package transform

import (
	"fmt"
	"sort"
	"strings"

	"go-viz-pipeline/internal/dataset"
	"go-viz-pipeline/internal/model"
	"go-viz-pipeline/pkg/utils"
)

const groupKeySep = "\x1f"

var methodAliases = map[string]string{
	"sum":     "sum",
	"mean":    "mean",
	"avg":     "mean",
	"average": "mean",
	"count":   "count",
	"min":     "min",
	"max":     "max",
}

// applyGrouping reduces the table to one row per distinct group-by tuple.
// Any failure (bad column, no usable target, unknown method) skips the step
// and returns the filtered table unmodified.
func (a *Applier) applyGrouping(t *dataset.Table, instructions model.Instructions) (*dataset.Table, StepResult) {
	step := StepResult{Step: "aggregation"}
	groupBy := instructions.GroupBy

	for _, col := range groupBy {
		if !t.HasColumn(col) {
			step.Reason = fmt.Sprintf("group-by column %q not in table", col)
			return t, step
		}
	}

	method, known := methodAliases[strings.ToLower(instructions.Aggregation.Method)]
	if !known {
		step.Reason = fmt.Sprintf("unknown aggregation method %q", instructions.Aggregation.Method)
		return t, step
	}

	target := instructions.Aggregation.Column
	if method != "count" {
		if target == "" {
			target = firstNumericTarget(t, groupBy)
			if target == "" {
				step.Reason = "no numeric column available to aggregate"
				return t, step
			}
		}
		if !t.HasColumn(target) {
			step.Reason = fmt.Sprintf("aggregation column %q not in table", target)
			return t, step
		}
	}

	groups, order := groupRows(t, groupBy)

	var columns []string
	rows := make([]model.GenericRecord, 0, len(order))

	if method == "count" {
		columns = append(append([]string{}, groupBy...), "count")
		for _, key := range order {
			g := groups[key]
			row := groupKeyRecord(g.first, groupBy)
			row["count"] = len(g.rows)
			rows = append(rows, row)
		}
	} else {
		// The aggregate column is always renamed "{method}_{target}"; this is
		// the one deterministic rule regardless of what name the reduction
		// would otherwise produce.
		resultCol := fmt.Sprintf("%s_%s", method, target)
		columns = append(append([]string{}, groupBy...), resultCol)
		for _, key := range order {
			g := groups[key]
			row := groupKeyRecord(g.first, groupBy)
			row[resultCol] = reduce(method, g.rows, target)
			rows = append(rows, row)
		}
	}

	step.Applied = true
	return dataset.NewTable(columns, rows), step
}

type group struct {
	first model.GenericRecord
	rows  []model.GenericRecord
}

// groupRows buckets rows by their group-by tuple and returns the bucket keys
// sorted ascending, so output order is deterministic.
func groupRows(t *dataset.Table, groupBy []string) (map[string]*group, []string) {
	groups := make(map[string]*group)
	var order []string
	for _, row := range t.Rows {
		parts := make([]string, len(groupBy))
		for i, col := range groupBy {
			parts[i] = fmt.Sprint(row[col])
		}
		key := strings.Join(parts, groupKeySep)
		g, ok := groups[key]
		if !ok {
			g = &group{first: row}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}
	sort.Strings(order)
	return groups, order
}

func groupKeyRecord(first model.GenericRecord, groupBy []string) model.GenericRecord {
	row := make(model.GenericRecord, len(groupBy)+1)
	for _, col := range groupBy {
		row[col] = first[col]
	}
	return row
}

// reduce aggregates the target column over a group's rows. Non-numeric and
// missing values are ignored; a group with no usable values yields nil.
func reduce(method string, rows []model.GenericRecord, target string) interface{} {
	var values []float64
	for _, row := range rows {
		if f, ok := utils.ToFloat(row[target]); ok {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return nil
	}

	switch method {
	case "sum":
		return sum(values)
	case "mean":
		return sum(values) / float64(len(values))
	case "min":
		out := values[0]
		for _, v := range values[1:] {
			if v < out {
				out = v
			}
		}
		return out
	case "max":
		out := values[0]
		for _, v := range values[1:] {
			if v > out {
				out = v
			}
		}
		return out
	default:
		return nil
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// firstNumericTarget picks the first numeric column not used for grouping.
func firstNumericTarget(t *dataset.Table, groupBy []string) string {
	grouped := make(map[string]bool, len(groupBy))
	for _, col := range groupBy {
		grouped[col] = true
	}
	for _, col := range t.NumericColumns() {
		if !grouped[col] {
			return col
		}
	}
	return ""
}
