package transform

import (
	"fmt"
	"strings"

	"go-viz-pipeline/internal/dataset"
	"go-viz-pipeline/internal/model"
	"go-viz-pipeline/pkg/utils"
)

// canonical filter operators; wire forms from the interpreter are normalized
// into these before evaluation.
const (
	opEq       = "eq"
	opNe       = "ne"
	opGt       = "gt"
	opGe       = "ge"
	opLt       = "lt"
	opLe       = "le"
	opIn       = "isIn"
	opContains = "contains"
)

var operatorAliases = map[string]string{
	"==": opEq, "eq": opEq, "=": opEq,
	"!=": opNe, "ne": opNe, "<>": opNe,
	">": opGt, "gt": opGt,
	">=": opGe, "ge": opGe,
	"<": opLt, "lt": opLt,
	"<=": opLe, "le": opLe,
	"in": opIn, "isin": opIn,
	"contains": opContains,
}

// applyFilters applies each filter in order against a running copy of the
// table. A malformed filter is skipped with a reason, never fatal.
func (a *Applier) applyFilters(t *dataset.Table, filters []model.FilterSpec) (*dataset.Table, []StepResult) {
	out := t
	steps := make([]StepResult, 0, len(filters))

	for _, f := range filters {
		step := StepResult{Step: fmt.Sprintf("filter %s %s", f.Column, f.Operation)}

		op, known := operatorAliases[strings.ToLower(strings.TrimSpace(f.Operation))]
		switch {
		case f.Column == "" || f.Operation == "":
			step.Reason = "missing column or operator"
		case !known:
			step.Reason = fmt.Sprintf("unknown operator %q", f.Operation)
		case !out.HasColumn(f.Column):
			step.Reason = fmt.Sprintf("column %q not in table", f.Column)
		case op == opIn && !isSequence(f.Value):
			step.Reason = "isIn value is not a sequence"
		default:
			out = filterRows(out, f.Column, op, f.Value)
			step.Applied = true
		}
		steps = append(steps, step)
	}
	return out, steps
}

func filterRows(t *dataset.Table, column, op string, value interface{}) *dataset.Table {
	kept := make([]model.GenericRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		cell, present := row[column]
		if !present {
			continue
		}
		if matchCell(cell, op, value) {
			kept = append(kept, row)
		}
	}
	return dataset.NewTable(t.Columns, kept)
}

// matchCell evaluates one cell against the filter. Rows whose cell cannot be
// compared under the operator are excluded rather than raising.
func matchCell(cell interface{}, op string, value interface{}) bool {
	switch op {
	case opEq:
		return equalValues(cell, value)
	case opNe:
		return !equalValues(cell, value)
	case opGt, opGe, opLt, opLe:
		cmp, ok := compareValues(cell, value)
		if !ok {
			return false
		}
		switch op {
		case opGt:
			return cmp > 0
		case opGe:
			return cmp >= 0
		case opLt:
			return cmp < 0
		default:
			return cmp <= 0
		}
	case opIn:
		seq, _ := value.([]interface{})
		for _, member := range seq {
			if equalValues(cell, member) {
				return true
			}
		}
		return false
	case opContains:
		s, isStr := cell.(string)
		return isStr && strings.Contains(s, fmt.Sprint(value))
	default:
		return false
	}
}

// equalValues compares numerically when both sides are numeric, otherwise by
// string form, so 30 (int) equals 30.0 (JSON number).
func equalValues(a, b interface{}) bool {
	af, aok := utils.ToFloat(a)
	bf, bok := utils.ToFloat(b)
	if aok && bok {
		return af == bf
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// compareValues orders two values when a total order exists: numerically for
// two numbers, lexicographically for two strings.
func compareValues(a, b interface{}) (int, bool) {
	af, aok := utils.ToFloat(a)
	bf, bok := utils.ToFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

func isSequence(v interface{}) bool {
	_, ok := v.([]interface{})
	return ok
}
