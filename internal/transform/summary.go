package transform

import (
	"fmt"
	"sort"

	"go-viz-pipeline/internal/dataset"
	"go-viz-pipeline/internal/model"
	"go-viz-pipeline/pkg/utils"
)

const topValueLimit = 5

// Summarize produces the statistical summary reviewers and explanations work
// from. Numeric columns get min/max/mean (nil when all values are missing);
// text columns get a unique count and their most frequent values. The active
// visualization spec, when present, is echoed verbatim.
func (a *Applier) Summarize(t *dataset.Table, instructions model.Instructions) model.DataSummary {
	summary := model.DataSummary{
		RowCount:    len(t.Rows),
		ColumnCount: len(t.Columns),
		Columns:     append([]string{}, t.Columns...),
	}

	for _, col := range t.Columns {
		if t.IsNumericColumn(col) {
			if summary.NumericSummary == nil {
				summary.NumericSummary = make(map[string]model.NumericStats)
			}
			summary.NumericSummary[col] = numericStats(t, col)
		} else {
			if summary.CategoricalSummary == nil {
				summary.CategoricalSummary = make(map[string]model.CategoricalStats)
			}
			summary.CategoricalSummary[col] = categoricalStats(t, col)
		}
	}

	if !instructions.Visualization.IsZero() {
		viz := instructions.Visualization
		summary.Visualization = &viz
	}
	return summary
}

func numericStats(t *dataset.Table, col string) model.NumericStats {
	var values []float64
	for _, row := range t.Rows {
		if f, ok := utils.ToFloat(row[col]); ok {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return model.NumericStats{}
	}

	minV, maxV, total := values[0], values[0], 0.0
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		total += v
	}
	mean := total / float64(len(values))
	return model.NumericStats{Min: &minV, Max: &maxV, Mean: &mean}
}

func categoricalStats(t *dataset.Table, col string) model.CategoricalStats {
	counts := make(map[string]int)
	for _, row := range t.Rows {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		counts[fmt.Sprint(v)]++
	}

	type valueCount struct {
		value string
		count int
	}
	ranked := make([]valueCount, 0, len(counts))
	for v, c := range counts {
		ranked = append(ranked, valueCount{v, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].value < ranked[j].value
	})

	top := make(map[string]int, topValueLimit)
	for i, vc := range ranked {
		if i == topValueLimit {
			break
		}
		top[vc.value] = vc.count
	}
	return model.CategoricalStats{UniqueValues: len(counts), TopValues: top}
}
