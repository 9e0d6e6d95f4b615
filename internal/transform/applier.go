// Package transform deterministically executes structured instructions
// (filters, group-by, aggregation) against an in-memory table and produces
// a statistical summary of the outcome.
package transform

import (
	"go.uber.org/zap"

	"go-viz-pipeline/internal/dataset"
	"go-viz-pipeline/internal/model"
)

// StepResult records whether one instruction step was applied or skipped.
// Malformed steps are never fatal; they surface here and in the logs.
type StepResult struct {
	Step    string `json:"step"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

// Applier executes validated instructions against tables.
type Applier struct {
	log *zap.Logger
}

func NewApplier(log *zap.Logger) *Applier {
	return &Applier{log: log}
}

// Apply runs filters then grouping/aggregation against a copy of the table.
// Each step yields a StepResult; skipped steps leave the running table
// untouched and later steps still apply to the best-effort result.
func (a *Applier) Apply(t *dataset.Table, instructions model.Instructions) (*dataset.Table, []StepResult) {
	out := t.Copy()
	var steps []StepResult

	out, filterSteps := a.applyFilters(out, instructions.Filters)
	steps = append(steps, filterSteps...)

	if len(instructions.GroupBy) > 0 {
		grouped, step := a.applyGrouping(out, instructions)
		steps = append(steps, step)
		out = grouped
	}

	for _, s := range steps {
		if !s.Applied {
			a.log.Warn("instruction step skipped",
				zap.String("step", s.Step), zap.String("reason", s.Reason))
		}
	}
	return out, steps
}
