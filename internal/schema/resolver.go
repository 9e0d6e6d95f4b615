// Package schema resolves full column-to-label mappings for a dataset by
// combining knowledge-store lookups with interpreter calls for columns the
// store has no real opinion on.
package schema

import (
	"context"

	"go.uber.org/zap"

	"go-viz-pipeline/internal/dataset"
	"go-viz-pipeline/internal/knowledge"
	"go-viz-pipeline/pkg/utils"
)

// ColumnMapper is the slice of the interpreter contract the resolver needs.
type ColumnMapper interface {
	MapColumns(ctx context.Context, columns []string) (map[string]string, error)
}

// Resolver produces business labels for technical column names and feeds
// accepted interpreter results back into the knowledge store as evidence.
type Resolver struct {
	store  *knowledge.Store
	mapper ColumnMapper
	log    *zap.Logger
}

func NewResolver(store *knowledge.Store, mapper ColumnMapper, log *zap.Logger) *Resolver {
	return &Resolver{store: store, mapper: mapper, log: log}
}

// ResolveSchema returns a label for every column. Columns whose stored label
// is just the humanized fallback are sent to the interpreter in one batch;
// returned pairs overwrite the fallback and are merged into the store.
// Columns the interpreter fails to cover keep their fallback label.
func (r *Resolver) ResolveSchema(ctx context.Context, columns []string) map[string]string {
	resolved := make(map[string]string, len(columns))
	var unresolved []string
	for _, col := range columns {
		label := r.store.Lookup(col)
		resolved[col] = label
		if label == utils.HumanizeColumn(col) {
			unresolved = append(unresolved, col)
		}
	}

	if len(unresolved) == 0 {
		return resolved
	}

	mapped, err := r.mapper.MapColumns(ctx, unresolved)
	if err != nil {
		r.log.Warn("schema mapping service unavailable, keeping fallback labels",
			zap.Int("unresolved", len(unresolved)), zap.Error(err))
		return resolved
	}

	for col, label := range mapped {
		if _, known := resolved[col]; known && label != "" {
			resolved[col] = label
		}
	}
	r.store.MergeAll(mapped)

	return resolved
}

// SampleRows projects the first n rows of a table column-major, for giving
// the interpreter context about the data.
func (r *Resolver) SampleRows(t *dataset.Table, n int) map[string][]interface{} {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	sample := make(map[string][]interface{}, len(t.Columns))
	for _, col := range t.Columns {
		values := make([]interface{}, 0, n)
		for _, row := range t.Rows[:n] {
			values = append(values, row[col])
		}
		sample[col] = values
	}
	return sample
}

// Feedback forwards user feedback on a mapping to the knowledge store.
func (r *Resolver) Feedback(technical, business string, positive bool) {
	r.store.Feedback(technical, business, positive)
}
