// Package pipeline sequences schema resolution, instruction interpretation,
// data transformation, chart rendering and quality review into one request
// flow, and owns the durable result store.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-viz-pipeline/internal/dataset"
	"go-viz-pipeline/internal/interpreter"
	"go-viz-pipeline/internal/model"
	"go-viz-pipeline/internal/render"
	"go-viz-pipeline/internal/review"
	"go-viz-pipeline/internal/schema"
	"go-viz-pipeline/internal/store"
	"go-viz-pipeline/internal/transform"
)

const sampleSize = 5

// FileInfo is the answer to an upload: the resolved schema plus a sample.
type FileInfo struct {
	FilePath       string                   `json:"file_path"`
	SchemaMappings map[string]string        `json:"schema_mappings"`
	SampleData     map[string][]interface{} `json:"sample_data"`
}

// RequestResult is the user-facing subset of a stored PipelineResult.
type RequestResult struct {
	VizID             string        `json:"viz_id"`
	VisualizationHTML string        `json:"visualization_html"`
	Explanation       string        `json:"explanation"`
	Issues            []model.Issue `json:"issues"`
	QualityScore      float64       `json:"quality_score"`
}

// Orchestrator runs the full processing pipeline. Every external call is
// blocking and synchronous with no retry; an unrecoverable stage failure
// aborts the request and stores no partial result.
type Orchestrator struct {
	resolver *schema.Resolver
	interp   interpreter.Client
	applier  *transform.Applier
	renderer *render.Renderer
	reviewer *review.Reviewer
	results  *ResultStore
	runs     *store.RunStore // optional run history, may be nil
	log      *zap.Logger
}

func NewOrchestrator(
	resolver *schema.Resolver,
	interp interpreter.Client,
	applier *transform.Applier,
	renderer *render.Renderer,
	reviewer *review.Reviewer,
	results *ResultStore,
	runs *store.RunStore,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		interp:   interp,
		applier:  applier,
		renderer: renderer,
		reviewer: reviewer,
		results:  results,
		runs:     runs,
		log:      log,
	}
}

// ProcessFile resolves the schema and samples the data for an uploaded file.
// Pure query: nothing is written to the result store.
func (o *Orchestrator) ProcessFile(ctx context.Context, filePath string) (*FileInfo, error) {
	table, err := dataset.Read(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	mappings := o.resolver.ResolveSchema(ctx, table.Columns)
	sample := o.resolver.SampleRows(table, sampleSize)

	return &FileInfo{
		FilePath:       filePath,
		SchemaMappings: mappings,
		SampleData:     sample,
	}, nil
}

// ProcessRequest runs the full pipeline for one file and requirement text.
// On success the full PipelineResult is stored under a fresh identifier and
// the user-facing subset is returned. Any stage error aborts the remaining
// stages; nothing partial is stored.
func (o *Orchestrator) ProcessRequest(ctx context.Context, filePath, requirements string) (*RequestResult, error) {
	runID := uuid.New().String()
	o.trackNew(runID, filePath, requirements)

	result, err := o.run(ctx, runID, filePath, requirements)
	if err != nil {
		o.log.Error("pipeline aborted",
			zap.String("run_id", runID), zap.String("file", filePath), zap.Error(err))
		o.trackFailure(runID, err)
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, runID, filePath, requirements string) (*RequestResult, error) {
	table, err := dataset.Read(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	mappings := o.resolver.ResolveSchema(ctx, table.Columns)
	sample := o.resolver.SampleRows(table, sampleSize)
	o.trackStatus(runID, store.StatusSchemaResolved)

	instructions, err := o.interp.InterpretRequirements(ctx, requirements, mappings, sample)
	if err != nil {
		return nil, fmt.Errorf("failed to interpret requirements: %w", err)
	}

	transformed, steps := o.applier.Apply(table, instructions)
	for _, step := range steps {
		if !step.Applied {
			o.log.Info("instruction step skipped",
				zap.String("run_id", runID),
				zap.String("step", step.Step),
				zap.String("reason", step.Reason))
		}
	}
	summary := o.applier.Summarize(transformed, instructions)
	o.trackStatus(runID, store.StatusDataTransformed)

	chartHTML := o.renderer.Render(transformed, instructions.Visualization)
	o.trackStatus(runID, store.StatusRendered)

	explanation, err := o.interp.Explain(ctx, summary, instructions.Visualization)
	if err != nil {
		return nil, fmt.Errorf("failed to generate explanation: %w", err)
	}

	issues, score := o.reviewer.Review(requirements, instructions.Visualization, summary)
	o.trackStatus(runID, store.StatusReviewed)

	full := &model.PipelineResult{
		VizID:             uuid.New().String(),
		VisualizationHTML: chartHTML,
		Explanation:       explanation,
		Issues:            issues,
		QualityScore:      score,
		Columns:           transformed.Columns,
		Data:              transformed.Rows,
		Requirements:      requirements,
		SchemaMappings:    mappings,
		Visualization:     instructions.Visualization,
	}
	o.results.Put(full)
	o.trackStored(runID, score)

	return &RequestResult{
		VizID:             full.VizID,
		VisualizationHTML: full.VisualizationHTML,
		Explanation:       full.Explanation,
		Issues:            full.Issues,
		QualityScore:      full.QualityScore,
	}, nil
}

// GetResult retrieves a stored result, re-hydrated from disk when absent
// from memory. An unknown identifier yields ErrNotFound.
func (o *Orchestrator) GetResult(vizID string) (*model.PipelineResult, error) {
	return o.results.Get(vizID)
}

// DownloadableArtifact wraps a stored result into a standalone HTML page.
// An unknown identifier yields a minimal error document, never an error.
func (o *Orchestrator) DownloadableArtifact(vizID string) string {
	result, err := o.results.Get(vizID)
	if err != nil {
		return o.renderer.ErrorDocument(err.Error())
	}
	return o.renderer.Document(result.Visualization.Title, result.VisualizationHTML, result.Explanation)
}

// Run tracking is best-effort: the history store may be absent and write
// failures are logged, never surfaced.

func (o *Orchestrator) trackNew(runID, filePath, requirements string) {
	if o.runs == nil {
		return
	}
	if err := o.runs.SaveRun(runID, filePath, requirements); err != nil {
		o.log.Warn("failed to record run", zap.String("run_id", runID), zap.Error(err))
	}
}

func (o *Orchestrator) trackStatus(runID, status string) {
	if o.runs == nil {
		return
	}
	if err := o.runs.UpdateStatus(runID, status); err != nil {
		o.log.Warn("failed to update run status", zap.String("run_id", runID), zap.Error(err))
	}
}

func (o *Orchestrator) trackStored(runID string, score float64) {
	if o.runs == nil {
		return
	}
	if err := o.runs.SetScore(runID, score); err != nil {
		o.log.Warn("failed to record run score", zap.String("run_id", runID), zap.Error(err))
	}
	o.trackStatus(runID, store.StatusStored)
}

func (o *Orchestrator) trackFailure(runID string, runErr error) {
	if o.runs == nil {
		return
	}
	o.trackStatus(runID, store.StatusFailed)
	if err := o.runs.SaveError(runID, runErr); err != nil {
		o.log.Warn("failed to record run error", zap.String("run_id", runID), zap.Error(err))
	}
}
