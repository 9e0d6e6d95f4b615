// insight runs the pipeline once from the command line: process a dataset
// against free-text requirements and write the standalone chart document.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"go-viz-pipeline/internal/config"
	"go-viz-pipeline/internal/interpreter"
	"go-viz-pipeline/internal/knowledge"
	"go-viz-pipeline/internal/pipeline"
	"go-viz-pipeline/internal/render"
	"go-viz-pipeline/internal/review"
	"go-viz-pipeline/internal/schema"
	"go-viz-pipeline/internal/transform"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "dataset file to process (csv, xls, xlsx)")
	requirements := flag.String("requirements", "", "free-text visualization requirements")
	outPath := flag.String("out", "visualization.html", "output HTML file")
	flag.Parse()

	if *filePath == "" || *requirements == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	interp := interpreter.NewClient(interpreter.Config{
		BaseURL: cfg.Interpreter.BaseURL,
		Model:   cfg.Interpreter.Model,
		Timeout: cfg.InterpreterTimeout(),
	}, logger)

	knowledgeStore := knowledge.NewStore(cfg.Storage.KnowledgeFile, logger)
	resolver := schema.NewResolver(knowledgeStore, interp, logger)
	orchestrator := pipeline.NewOrchestrator(
		resolver,
		interp,
		transform.NewApplier(logger),
		render.New(),
		review.NewReviewer(),
		pipeline.NewResultStore(cfg.Storage.VisualizationsDir, logger),
		nil,
		logger,
	)

	result, err := orchestrator.ProcessRequest(context.Background(), *filePath, *requirements)
	if err != nil {
		logger.Fatal("pipeline failed", zap.Error(err))
	}

	doc := orchestrator.DownloadableArtifact(result.VizID)
	if err := os.WriteFile(*outPath, []byte(doc), 0644); err != nil {
		logger.Fatal("failed to write output", zap.String("path", *outPath), zap.Error(err))
	}

	fmt.Printf("visualization %s written to %s (quality score %.1f, %d issues)\n",
		result.VizID, *outPath, result.QualityScore, len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Printf("  [%s] %s\n", issue.Severity, issue.Message)
	}
}
