package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"go-viz-pipeline/internal/api"
	"go-viz-pipeline/internal/api/handler"
	"go-viz-pipeline/internal/config"
	"go-viz-pipeline/internal/interpreter"
	"go-viz-pipeline/internal/knowledge"
	"go-viz-pipeline/internal/pipeline"
	"go-viz-pipeline/internal/render"
	"go-viz-pipeline/internal/review"
	"go-viz-pipeline/internal/schema"
	"go-viz-pipeline/internal/store"
	"go-viz-pipeline/internal/transform"
	"go-viz-pipeline/pkg/router"
	"go-viz-pipeline/pkg/utils"
)

// @title Data Visualization Pipeline API
// @version 1.0
// @description Upload tabular data, describe a visualization in free text and receive a rendered chart plus an automated quality review.
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	runs, err := store.OpenRunStore(cfg.Storage.RunsDB)
	if err != nil {
		logger.Fatal("failed to open run store", zap.Error(err))
	}
	defer runs.Close()

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
		runs,
		logger,
	)

	uploads := utils.NewUploadManager(cfg.Storage.UploadDir)
	h := handler.New(orchestrator, resolver, runs, uploads, logger)

	r := router.New()
	api.RegisterRoutes(r, h)

	logger.Info("starting server", zap.String("addr", cfg.Server.Addr))
	if err := r.Start(cfg.Server.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
