package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-viz-pipeline/docs" // swagger spec registration
	"go-viz-pipeline/internal/api/handler"
	"go-viz-pipeline/pkg/router"
)

// RegisterRoutes wires the HTTP surface onto the router.
func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.POST("/api/v1/upload", h.Upload)
	r.POST("/api/v1/process", h.Process)
	r.POST("/api/v1/feedback", h.Feedback)
	r.GET("/api/v1/runs", h.ListRuns)
	r.GET("/api/v1/visualizations/*", h.GetVisualization)
	r.GET("/api/v1/download/*", h.Download)
	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
