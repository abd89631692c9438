// Package http wires the presentation boundary: REST for the list/detail
// views and SSE for change-feed fan-out. The viewer/supervisor distinction is
// a client display concern, not enforced here.
package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/premdoors/qc-tracker/internal/http/handlers"
)

type RouterConfig struct {
	JobHandler        *httpH.JobHandler
	AttachmentHandler *httpH.AttachmentHandler
	ExportHandler     *httpH.ExportHandler
	RealtimeHandler   *httpH.RealtimeHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.JobHandler != nil {
			api.GET("/jobs", cfg.JobHandler.ListJobs)
			api.POST("/jobs", cfg.JobHandler.CreateJob)
			api.GET("/jobs/:id", cfg.JobHandler.GetJob)
			api.PUT("/jobs/:id/items/:itemID", cfg.JobHandler.UpdateItem)
			api.POST("/jobs/:id/items/:itemID/toggle", cfg.JobHandler.ToggleItem)
			api.POST("/jobs/:id/finalize", cfg.JobHandler.Finalize)
		}

		if cfg.AttachmentHandler != nil {
			api.POST("/jobs/:id/items/:itemID/images", cfg.AttachmentHandler.UploadImage)
			api.DELETE("/jobs/:id/items/:itemID/images/:imageID", cfg.AttachmentHandler.RemoveImage)
			api.POST("/jobs/:id/items/:itemID/images/:imageID/annotate", cfg.AttachmentHandler.AnnotateImage)
		}

		if cfg.ExportHandler != nil {
			api.GET("/export", cfg.ExportHandler.ExportXLSX)
		}

		if cfg.RealtimeHandler != nil {
			api.GET("/jobs/stream", cfg.RealtimeHandler.Stream)
		}
	}

	return r
}
