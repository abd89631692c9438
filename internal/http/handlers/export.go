package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/premdoors/qc-tracker/internal/export"
)

type ExportHandler struct {
	Svc *export.Service
	Log *slog.Logger
}

func NewExportHandler(svc *export.Service, log *slog.Logger) *ExportHandler {
	return &ExportHandler{Svc: svc, Log: log}
}

func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	data, err := h.Svc.ExportJobsXLSX(c.Request.Context())
	if err != nil {
		h.Log.Warn("export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="qc-report.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
