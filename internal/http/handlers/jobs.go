package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/premdoors/qc-tracker/constants"
	"github.com/premdoors/qc-tracker/internal/entity"
	"github.com/premdoors/qc-tracker/internal/jobs"
)

type JobHandler struct {
	Svc   *jobs.Service
	Cache *jobs.Cache
	Log   *slog.Logger
}

func NewJobHandler(svc *jobs.Service, cache *jobs.Cache, log *slog.Logger) *JobHandler {
	return &JobHandler{Svc: svc, Cache: cache, Log: log}
}

// ListJobs serves the list view from the cache snapshot. Until the first
// listJobs completes the collection is unavailable, not empty.
func (h *JobHandler) ListJobs(c *gin.Context) {
	if !h.Cache.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"loading": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": h.Cache.Search(c.Query("search"))})
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req struct {
		JobNumber string `json:"jobNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	job, err := h.Svc.CreateJob(c.Request.Context(), req.JobNumber)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.Svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// UpdateItem replaces one checklist entry with the posted state.
func (h *JobHandler) UpdateItem(c *gin.Context) {
	var item entity.ChecklistItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item.ID = c.Param("itemID")

	job, err := h.Svc.UpdateItem(c.Request.Context(), c.Param("id"), item, actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ToggleItem applies pass/fail with unselect semantics.
func (h *JobHandler) ToggleItem(c *gin.Context) {
	var req struct {
		Status constants.ChecklistStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	job, err := h.Svc.ToggleItemStatus(c.Request.Context(), c.Param("id"), c.Param("itemID"), req.Status, actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Finalize recomputes and commits the overall status.
func (h *JobHandler) Finalize(c *gin.Context) {
	job, err := h.Svc.Finalize(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
