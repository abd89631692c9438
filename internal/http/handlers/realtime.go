package handlers

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/premdoors/qc-tracker/internal/jobs"
)

// RealtimeHandler streams change notifications over SSE. Events carry no
// payload beyond their name: the contract is "something changed, re-fetch",
// which keeps every viewer converging on committed state.
type RealtimeHandler struct {
	Cache *jobs.Cache
	Log   *slog.Logger
}

func NewRealtimeHandler(cache *jobs.Cache, log *slog.Logger) *RealtimeHandler {
	return &RealtimeHandler{Cache: cache, Log: log}
}

func (h *RealtimeHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ch, cancel := h.Cache.Watch()
	defer cancel()

	h.Log.Info("sse stream open", "remote", c.ClientIP())
	defer h.Log.Info("sse stream closed", "remote", c.ClientIP())

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-ch:
			c.SSEvent("jobs-changed", gin.H{"at": time.Now().UTC()})
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}
