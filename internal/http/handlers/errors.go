package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/premdoors/qc-tracker/internal/common"
)

// writeError maps core sentinel errors onto HTTP responses. Store failures
// never leak internals; the client just learns the save did not happen.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrDuplicateJobNumber):
		c.JSON(http.StatusConflict, gin.H{"error": "a job with this number already exists"})
	case errors.Is(err, common.ErrItemNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "checklist item not found"})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrAnnotationDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "annotation is not configured"})
	case errors.Is(err, common.ErrAnnotationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not analyze the image"})
	case errors.Is(err, common.ErrAttachmentStore):
		c.JSON(http.StatusBadGateway, gin.H{"error": "image storage failure"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save"})
	}
}

// actor returns the acting user's identifier. Identity is supplied by the
// caller; this is a display attribution, not a security boundary.
func actor(c *gin.Context) string {
	return c.GetHeader("X-Actor")
}
