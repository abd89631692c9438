package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/premdoors/qc-tracker/internal/attachments"
)

const maxImageBytes = 16 << 20

type AttachmentHandler struct {
	Mgr *attachments.Manager
	Log *slog.Logger
}

func NewAttachmentHandler(mgr *attachments.Manager, log *slog.Logger) *AttachmentHandler {
	return &AttachmentHandler{Mgr: mgr, Log: log}
}

// UploadImage accepts a multipart "file" part and attaches it to the item.
func (h *AttachmentHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart file field is required"})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}

	img, err := h.Mgr.AddImage(c.Request.Context(),
		c.Param("id"), c.Param("itemID"),
		fileHeader.Filename, data,
		fileHeader.Header.Get("Content-Type"), actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

// RemoveImage deletes the blob named by the url query and drops the
// reference from the item.
func (h *AttachmentHandler) RemoveImage(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	err := h.Mgr.RemoveImage(c.Request.Context(),
		c.Param("id"), c.Param("itemID"), c.Param("imageID"), url, actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AnnotateImage asks the annotation provider to describe the image and
// writes the suggestion into the item's comment.
func (h *AttachmentHandler) AnnotateImage(c *gin.Context) {
	job, err := h.Mgr.Annotate(c.Request.Context(),
		c.Param("id"), c.Param("itemID"), c.Param("imageID"), actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
