package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premdoors/qc-tracker/constants"
	"github.com/premdoors/qc-tracker/internal/annotate"
	"github.com/premdoors/qc-tracker/internal/attachments"
	"github.com/premdoors/qc-tracker/internal/blob"
	"github.com/premdoors/qc-tracker/internal/checklist"
	"github.com/premdoors/qc-tracker/internal/entity"
	"github.com/premdoors/qc-tracker/internal/feed"
	"github.com/premdoors/qc-tracker/internal/jobs"
	"github.com/premdoors/qc-tracker/internal/repository"
)

type attachmentsFixture struct {
	router *gin.Engine
	svc    *jobs.Service
	store  *blob.MemoryStore
	jobID  string
}

func newAttachmentsFixture(t *testing.T) *attachmentsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tpl, err := checklist.Load()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := jobs.NewService(repository.NewMemoryJobRepository(), feed.NewMemoryFeed(), tpl, logger)
	store := blob.NewMemoryStore(constants.AttachmentsBucket)
	mgr := attachments.NewManager(store, svc, annotate.Disabled{}, logger)

	job, err := svc.CreateJob(context.Background(), "BIFOLD-100")
	require.NoError(t, err)

	h := NewAttachmentHandler(mgr, logger)
	r := gin.New()
	r.POST("/api/jobs/:id/items/:itemID/images", h.UploadImage)
	r.DELETE("/api/jobs/:id/items/:itemID/images/:imageID", h.RemoveImage)

	return &attachmentsFixture{router: r, svc: svc, store: store, jobID: job.ID}
}

func (f *attachmentsFixture) upload(t *testing.T, itemID, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+f.jobID+"/items/"+itemID+"/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestUploadImageEndpoint(t *testing.T) {
	f := newAttachmentsFixture(t)

	w := f.upload(t, "colour", "door.jpg", []byte("jpeg-bytes"))
	require.Equal(t, http.StatusCreated, w.Code)

	var img entity.ChecklistItemImage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &img))
	assert.NotEmpty(t, img.ID)

	path, err := f.store.ParsePath(img.URL)
	require.NoError(t, err)
	data, ok := f.store.Get(path)
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	job, err := f.svc.GetJob(context.Background(), f.jobID)
	require.NoError(t, err)
	require.Len(t, job.Item("colour").Images, 1)
}

func TestUploadImageMissingFile(t *testing.T) {
	f := newAttachmentsFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+f.jobID+"/items/colour/images", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImageUnknownItem(t *testing.T) {
	f := newAttachmentsFixture(t)

	w := f.upload(t, "no-such-item", "door.jpg", []byte("x"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRemoveImageEndpoint(t *testing.T) {
	f := newAttachmentsFixture(t)

	w := f.upload(t, "colour", "door.jpg", []byte("jpeg-bytes"))
	require.Equal(t, http.StatusCreated, w.Code)
	var img entity.ChecklistItemImage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &img))

	target := "/api/jobs/" + f.jobID + "/items/colour/images/" + img.ID + "?url=" + url.QueryEscape(img.URL)
	req := httptest.NewRequest(http.MethodDelete, target, nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	job, err := f.svc.GetJob(context.Background(), f.jobID)
	require.NoError(t, err)
	assert.Empty(t, job.Item("colour").Images)

	// missing url query is a bad request, not a silent no-op
	req = httptest.NewRequest(http.MethodDelete, "/api/jobs/"+f.jobID+"/items/colour/images/"+img.ID, nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
