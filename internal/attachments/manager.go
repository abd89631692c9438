// Package attachments manages the lifecycle of inspection photos: binary
// blobs in the object store on one side, image references inside the job
// record on the other. The two stores are not transactionally coupled; a
// crash between them leaves an orphan, which is logged rather than prevented.
package attachments

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/premdoors/qc-tracker/internal/annotate"
	"github.com/premdoors/qc-tracker/internal/blob"
	"github.com/premdoors/qc-tracker/internal/common"
	"github.com/premdoors/qc-tracker/internal/entity"
	"github.com/premdoors/qc-tracker/internal/jobs"
)

// Manager uploads and removes image attachments keyed by (job, checklist
// item), keeping each item's image list consistent with the object store.
type Manager struct {
	store     blob.Store
	jobs      *jobs.Service
	annotator annotate.Provider
	httpc     *http.Client
	logger    *slog.Logger
	now       func() time.Time
}

// NewManager creates an attachment manager. The annotation provider may be
// annotate.Disabled{} when unconfigured.
func NewManager(store blob.Store, jobSvc *jobs.Service, annotator annotate.Provider, logger *slog.Logger) *Manager {
	return &Manager{
		store:     store,
		jobs:      jobSvc,
		annotator: annotator,
		httpc:     &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
		now:       time.Now,
	}
}

// AddImage uploads the bytes under {jobID}/{itemID}/{generated-filename},
// then appends the image record to the item's list. Upload failure leaves the
// item untouched. A record-update failure after a successful upload leaves an
// orphaned blob; that is logged loudly and surfaced to the caller.
func (m *Manager) AddImage(ctx context.Context, jobID, itemID, filename string, data []byte, contentType, actor string) (*entity.ChecklistItemImage, error) {
	job, err := m.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	item := job.Item(itemID)
	if item == nil {
		return nil, common.ErrItemNotFound
	}

	ext := strings.ToLower(filepath.Ext(filename))
	path := fmt.Sprintf("%s/%s/%d%s", jobID, itemID, m.now().UnixMilli(), ext)

	if err := m.store.Upload(ctx, path, data, contentType); err != nil {
		m.logger.Error("image upload failed", "job_id", jobID, "item_id", itemID, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrAttachmentStore, err)
	}

	img := entity.ChecklistItemImage{
		ID:  "img-" + uuid.New().String(),
		URL: m.store.PublicURL(path),
	}
	item.Images = append(item.Images, img)

	if _, err := m.jobs.UpdateItem(ctx, jobID, *item, actor); err != nil {
		m.logger.Warn("orphaned blob: uploaded but not referenced",
			"job_id", jobID, "item_id", itemID, "path", path, "error", err)
		return nil, err
	}

	m.logger.Info("image added", "job_id", jobID, "item_id", itemID, "image_id", img.ID, "path", path)
	return &img, nil
}

// RemoveImage deletes the blob behind the given URL and, only on success,
// drops the matching entry from the item's image list. A URL that cannot be
// mapped back to a storage path fails explicitly.
func (m *Manager) RemoveImage(ctx context.Context, jobID, itemID, imageID, url, actor string) error {
	path, err := m.store.ParsePath(url)
	if err != nil {
		return err
	}

	job, err := m.jobs.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	item := job.Item(itemID)
	if item == nil {
		return common.ErrItemNotFound
	}

	found := false
	kept := item.Images[:0]
	for _, img := range item.Images {
		if img.ID == imageID {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return common.ErrNotFound
	}

	if err := m.store.Delete(ctx, path); err != nil {
		m.logger.Error("image delete failed", "job_id", jobID, "item_id", itemID, "path", path, "error", err)
		return fmt.Errorf("%w: %v", common.ErrAttachmentStore, err)
	}

	item.Images = kept
	if _, err := m.jobs.UpdateItem(ctx, jobID, *item, actor); err != nil {
		m.logger.Warn("orphaned reference: blob deleted but still referenced",
			"job_id", jobID, "item_id", itemID, "image_id", imageID, "error", err)
		return err
	}

	m.logger.Info("image removed", "job_id", jobID, "item_id", itemID, "image_id", imageID)
	return nil
}

// Annotate fetches the stored image, asks the annotation provider to describe
// it against the checklist item's name, and writes the result into the item's
// comment. Failures never touch job state.
func (m *Manager) Annotate(ctx context.Context, jobID, itemID, imageID, actor string) (*entity.Job, error) {
	job, err := m.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	item := job.Item(itemID)
	if item == nil {
		return nil, common.ErrItemNotFound
	}

	var url string
	for _, img := range item.Images {
		if img.ID == imageID {
			url = img.URL
			break
		}
	}
	if url == "" {
		return nil, common.ErrNotFound
	}

	data, contentType, err := m.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAnnotationFailed, err)
	}

	text, err := m.annotator.Describe(ctx, data, contentType, item.Name)
	if err != nil {
		return nil, err
	}

	return m.jobs.SetItemComment(ctx, jobID, itemID, text, actor)
}

func (m *Manager) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := m.httpc.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}
