// Package jobs owns the job aggregate's mutation contract and the in-memory
// collection every viewer reads from.
package jobs

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/premdoors/qc-tracker/constants"
	"github.com/premdoors/qc-tracker/internal/checklist"
	"github.com/premdoors/qc-tracker/internal/common"
	"github.com/premdoors/qc-tracker/internal/entity"
	"github.com/premdoors/qc-tracker/internal/feed"
	"github.com/premdoors/qc-tracker/internal/repository"
)

// Service handles job business logic. Every mutation persists the whole job
// record immediately and then publishes a change event; there is no local-only
// edit mode.
type Service struct {
	repo     repository.JobRepository
	feed     feed.Feed
	template *checklist.Template
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new job service.
func NewService(repo repository.JobRepository, fd feed.Feed, template *checklist.Template, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		feed:     fd,
		template: template,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateJob constructs a job with a fresh checklist and persists it. The job
// number must be unique (case-sensitive exact match); a duplicate is rejected
// with common.ErrDuplicateJobNumber and nothing is created.
func (s *Service) CreateJob(ctx context.Context, jobNumber string) (*entity.Job, error) {
	jobNumber = strings.TrimSpace(jobNumber)
	if jobNumber == "" {
		return nil, common.NewAppError("INVALID_JOB_NUMBER", "job number is required", common.ErrInvalidInput)
	}

	exists, err := s.repo.JobNumberExists(ctx, jobNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrDuplicateJobNumber
	}

	job := &entity.Job{
		JobNumber:   jobNumber,
		Status:      constants.JobStatusPending,
		Checklist:   s.template.Generate(),
		LastUpdated: s.now(),
		UpdatedBy:   constants.SystemActor,
	}

	created, err := s.repo.CreateJob(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logger.Info("job created", "job_id", created.ID, "job_number", created.JobNumber)
	s.publish(ctx, feed.Event{Kind: feed.JobCreated, JobID: created.ID})
	return created, nil
}

// GetJob loads a single job from the store.
func (s *Service) GetJob(ctx context.Context, jobID string) (*entity.Job, error) {
	return s.repo.GetJob(ctx, jobID)
}

// UpdateItem replaces one checklist entry and persists the full job record.
// An unknown item id is an invariant violation (common.ErrItemNotFound); it
// is never silently dropped.
func (s *Service) UpdateItem(ctx context.Context, jobID string, item entity.ChecklistItem, actor string) (*entity.Job, error) {
	if !item.Status.Valid() {
		return nil, common.NewAppError("INVALID_STATUS", "unknown checklist status", common.ErrInvalidInput)
	}

	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// Id and optional flag are fixed by the template; an update cannot
	// change them even if the caller tries.
	current := job.Item(item.ID)
	if current == nil {
		return nil, common.ErrItemNotFound
	}
	item.Name = current.Name
	item.IsOptional = current.IsOptional

	if err := job.UpdateItem(item); err != nil {
		return nil, err
	}
	return s.commit(ctx, job, actor)
}

// ToggleItemStatus applies pass/fail with unselect semantics: setting the
// status an item already has clears it back to UNCHECKED.
func (s *Service) ToggleItemStatus(ctx context.Context, jobID, itemID string, status constants.ChecklistStatus, actor string) (*entity.Job, error) {
	if !status.Valid() {
		return nil, common.NewAppError("INVALID_STATUS", "unknown checklist status", common.ErrInvalidInput)
	}

	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	item := job.Item(itemID)
	if item == nil {
		return nil, common.ErrItemNotFound
	}
	if item.Status == status {
		item.Status = constants.ChecklistUnchecked
	} else {
		item.Status = status
	}
	return s.commit(ctx, job, actor)
}

// SetItemComment updates one item's free-text comment.
func (s *Service) SetItemComment(ctx context.Context, jobID, itemID, comment, actor string) (*entity.Job, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	item := job.Item(itemID)
	if item == nil {
		return nil, common.ErrItemNotFound
	}
	item.Comment = comment
	return s.commit(ctx, job, actor)
}

// Finalize recomputes the overall status from the checklist and commits it.
// It runs only on explicit user action, never on item edits.
func (s *Service) Finalize(ctx context.Context, jobID, actor string) (*entity.Job, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	job.Status = checklist.Derive(job.Checklist)
	updated, err := s.commit(ctx, job, actor)
	if err != nil {
		return nil, err
	}

	s.logger.Info("job finalized", "job_id", job.ID, "job_number", job.JobNumber, "status", job.Status)
	return updated, nil
}

// commit stamps the audit fields, writes the whole record and publishes a
// change event. Feed failures are logged, not propagated: the write is
// already committed and listJobs remains authoritative.
func (s *Service) commit(ctx context.Context, job *entity.Job, actor string) (*entity.Job, error) {
	if actor == "" {
		actor = constants.DefaultActor
	}
	job.LastUpdated = s.now()
	job.UpdatedBy = actor

	if err := s.repo.UpdateJob(ctx, job); err != nil {
		return nil, err
	}
	s.publish(ctx, feed.Event{Kind: feed.JobUpdated, JobID: job.ID})
	return job, nil
}

func (s *Service) publish(ctx context.Context, ev feed.Event) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx, ev); err != nil {
		s.logger.Warn("change feed publish failed", "job_id", ev.JobID, "error", err)
	}
}
