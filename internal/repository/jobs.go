// Package repository is the persistence boundary for the job collection. It
// is polymorphic over any store exposing row CRUD: postgres for multi-site
// deployments, sqlite for single-site and batch tooling, and an in-memory
// implementation for tests.
package repository

import (
	"context"

	"github.com/premdoors/qc-tracker/internal/entity"
)

// JobRepository is the row CRUD contract over the jobs relation. Writes are
// whole-record and last-write-wins; the change feed is the only cross-client
// reconciliation mechanism.
type JobRepository interface {
	// ListJobs returns every job ordered by last_updated descending. It is
	// the sole source of truth loaded into memory; there is no partial fetch.
	ListJobs(ctx context.Context) ([]entity.Job, error)

	// GetJob returns the job with the given id, or common.ErrNotFound.
	GetJob(ctx context.Context, id string) (*entity.Job, error)

	// JobNumberExists reports whether a job with this exact job number is
	// already persisted. Matching is case-sensitive.
	JobNumberExists(ctx context.Context, jobNumber string) (bool, error)

	// CreateJob assigns a fresh id, persists the job and returns the stored
	// value. A job number collision returns common.ErrDuplicateJobNumber and
	// persists nothing.
	CreateJob(ctx context.Context, job *entity.Job) (*entity.Job, error)

	// UpdateJob persists the given full job state keyed by id. There is no
	// version check; concurrent writers race and the last write lands.
	UpdateJob(ctx context.Context, job *entity.Job) error
}
