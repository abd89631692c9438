package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/premdoors/qc-tracker/internal/common"
	"github.com/premdoors/qc-tracker/internal/entity"
)

// MemoryJobRepository is the in-process implementation of the store contract,
// used by tests. It clones on every boundary crossing so callers never hold
// a reference into live state.
type MemoryJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]entity.Job

	// FailWrites makes every mutation fail, for store-unavailable tests.
	FailWrites bool
}

func NewMemoryJobRepository() *MemoryJobRepository {
	return &MemoryJobRepository{jobs: make(map[string]entity.Job)}
}

func (r *MemoryJobRepository) ListJobs(ctx context.Context) ([]entity.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, job.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastUpdated.After(out[j].LastUpdated)
	})
	return out, nil
}

func (r *MemoryJobRepository) GetJob(ctx context.Context, id string) (*entity.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := job.Clone()
	return &clone, nil
}

func (r *MemoryJobRepository) JobNumberExists(ctx context.Context, jobNumber string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, job := range r.jobs {
		if job.JobNumber == jobNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryJobRepository) CreateJob(ctx context.Context, job *entity.Job) (*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWrites {
		return nil, common.ErrStoreUnavailable
	}
	for _, existing := range r.jobs {
		if existing.JobNumber == job.JobNumber {
			return nil, common.ErrDuplicateJobNumber
		}
	}

	stored := job.Clone()
	stored.ID = uuid.New().String()
	r.jobs[stored.ID] = stored.Clone()
	return &stored, nil
}

func (r *MemoryJobRepository) UpdateJob(ctx context.Context, job *entity.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWrites {
		return common.ErrStoreUnavailable
	}
	if _, ok := r.jobs[job.ID]; !ok {
		return common.ErrNotFound
	}
	r.jobs[job.ID] = job.Clone()
	return nil
}
