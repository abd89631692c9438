package jobs

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/premdoors/qc-tracker/internal/entity"
	"github.com/premdoors/qc-tracker/internal/feed"
	"github.com/premdoors/qc-tracker/internal/repository"
)

// Cache is the read side of the sync layer: an explicit cache with a single
// writer (the feed-driven refresh) handing out snapshot copies. Any change
// event triggers a full re-list; correctness over efficiency.
type Cache struct {
	repo   repository.JobRepository
	logger *slog.Logger

	mu     sync.RWMutex
	jobs   []entity.Job
	loaded bool

	watchMu  sync.Mutex
	watchers map[int]chan struct{}
	nextID   int
}

// NewCache creates an empty cache. It reports Loaded() == false until the
// first successful refresh.
func NewCache(repo repository.JobRepository, logger *slog.Logger) *Cache {
	return &Cache{
		repo:     repo,
		logger:   logger,
		watchers: make(map[int]chan struct{}),
	}
}

// Start performs the initial load and subscribes to the change feed. Refresh
// failures after a change event keep the previous snapshot; the next event
// retries.
func (c *Cache) Start(ctx context.Context, fd feed.Feed) error {
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	return fd.Subscribe(ctx, func(ev feed.Event) {
		c.logger.Debug("change event received", "kind", ev.Kind, "job_id", ev.JobID)
		if err := c.Refresh(ctx); err != nil {
			c.logger.Warn("refresh after change event failed", "error", err)
		}
	})
}

// Refresh re-fetches the full collection and replaces the snapshot wholesale.
func (c *Cache) Refresh(ctx context.Context) error {
	jobs, err := c.repo.ListJobs(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.jobs = jobs
	c.loaded = true
	c.mu.Unlock()

	c.notify()
	return nil
}

// Loaded reports whether the first listJobs has completed. Consumers show a
// loading state until then.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Snapshot returns a deep copy of the collection, ordered by lastUpdated
// descending.
func (c *Cache) Snapshot() []entity.Job {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Job, 0, len(c.jobs))
	for i := range c.jobs {
		out = append(out, c.jobs[i].Clone())
	}
	return out
}

// Search returns the snapshot filtered to jobs whose number contains the
// query, case-insensitively. An empty query returns everything.
func (c *Cache) Search(query string) []entity.Job {
	all := c.Snapshot()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}

	out := all[:0]
	for _, job := range all {
		if strings.Contains(strings.ToLower(job.JobNumber), query) {
			out = append(out, job)
		}
	}
	return out
}

// GetByID returns a copy of one cached job.
func (c *Cache) GetByID(id string) (*entity.Job, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.jobs {
		if c.jobs[i].ID == id {
			clone := c.jobs[i].Clone()
			return &clone, true
		}
	}
	return nil, false
}

// Watch returns a channel that receives a tick after every snapshot
// replacement, plus a cancel func. Ticks coalesce; receivers re-read the
// snapshot rather than consuming payloads.
func (c *Cache) Watch() (<-chan struct{}, func()) {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan struct{}, 1)
	c.watchers[id] = ch

	cancel := func() {
		c.watchMu.Lock()
		defer c.watchMu.Unlock()
		delete(c.watchers, id)
	}
	return ch, cancel
}

func (c *Cache) notify() {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	for _, ch := range c.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
