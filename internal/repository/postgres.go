package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/premdoors/qc-tracker/constants"
	"github.com/premdoors/qc-tracker/internal/common"
	"github.com/premdoors/qc-tracker/internal/entity"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS jobs (
    id           UUID PRIMARY KEY,
    job_number   TEXT NOT NULL,
    status       TEXT NOT NULL,
    checklist    JSONB NOT NULL,
    last_updated TIMESTAMPTZ NOT NULL,
    updated_by   TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS jobs_job_number_key ON jobs (job_number);
`

type postgresJobRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresJobRepository ensures the jobs relation exists and returns a
// repository backed by the given pool.
func NewPostgresJobRepository(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) (JobRepository, error) {
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		log.Error("jobs schema setup failed", "error", err)
		return nil, common.WrapError(err, "ensure jobs schema")
	}
	return &postgresJobRepo{pool: pool, log: log}, nil
}

func (r *postgresJobRepo) ListJobs(ctx context.Context) ([]entity.Job, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, job_number, status, checklist, last_updated, updated_by
		   FROM jobs
		  ORDER BY last_updated DESC`)
	if err != nil {
		r.log.Error("list jobs failed", "error", err)
		return nil, common.WrapError(err, "list jobs")
	}
	defer rows.Close()

	var out []entity.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *job)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("list jobs scan failed", "error", err)
		return nil, common.WrapError(err, "list jobs")
	}
	return out, nil
}

func (r *postgresJobRepo) GetJob(ctx context.Context, id string) (*entity.Job, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, job_number, status, checklist, last_updated, updated_by
		   FROM jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.log.Error("get job failed", "job_id", id, "error", err)
		return nil, common.WrapError(err, "get job")
	}
	return job, nil
}

func (r *postgresJobRepo) JobNumberExists(ctx context.Context, jobNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE job_number = $1)`, jobNumber).Scan(&exists)
	if err != nil {
		r.log.Error("job number lookup failed", "job_number", jobNumber, "error", err)
		return false, common.WrapError(err, "job number lookup")
	}
	return exists, nil
}

func (r *postgresJobRepo) CreateJob(ctx context.Context, job *entity.Job) (*entity.Job, error) {
	stored := job.Clone()
	stored.ID = uuid.New().String()

	checklist, err := json.Marshal(stored.Checklist)
	if err != nil {
		return nil, common.WrapError(err, "marshal checklist")
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO jobs (id, job_number, status, checklist, last_updated, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		stored.ID, stored.JobNumber, string(stored.Status), checklist, stored.LastUpdated, stored.UpdatedBy)
	if err != nil {
		// The unique index is the backstop behind the service's pre-check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrDuplicateJobNumber
		}
		r.log.Error("create job failed", "job_number", stored.JobNumber, "error", err)
		return nil, common.WrapError(err, "create job")
	}

	r.log.Info("job created", "job_id", stored.ID, "job_number", stored.JobNumber)
	return &stored, nil
}

func (r *postgresJobRepo) UpdateJob(ctx context.Context, job *entity.Job) error {
	checklist, err := json.Marshal(job.Checklist)
	if err != nil {
		return common.WrapError(err, "marshal checklist")
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE jobs
		    SET job_number = $2, status = $3, checklist = $4, last_updated = $5, updated_by = $6
		  WHERE id = $1`,
		job.ID, job.JobNumber, string(job.Status), checklist, job.LastUpdated, job.UpdatedBy)
	if err != nil {
		r.log.Error("update job failed", "job_id", job.ID, "error", err)
		return common.WrapError(err, "update job")
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*entity.Job, error) {
	var (
		job       entity.Job
		status    string
		checklist []byte
	)
	if err := row.Scan(&job.ID, &job.JobNumber, &status, &checklist, &job.LastUpdated, &job.UpdatedBy); err != nil {
		return nil, err
	}
	job.Status = constants.JobStatus(status)
	if err := json.Unmarshal(checklist, &job.Checklist); err != nil {
		return nil, common.WrapError(err, "unmarshal checklist")
	}
	return &job, nil
}
