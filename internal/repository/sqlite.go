package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/premdoors/qc-tracker/constants"
	"github.com/premdoors/qc-tracker/internal/common"
	"github.com/premdoors/qc-tracker/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
    id           TEXT PRIMARY KEY,
    job_number   TEXT NOT NULL UNIQUE,
    status       TEXT NOT NULL,
    checklist    TEXT NOT NULL,
    last_updated TEXT NOT NULL,
    updated_by   TEXT NOT NULL
);
`

// SQLiteJobRepository backs the jobs store with a local SQLite file, or an
// in-memory database for tests and the batch exporter's -inmem mode.
type SQLiteJobRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// Fixed-width timestamp layout. RFC3339Nano trims trailing zero nanoseconds,
// which breaks lexicographic ordering ("…00Z" sorts after "…00.5Z"); padding
// the fraction keeps ORDER BY on the text column correct.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// OpenSQLite connects to the given path (":memory:" works) and applies the
// schema.
func OpenSQLite(ctx context.Context, path string, log *slog.Logger) (*SQLiteJobRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// each pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure jobs schema: %w", err)
	}

	log.Info("sqlite jobs store ready", "path", path)
	return &SQLiteJobRepository{db: db, log: log}, nil
}

// Close closes the underlying database connection.
func (r *SQLiteJobRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteJobRepository) ListJobs(ctx context.Context) ([]entity.Job, error) {
	rows, err := r.db.QueryContext(ctx,
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
		job, err := scanSQLiteJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "list jobs")
	}
	return out, nil
}

func (r *SQLiteJobRepository) GetJob(ctx context.Context, id string) (*entity.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, job_number, status, checklist, last_updated, updated_by
		   FROM jobs WHERE id = ?`, id)
	job, err := scanSQLiteJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.log.Error("get job failed", "job_id", id, "error", err)
		return nil, common.WrapError(err, "get job")
	}
	return job, nil
}

func (r *SQLiteJobRepository) JobNumberExists(ctx context.Context, jobNumber string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM jobs WHERE job_number = ?`, jobNumber).Scan(&n)
	if err != nil {
		r.log.Error("job number lookup failed", "job_number", jobNumber, "error", err)
		return false, common.WrapError(err, "job number lookup")
	}
	return n > 0, nil
}

func (r *SQLiteJobRepository) CreateJob(ctx context.Context, job *entity.Job) (*entity.Job, error) {
	stored := job.Clone()
	stored.ID = uuid.New().String()

	checklist, err := json.Marshal(stored.Checklist)
	if err != nil {
		return nil, common.WrapError(err, "marshal checklist")
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO jobs (id, job_number, status, checklist, last_updated, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.JobNumber, string(stored.Status), string(checklist),
		stored.LastUpdated.UTC().Format(sqliteTimeLayout), stored.UpdatedBy)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, common.ErrDuplicateJobNumber
		}
		r.log.Error("create job failed", "job_number", stored.JobNumber, "error", err)
		return nil, common.WrapError(err, "create job")
	}

	r.log.Info("job created", "job_id", stored.ID, "job_number", stored.JobNumber)
	return &stored, nil
}

func (r *SQLiteJobRepository) UpdateJob(ctx context.Context, job *entity.Job) error {
	checklist, err := json.Marshal(job.Checklist)
	if err != nil {
		return common.WrapError(err, "marshal checklist")
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE jobs
		    SET job_number = ?, status = ?, checklist = ?, last_updated = ?, updated_by = ?
		  WHERE id = ?`,
		job.JobNumber, string(job.Status), string(checklist),
		job.LastUpdated.UTC().Format(sqliteTimeLayout), job.UpdatedBy, job.ID)
	if err != nil {
		r.log.Error("update job failed", "job_id", job.ID, "error", err)
		return common.WrapError(err, "update job")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanSQLiteJob(row rowScanner) (*entity.Job, error) {
	var (
		job       entity.Job
		status    string
		checklist string
		updated   string
	)
	if err := row.Scan(&job.ID, &job.JobNumber, &status, &checklist, &updated, &job.UpdatedBy); err != nil {
		return nil, err
	}
	job.Status = constants.JobStatus(status)
	ts, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return nil, common.WrapError(err, "parse last_updated")
	}
	job.LastUpdated = ts
	if err := json.Unmarshal([]byte(checklist), &job.Checklist); err != nil {
		return nil, common.WrapError(err, "unmarshal checklist")
	}
	return &job, nil
}
