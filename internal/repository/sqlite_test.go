package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premdoors/qc-tracker/constants"
	"github.com/premdoors/qc-tracker/internal/common"
	"github.com/premdoors/qc-tracker/internal/entity"
)

func openTestSQLite(t *testing.T) *SQLiteJobRepository {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo, err := OpenSQLite(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleJob(number string, updated time.Time) *entity.Job {
	return &entity.Job{
		JobNumber: number,
		Status:    constants.JobStatusPending,
		Checklist: []entity.ChecklistItem{
			{ID: "colour", Name: "Colour", Status: constants.ChecklistUnchecked, Images: []entity.ChecklistItemImage{}},
			{ID: "cill", Name: "Cill", Status: constants.ChecklistFail, Comment: "chipped", Images: []entity.ChecklistItemImage{
				{ID: "img-1", URL: "https://storage.test/qc-images/x/cill/1.jpg"},
			}},
		},
		LastUpdated: updated,
		UpdatedBy:   constants.SystemActor,
	}
}

func TestSQLiteCreateAndGet(t *testing.T) {
	repo := openTestSQLite(t)
	ctx := context.Background()
	updated := time.Date(2026, 8, 20, 9, 30, 0, 123456789, time.UTC)

	created, err := repo.CreateJob(ctx, sampleJob("BIFOLD-100", updated))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.GetJob(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "BIFOLD-100", got.JobNumber)
	assert.Equal(t, constants.JobStatusPending, got.Status)
	assert.True(t, got.LastUpdated.Equal(updated))
	require.Len(t, got.Checklist, 2)
	assert.Equal(t, "chipped", got.Checklist[1].Comment)
	require.Len(t, got.Checklist[1].Images, 1)
	assert.Equal(t, "img-1", got.Checklist[1].Images[0].ID)
}

func TestSQLiteGetMissing(t *testing.T) {
	repo := openTestSQLite(t)

	_, err := repo.GetJob(context.Background(), "no-such-id")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteDuplicateJobNumber(t *testing.T) {
	repo := openTestSQLite(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := repo.CreateJob(ctx, sampleJob("BIFOLD-100", now))
	require.NoError(t, err)

	_, err = repo.CreateJob(ctx, sampleJob("BIFOLD-100", now))
	require.ErrorIs(t, err, common.ErrDuplicateJobNumber)

	exists, err := repo.JobNumberExists(ctx, "BIFOLD-100")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.JobNumberExists(ctx, "bifold-100")
	require.NoError(t, err)
	assert.False(t, exists, "job number uniqueness is case-sensitive")
}

func TestSQLiteListOrdering(t *testing.T) {
	repo := openTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	_, err := repo.CreateJob(ctx, sampleJob("BIFOLD-100", base))
	require.NoError(t, err)
	_, err = repo.CreateJob(ctx, sampleJob("BIFOLD-200", base.Add(time.Minute)))
	require.NoError(t, err)
	_, err = repo.CreateJob(ctx, sampleJob("BIFOLD-300", base.Add(time.Second)))
	require.NoError(t, err)

	all, err := repo.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "BIFOLD-200", all[0].JobNumber)
	assert.Equal(t, "BIFOLD-300", all[1].JobNumber)
	assert.Equal(t, "BIFOLD-100", all[2].JobNumber)
}

func TestSQLiteListOrderingMixedPrecision(t *testing.T) {
	repo := openTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	// a whole-second timestamp must sort below a fractional one in the same
	// second; trimmed fractions would compare "00Z" > "00.5Z" textually
	_, err := repo.CreateJob(ctx, sampleJob("OLDER-WHOLE", base))
	require.NoError(t, err)
	_, err = repo.CreateJob(ctx, sampleJob("NEWER-FRAC", base.Add(500*time.Millisecond)))
	require.NoError(t, err)
	_, err = repo.CreateJob(ctx, sampleJob("NEWEST-WHOLE", base.Add(time.Second)))
	require.NoError(t, err)

	all, err := repo.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "NEWEST-WHOLE", all[0].JobNumber)
	assert.Equal(t, "NEWER-FRAC", all[1].JobNumber)
	assert.Equal(t, "OLDER-WHOLE", all[2].JobNumber)
}

func TestSQLiteUpdateJob(t *testing.T) {
	repo := openTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	created, err := repo.CreateJob(ctx, sampleJob("BIFOLD-100", base))
	require.NoError(t, err)

	created.Status = constants.JobStatusRework
	created.Checklist[0].Status = constants.ChecklistPass
	created.LastUpdated = base.Add(time.Hour)
	created.UpdatedBy = constants.DefaultActor
	require.NoError(t, repo.UpdateJob(ctx, created))

	got, err := repo.GetJob(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusRework, got.Status)
	assert.Equal(t, constants.ChecklistPass, got.Checklist[0].Status)
	assert.Equal(t, constants.DefaultActor, got.UpdatedBy)
	assert.True(t, got.LastUpdated.Equal(base.Add(time.Hour)))
}

func TestSQLiteUpdateMissing(t *testing.T) {
	repo := openTestSQLite(t)

	job := sampleJob("BIFOLD-100", time.Now().UTC())
	job.ID = "no-such-id"
	err := repo.UpdateJob(context.Background(), job)
	require.ErrorIs(t, err, common.ErrNotFound)
}
