package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/repository"
)

func batch(id string, uploadedAt time.Time) *model.FileBatch {
	return &model.FileBatch{
		ID:         id,
		Name:       id + ".csv",
		Family:     model.FamilyGSTR2A,
		Status:     model.StatusUploaded,
		UploadedAt: uploadedAt,
	}
}

func TestBatchInMemory_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewBatchInMemory()
	now := time.Now().UTC()

	stored, err := repo.Create(ctx, batch("b1", now))
	require.NoError(t, err)
	assert.Equal(t, "b1", stored.ID)

	found, err := repo.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusUploaded, found.Status)

	// Save replaces the snapshot.
	found.Status = model.StatusCleaned
	_, err = repo.Save(ctx, found)
	require.NoError(t, err)
	again, err := repo.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCleaned, again.Status)

	_, err = repo.Save(ctx, batch("missing", now))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "b1"))
	_, err = repo.FindByID(ctx, "b1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Deleting a missing row is not an error.
	assert.NoError(t, repo.Delete(ctx, "b1"))
}

func TestBatchInMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewBatchInMemory()

	b := batch("b1", time.Now().UTC())
	b.Records = []model.SourceRecord{{RecordID: "r1", DocumentNumber: "INV001"}}
	_, err := repo.Create(ctx, b)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "b1")
	require.NoError(t, err)
	got.Status = model.StatusError
	got.Records[0].DocumentNumber = "TAMPERED"

	fresh, err := repo.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusUploaded, fresh.Status)
	assert.Equal(t, "INV001", fresh.Records[0].DocumentNumber)
}

func TestBatchInMemory_ListOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewBatchInMemory()
	base := time.Now().UTC()

	for i, id := range []string{"a", "b", "c"} {
		_, err := repo.Create(ctx, batch(id, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	res, err := repo.List(ctx, repository.PageQuery{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "c", res.Items[0].ID, "newest first")
	assert.Equal(t, "b", res.Items[1].ID)

	res, err = repo.List(ctx, repository.PageQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "a", res.Items[0].ID)

	res, err = repo.List(ctx, repository.PageQuery{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestReportInMemory_AppendOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewReportInMemory()
	now := time.Now().UTC()

	_, err := repo.Create(ctx, &model.ReconciliationReport{ID: "r1", GeneratedAt: now})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &model.ReconciliationReport{ID: "r2", GeneratedAt: now.Add(time.Second)})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)

	_, err = repo.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	res, err := repo.List(ctx, repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, "r2", res.Items[0].ID, "newest first")
}

func TestReportInMemory_SurvivesBatchDeletion(t *testing.T) {
	// A report stores copies of batch-derived values; deleting the batch
	// must not invalidate it.
	ctx := context.Background()
	batches := NewBatchInMemory()
	reports := NewReportInMemory()

	_, err := batches.Create(ctx, batch("b1", time.Now().UTC()))
	require.NoError(t, err)
	_, err = reports.Create(ctx, &model.ReconciliationReport{
		ID:                 "rep1",
		AuthorityBatchID:   "b1",
		AuthorityBatchName: "b1.csv",
		MatchedCount:       3,
	})
	require.NoError(t, err)

	require.NoError(t, batches.Delete(ctx, "b1"))

	rep, err := reports.FindByID(ctx, "rep1")
	require.NoError(t, err)
	assert.Equal(t, "b1.csv", rep.AuthorityBatchName)
	assert.Equal(t, 3, rep.MatchedCount)
}
