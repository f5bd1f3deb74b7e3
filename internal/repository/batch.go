package repository

import (
	"context"
	"errors"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// BatchRepository stores FileBatch snapshots. Save replaces the whole batch
// value; callers transition status by saving a new snapshot, never by
// mutating a stored one.
type BatchRepository interface {
	// Create inserts a new batch record.
	Create(ctx context.Context, batch *model.FileBatch) (*model.FileBatch, error)

	// Save replaces an existing batch with a new snapshot.
	Save(ctx context.Context, batch *model.FileBatch) (*model.FileBatch, error)

	// FindByID returns a batch by its ID, ErrNotFound when absent.
	FindByID(ctx context.Context, id string) (*model.FileBatch, error)

	// List returns batches ordered by upload time descending.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.FileBatch], error)

	// Delete removes a batch by ID. Returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}

// ReportRepository stores reconciliation reports as append-only history.
// Reports are immutable after Create; there is no update operation.
type ReportRepository interface {
	// Create appends a new report.
	Create(ctx context.Context, report *model.ReconciliationReport) (*model.ReconciliationReport, error)

	// FindByID returns a report by its ID, ErrNotFound when absent.
	FindByID(ctx context.Context, id string) (*model.ReconciliationReport, error)

	// List returns reports ordered by generation time descending.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.ReconciliationReport], error)
}
