// Package inmemory holds map-backed repository implementations. State lives
// for the process session only, which is the intended scope: batches and
// reports are working data for one reconciliation sitting, not durable
// records.
package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/repository"
)

// BatchInMemory is a map-backed repository.BatchRepository. It is safe for
// concurrent use and stores copies, so callers can never mutate a stored
// snapshot through a returned pointer.
type BatchInMemory struct {
	mu      sync.RWMutex
	batches map[string]*model.FileBatch
}

// NewBatchInMemory creates an empty in-memory batch repository.
func NewBatchInMemory() *BatchInMemory {
	return &BatchInMemory{batches: make(map[string]*model.FileBatch)}
}

var _ repository.BatchRepository = (*BatchInMemory)(nil)

func (r *BatchInMemory) Create(ctx context.Context, batch *model.FileBatch) (*model.FileBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyBatch(batch)
	r.batches[batch.ID] = stored
	return copyBatch(stored), nil
}

func (r *BatchInMemory) Save(ctx context.Context, batch *model.FileBatch) (*model.FileBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.batches[batch.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	stored := copyBatch(batch)
	r.batches[batch.ID] = stored
	return copyBatch(stored), nil
}

func (r *BatchInMemory) FindByID(ctx context.Context, id string) (*model.FileBatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.batches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyBatch(b), nil
}

func (r *BatchInMemory) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.FileBatch], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.FileBatch, 0, len(r.batches))
	for _, b := range r.batches {
		items = append(items, *copyBatch(b))
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].UploadedAt.Equal(items[j].UploadedAt) {
			return items[i].UploadedAt.After(items[j].UploadedAt)
		}
		return items[i].ID > items[j].ID
	})

	total := len(items)
	return &repository.PageResult[model.FileBatch]{
		Items: page(items, pq),
		Total: total,
	}, nil
}

func (r *BatchInMemory) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.batches, id)
	return nil
}

func copyBatch(b *model.FileBatch) *model.FileBatch {
	out := *b
	out.Records = append([]model.SourceRecord(nil), b.Records...)
	out.RowErrors = append([]model.RowError(nil), b.RowErrors...)
	return &out
}

// page applies limit/offset in-memory.
func page[T any](items []T, pq repository.PageQuery) []T {
	if pq.Offset > 0 {
		if pq.Offset >= len(items) {
			return []T{}
		}
		items = items[pq.Offset:]
	}
	if pq.Limit > 0 && pq.Limit < len(items) {
		items = items[:pq.Limit]
	}
	return items
}
