package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/repository"
)

// ReportInMemory is a map-backed repository.ReportRepository. Reports are
// append-only; the type deliberately has no update or delete.
type ReportInMemory struct {
	mu      sync.RWMutex
	reports map[string]*model.ReconciliationReport
}

// NewReportInMemory creates an empty in-memory report repository.
func NewReportInMemory() *ReportInMemory {
	return &ReportInMemory{reports: make(map[string]*model.ReconciliationReport)}
}

var _ repository.ReportRepository = (*ReportInMemory)(nil)

func (r *ReportInMemory) Create(ctx context.Context, report *model.ReconciliationReport) (*model.ReconciliationReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyReport(report)
	r.reports[report.ID] = stored
	return copyReport(stored), nil
}

func (r *ReportInMemory) FindByID(ctx context.Context, id string) (*model.ReconciliationReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyReport(rep), nil
}

func (r *ReportInMemory) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.ReconciliationReport], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.ReconciliationReport, 0, len(r.reports))
	for _, rep := range r.reports {
		items = append(items, *copyReport(rep))
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].GeneratedAt.Equal(items[j].GeneratedAt) {
			return items[i].GeneratedAt.After(items[j].GeneratedAt)
		}
		return items[i].ID > items[j].ID
	})

	total := len(items)
	return &repository.PageResult[model.ReconciliationReport]{
		Items: page(items, pq),
		Total: total,
	}, nil
}

func copyReport(r *model.ReconciliationReport) *model.ReconciliationReport {
	out := *r
	out.Results = append([]model.MatchResult(nil), r.Results...)
	out.RecordErrors = append([]model.RecordError(nil), r.RecordErrors...)
	return &out
}
