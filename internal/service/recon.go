package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/export"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/recon"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/repository"
)

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrBatchNotCleaned  = errors.New("batch has not been cleaned")
	ErrFamilyMismatch   = errors.New("batch family does not fit the requested side")
	ErrSameBatch        = errors.New("authority and invoice batch must differ")
)

// ReportListResult is the service-level DTO for paginated reports.
type ReportListResult struct {
	Items []model.ReconciliationReport `json:"data"`
	Total int                          `json:"total"`
}

// ReconService runs reconciliations over cleaned batches and manages the
// append-only run history.
type ReconService interface {
	// Run reconciles a cleaned GSTR-2A batch against a cleaned invoice batch
	// and persists the resulting report. A nil tolerance uses the configured
	// defaults. Both batches are marked processed.
	Run(ctx context.Context, authorityBatchID, invoiceBatchID string, tol *recon.Tolerance) (*model.ReconciliationReport, error)

	// List returns reports using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ReportListResult, error)

	// Get returns a single report by its ID.
	Get(ctx context.Context, id string) (*model.ReconciliationReport, error)

	// Export writes a report as an XLSX workbook to w and returns the
	// suggested download filename.
	Export(ctx context.Context, id string, w io.Writer) (string, error)
}

type reconService struct {
	batches    repository.BatchRepository
	reports    repository.ReportRepository
	defaultTol recon.Tolerance
	log        *logrus.Logger
}

// NewReconService constructs a new ReconService with the given default
// tolerance configuration.
func NewReconService(batches repository.BatchRepository, reports repository.ReportRepository, defaultTol recon.Tolerance, log *logrus.Logger) ReconService {
	return &reconService{batches: batches, reports: reports, defaultTol: defaultTol, log: log}
}

func (s *reconService) Run(ctx context.Context, authorityBatchID, invoiceBatchID string, tol *recon.Tolerance) (*model.ReconciliationReport, error) {
	if authorityBatchID == "" || invoiceBatchID == "" {
		return nil, ErrIDRequired
	}
	if authorityBatchID == invoiceBatchID {
		return nil, ErrSameBatch
	}

	authority, err := s.cleanedBatch(ctx, authorityBatchID, model.FamilyGSTR2A)
	if err != nil {
		return nil, err
	}
	invoices, err := s.cleanedBatch(ctx, invoiceBatchID, model.FamilyInvoice)
	if err != nil {
		return nil, err
	}

	effective := s.defaultTol
	if tol != nil {
		effective = *tol
	}

	report, err := recon.Reconcile(effective, authority.Records, invoices.Records)
	if err != nil {
		return nil, err
	}

	// Identity and provenance: the report copies batch-derived values so
	// deleting a batch later cannot invalidate it.
	report.ID = uuid.New().String()
	report.GeneratedAt = time.Now().UTC()
	report.AuthorityBatchID = authority.ID
	report.AuthorityBatchName = authority.OriginalName
	report.InvoiceBatchID = invoices.ID
	report.InvoiceBatchName = invoices.OriginalName

	stored, err := s.reports.Create(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	s.markProcessed(ctx, authority)
	s.markProcessed(ctx, invoices)

	s.log.WithFields(logrus.Fields{
		"report_id":  stored.ID,
		"matched":    stored.MatchedCount,
		"variance":   stored.VarianceCount,
		"unmatched":  stored.UnmatchedAuthorityCount + stored.UnmatchedInvoiceCount,
		"duplicates": stored.DuplicateCount,
		"match_rate": stored.MatchRate,
	}).Info("reconciliation completed")
	return stored, nil
}

// cleanedBatch fetches a batch and verifies it is cleaned (or already
// processed; re-running over the same inputs is legitimate and yields an
// identical match list) and of the expected family.
func (s *reconService) cleanedBatch(ctx context.Context, id string, family model.FileFamily) (*model.FileBatch, error) {
	batch, err := s.batches.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
		}
		return nil, err
	}
	if batch.Family != family {
		return nil, fmt.Errorf("%w: batch %s is %s, expected %s", ErrFamilyMismatch, id, batch.Family, family)
	}
	if batch.Status != model.StatusCleaned && batch.Status != model.StatusProcessed {
		return nil, fmt.Errorf("%w: batch %s is %s", ErrBatchNotCleaned, id, batch.Status)
	}
	return batch, nil
}

// markProcessed saves a processed snapshot. Failures are logged, not
// surfaced: the report exists and the status is cosmetic at this point.
func (s *reconService) markProcessed(ctx context.Context, batch *model.FileBatch) {
	next := *batch
	next.Status = model.StatusProcessed
	if _, err := s.batches.Save(ctx, &next); err != nil {
		s.log.WithError(err).WithField("batch_id", batch.ID).Warn("mark batch processed failed")
	}
}

func (s *reconService) List(ctx context.Context, limit, offset int) (*ReportListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.reports.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ReportListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *reconService) Get(ctx context.Context, id string) (*model.ReconciliationReport, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

func (s *reconService) Export(ctx context.Context, id string, w io.Writer) (string, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := export.WriteExcel(report, w); err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}
	return export.Filename(report), nil
}
