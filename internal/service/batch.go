package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/clean"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/ingest"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/repository"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/storage"
)

var (
	ErrIDRequired        = errors.New("id is required")
	ErrBatchNotFound     = errors.New("batch not found")
	ErrReaderNil         = errors.New("reader is nil")
	ErrInvalidFamily     = errors.New("unknown file family")
	ErrFileTooLarge      = errors.New("file exceeds the configured size ceiling")
	ErrBatchNotCleanable = errors.New("batch is not in a cleanable state")
)

// downloadURLExpiry bounds how long a presigned original-file link stays
// valid.
const downloadURLExpiry = 15 * time.Minute

// BatchListResult is the service-level DTO for paginated batches.
type BatchListResult struct {
	Items []model.FileBatch `json:"data"`
	Total int               `json:"total"`
}

// BatchService defines the use cases for handling uploaded file batches.
type BatchService interface {
	// Upload stores the original file bytes in object storage, parses them to
	// verify format and required columns, and saves the batch as uploaded.
	// Storage is rolled back if the metadata save fails.
	Upload(ctx context.Context, r io.Reader, originalFilename string, family model.FileFamily, contentType string, size int64) (*model.FileBatch, error)

	// Clean re-reads the stored original, normalizes it, and saves a new
	// cleaned snapshot carrying the normalized records and per-row errors.
	Clean(ctx context.Context, id string) (*model.FileBatch, error)

	// List returns batches using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*BatchListResult, error)

	// Get returns a single batch by its ID.
	Get(ctx context.Context, id string) (*model.FileBatch, error)

	// Delete removes a batch from both storage and the repository. Reports
	// already produced from the batch are unaffected.
	Delete(ctx context.Context, id string) error

	// DownloadURL returns a time-limited presigned URL for the stored
	// original file bytes.
	DownloadURL(ctx context.Context, id string) (string, error)
}

type batchService struct {
	store    storage.Storage
	repo     repository.BatchRepository
	maxBytes int64
	log      *logrus.Logger
}

// NewBatchService constructs a new BatchService. maxBytes is the upload
// size ceiling.
func NewBatchService(store storage.Storage, repo repository.BatchRepository, maxBytes int64, log *logrus.Logger) BatchService {
	return &batchService{store: store, repo: repo, maxBytes: maxBytes, log: log}
}

func (s *batchService) Upload(ctx context.Context, r io.Reader, originalFilename string, family model.FileFamily, contentType string, size int64) (*model.FileBatch, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if !family.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFamily, family)
	}
	if size > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes over %d", ErrFileTooLarge, size, s.maxBytes)
	}

	// Buffer the upload: it is parsed for validation here and streamed to
	// object storage afterwards. The ceiling bounds the buffer.
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: body over %d bytes", ErrFileTooLarge, s.maxBytes)
	}

	// Reject unreadable files and missing required columns before anything
	// is stored.
	rows, err := ingest.Parse(bytes.NewReader(data), originalFilename)
	if err != nil {
		return nil, fmt.Errorf("parse upload: %w", err)
	}

	ext := filepath.Ext(originalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("batches", genName))

	objInfo, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
			"family":            string(family),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	batch := &model.FileBatch{
		ID:           uuid.New().String(),
		Name:         genName,
		OriginalName: originalFilename,
		Family:       family,
		Size:         objInfo.Size,
		ContentType:  contentType,
		StoragePath:  objInfo.Key,
		UploadedAt:   time.Now().UTC(),
		Status:       model.StatusUploaded,
		RecordCount:  len(rows),
	}
	stored, err := s.repo.Create(ctx, batch)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("batch save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("batch save failed: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"batch_id": stored.ID,
		"family":   stored.Family,
		"rows":     stored.RecordCount,
	}).Info("batch uploaded")
	return stored, nil
}

func (s *batchService) Clean(ctx context.Context, id string) (*model.FileBatch, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	if batch.Status != model.StatusUploaded {
		return nil, fmt.Errorf("%w: status %s", ErrBatchNotCleanable, batch.Status)
	}

	obj, _, err := s.store.Get(ctx, batch.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("fetch original: %w", err)
	}
	defer obj.Close()

	rows, err := ingest.Parse(obj, batch.OriginalName)
	if err != nil {
		return nil, fmt.Errorf("parse original: %w", err)
	}
	res := clean.Normalize(rows, batch.Family)

	// New snapshot; the stored uploaded batch is replaced, not mutated.
	next := *batch
	next.Status = model.StatusCleaned
	next.CleanedName = cleanedName(batch.OriginalName)
	next.Records = res.Records
	next.RowErrors = res.Rejected
	next.RecordCount = len(res.Records)

	saved, err := s.repo.Save(ctx, &next)
	if err != nil {
		return nil, fmt.Errorf("save cleaned batch: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"batch_id":   saved.ID,
		"records":    len(res.Records),
		"rejected":   len(res.Rejected),
		"duplicates": res.DuplicatesDropped,
	}).Info("batch cleaned")
	return saved, nil
}

// List returns paginated batches without exposing repository types.
func (s *batchService) List(ctx context.Context, limit, offset int) (*BatchListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &BatchListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *batchService) Get(ctx context.Context, id string) (*model.FileBatch, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	return batch, nil
}

// Delete removes a batch from storage, then deletes its record.
func (s *batchService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBatchNotFound
		}
		return err
	}
	// Delete from storage first; if this fails, keep the record to avoid
	// losing the storage reference.
	if err := s.store.Delete(ctx, batch.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *batchService) DownloadURL(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrBatchNotFound
		}
		return "", err
	}
	u, err := s.store.PresignGet(ctx, batch.StoragePath, downloadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u, nil
}

// cleanedName mirrors the convention the reconciliation clerks already use:
// the cleaned artifact keeps the original base name with a _cleaned suffix.
func cleanedName(original string) string {
	base := strings.TrimSuffix(original, filepath.Ext(original))
	return base + "_cleaned.xlsx"
}
