package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/service"
)

type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) Upload(ctx context.Context, r io.Reader, originalFilename string, family model.FileFamily, contentType string, size int64) (*model.FileBatch, error) {
	args := m.Called(ctx, r, originalFilename, family, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileBatch), args.Error(1)
}

func (m *MockBatchService) Clean(ctx context.Context, id string) (*model.FileBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileBatch), args.Error(1)
}

func (m *MockBatchService) List(ctx context.Context, limit, offset int) (*service.BatchListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchListResult), args.Error(1)
}

func (m *MockBatchService) Get(ctx context.Context, id string) (*model.FileBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileBatch), args.Error(1)
}

func (m *MockBatchService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBatchService) DownloadURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
