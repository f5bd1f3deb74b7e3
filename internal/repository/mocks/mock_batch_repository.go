package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/repository"
)

type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) Create(ctx context.Context, batch *model.FileBatch) (*model.FileBatch, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileBatch), args.Error(1)
}

func (m *MockBatchRepository) Save(ctx context.Context, batch *model.FileBatch) (*model.FileBatch, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileBatch), args.Error(1)
}

func (m *MockBatchRepository) FindByID(ctx context.Context, id string) (*model.FileBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileBatch), args.Error(1)
}

func (m *MockBatchRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.FileBatch], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.FileBatch]), args.Error(1)
}

func (m *MockBatchRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
