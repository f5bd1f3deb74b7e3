package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/repository"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *model.ReconciliationReport) (*model.ReconciliationReport, error) {
	args := m.Called(ctx, report)
	if fn, ok := args.Get(0).(func(context.Context, *model.ReconciliationReport) *model.ReconciliationReport); ok {
		return fn(ctx, report), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReconciliationReport), args.Error(1)
}

func (m *MockReportRepository) FindByID(ctx context.Context, id string) (*model.ReconciliationReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReconciliationReport), args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.ReconciliationReport], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ReconciliationReport]), args.Error(1)
}
