package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/recon"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/service"
)

type MockReconService struct {
	mock.Mock
}

func (m *MockReconService) Run(ctx context.Context, authorityBatchID, invoiceBatchID string, tol *recon.Tolerance) (*model.ReconciliationReport, error) {
	args := m.Called(ctx, authorityBatchID, invoiceBatchID, tol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReconciliationReport), args.Error(1)
}

func (m *MockReconService) List(ctx context.Context, limit, offset int) (*service.ReportListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReportListResult), args.Error(1)
}

func (m *MockReconService) Get(ctx context.Context, id string) (*model.ReconciliationReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReconciliationReport), args.Error(1)
}

func (m *MockReconService) Export(ctx context.Context, id string, w io.Writer) (string, error) {
	args := m.Called(ctx, id, w)
	return args.String(0), args.Error(1)
}
