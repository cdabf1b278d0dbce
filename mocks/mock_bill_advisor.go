package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"billaudit/internal/domain"
	"billaudit/internal/port"
)

// MockBillAdvisor is a mock implementation of port.BillAdvisor.
type MockBillAdvisor struct {
	mock.Mock
}

func (m *MockBillAdvisor) ExtractLineItems(ctx context.Context, bill, aftercare string) ([]domain.LineItem, error) {
	args := m.Called(ctx, bill, aftercare)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockBillAdvisor) ValidateCodes(ctx context.Context, bill, aftercare string, items []port.EnrichedLineItem) (*port.ValidationOutcome, error) {
	args := m.Called(ctx, bill, aftercare, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ValidationOutcome), args.Error(1)
}

func (m *MockBillAdvisor) DraftAppeal(ctx context.Context, bill, aftercare, overallReasoning string, disputed []port.DisputedItem) (string, error) {
	args := m.Called(ctx, bill, aftercare, overallReasoning, disputed)
	return args.String(0), args.Error(1)
}
