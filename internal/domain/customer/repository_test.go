package customer

import (
	"context"

	"loan-management/internal/event"
	"loan-management/internal/pkg/pagination"

	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, params pagination.Params) ([]*Customer, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customerID int64, patch Patch) (*Customer, error) {
	args := m.Called(ctx, customerID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Customer), args.Error(1)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, customerID int64) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishCustomerCreated(ctx context.Context, e event.CustomerCreatedEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishLoanStatusChanged(ctx context.Context, e event.LoanStatusChangedEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishPaymentRecorded(ctx context.Context, e event.PaymentRecordedEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
