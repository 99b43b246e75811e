package loan

import (
	"context"

	"loan-management/internal/domain/customer"
	"loan-management/internal/domain/product"
	"loan-management/internal/event"
	"loan-management/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

type TxMock struct {
	pgx.Tx
}

var tx pgx.Tx = &TxMock{}

func (m *MockRepository) Create(ctx context.Context, l *Loan) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, loanID int64) (*Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Loan), args.Error(1)
}

func (m *MockRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Loan), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, params pagination.Params) ([]*Loan, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Loan), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListByCustomer(ctx context.Context, customerID int64, params pagination.Params) ([]*Loan, int64, error) {
	args := m.Called(ctx, customerID, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Loan), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, l *Loan) error {
	args := m.Called(ctx, tx, l)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, loanID int64) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

func (m *MockRepository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[Status]int64), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, params pagination.Params) ([]*customer.Customer, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*customer.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customerID int64, patch customer.Patch) (*customer.Customer, error) {
	args := m.Called(ctx, customerID, patch)
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, customerID int64) error {
	return m.Called(ctx, customerID).Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *product.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, productID int64) (*product.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, params pagination.Params) ([]*product.Product, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*product.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Update(ctx context.Context, productID int64, patch product.Patch) (*product.Product, error) {
	args := m.Called(ctx, productID, patch)
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, productID int64) error {
	return m.Called(ctx, productID).Error(0)
}

type MockSettlementFinder struct {
	mock.Mock
}

func (m *MockSettlementFinder) FindSettlement(ctx context.Context, tx pgx.Tx, loanID int64) (*Settlement, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Settlement), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishCustomerCreated(ctx context.Context, e event.CustomerCreatedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEventPublisher) PublishLoanStatusChanged(ctx context.Context, e event.LoanStatusChangedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEventPublisher) PublishPaymentRecorded(ctx context.Context, e event.PaymentRecordedEvent) error {
	return m.Called(ctx, e).Error(0)
}
