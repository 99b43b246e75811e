package handler_test

import (
	"context"

	"loan-management/internal/domain/customer"
	"loan-management/internal/domain/loan"
	"loan-management/internal/domain/payment"
	"loan-management/internal/domain/product"
	"loan-management/internal/domain/user"
	"loan-management/internal/pkg/pagination"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, params user.RegisterParams) (*user.AuthResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.AuthResult), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*user.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.AuthResult), args.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, params customer.CreateParams) (*customer.Customer, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, params pagination.Params) (*pagination.Page[*customer.Customer], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*customer.Customer]), args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, customerID int64, patch customer.Patch) (*customer.Customer, error) {
	args := m.Called(ctx, customerID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, params product.CreateParams) (*product.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) GetProduct(ctx context.Context, productID int64) (*product.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) ListProducts(ctx context.Context, params pagination.Params) (*pagination.Page[*product.Product], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*product.Product]), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, productID int64, patch product.Patch) (*product.Product, error) {
	args := m.Called(ctx, productID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, params loan.CreateParams) (*loan.Loan, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanService) ListLoans(ctx context.Context, params pagination.Params) (*pagination.Page[*loan.Loan], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*loan.Loan]), args.Error(1)
}

func (m *MockLoanService) ListCustomerLoans(ctx context.Context, customerID int64, params pagination.Params) (*pagination.Page[*loan.Loan], error) {
	args := m.Called(ctx, customerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*loan.Loan]), args.Error(1)
}

func (m *MockLoanService) UpdateLoan(ctx context.Context, loanID int64, patch loan.Patch, actor string) (*loan.Loan, error) {
	args := m.Called(ctx, loanID, patch, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanService) DeleteLoan(ctx context.Context, loanID int64) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, params payment.CreateParams) (*payment.Payment, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, paymentID int64) (*payment.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, params pagination.Params) (*pagination.Page[*payment.Payment], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*payment.Payment]), args.Error(1)
}

func (m *MockPaymentService) ListCustomerPayments(ctx context.Context, customerID int64, params pagination.Params) (*pagination.Page[*payment.Payment], error) {
	args := m.Called(ctx, customerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*payment.Payment]), args.Error(1)
}

func (m *MockPaymentService) RecordRepayment(ctx context.Context, paymentID int64, amount int64) (*payment.Payment, error) {
	args := m.Called(ctx, paymentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentService) DeletePayment(ctx context.Context, paymentID int64) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}
