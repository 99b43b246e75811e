package customer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"loan-management/internal/event"
	"loan-management/internal/pkg/apperrors"
	"loan-management/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTest() (*MockCustomerRepository, *MockEventPublisher, Service) {
	mockRepo := new(MockCustomerRepository)
	mockPub := new(MockEventPublisher)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mockRepo, mockPub, NewCustomerService(mockRepo, mockPub, logger)
}

func TestNewCustomerService_PanicsWithoutRepository(t *testing.T) {
	assert.Panics(t, func() {
		NewCustomerService(nil, nil, nil)
	})
}

func TestCustomerService_CreateCustomer(t *testing.T) {
	ctx := context.Background()
	params := CreateParams{
		Name:        "Alice",
		PhoneNumber: "08123",
		Address:     "Jakarta",
		DateOfBirth: time.Date(1991, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	t.Run("Success", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()

		mockRepo.On("Create", ctx, mock.MatchedBy(func(c *Customer) bool {
			if c.Name != "Alice" || c.PhoneNumber != "08123" {
				return false
			}
			c.ID = 11
			return true
		})).Return(nil).Once()
		mockPub.On("PublishCustomerCreated", ctx, mock.MatchedBy(func(e event.CustomerCreatedEvent) bool {
			return e.Payload.CustomerID == 11 && e.Payload.Name == "Alice"
		})).Return(nil).Once()

		cust, err := service.CreateCustomer(ctx, params)

		require.NoError(t, err)
		assert.Equal(t, int64(11), cust.ID)
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("Publish failure does not fail creation", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()

		mockRepo.On("Create", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil).Once()
		mockPub.On("PublishCustomerCreated", ctx, mock.Anything).Return(errors.New("broker down")).Once()

		cust, err := service.CreateCustomer(ctx, params)

		require.NoError(t, err)
		assert.NotNil(t, cust)
	})

	t.Run("Repository failure", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		dbErr := errors.New("database connection failed")

		mockRepo.On("Create", ctx, mock.AnythingOfType("*customer.Customer")).Return(dbErr).Once()

		cust, err := service.CreateCustomer(ctx, params)

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to save new customer")
		mockPub.AssertNotCalled(t, "PublishCustomerCreated", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_GetCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		expected := &Customer{ID: 42, Name: "Test"}
		mockRepo.On("FindByID", ctx, int64(42)).Return(expected, nil).Once()

		cust, err := service.GetCustomer(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, expected, cust)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindByID", ctx, int64(7)).Return(nil, apperrors.ErrNotFound).Once()

		cust, err := service.GetCustomer(ctx, 7)

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCustomerService_ListCustomers(t *testing.T) {
	ctx := context.Background()
	params := pagination.Params{Page: 2, PerPage: 10, OrderBy: "id", OrderDesc: true}

	mockRepo, _, service := setupTest()
	items := []*Customer{{ID: 11}, {ID: 12}}
	mockRepo.On("List", ctx, params).Return(items, int64(12), nil).Once()

	page, err := service.ListCustomers(ctx, params)

	require.NoError(t, err)
	assert.Equal(t, items, page.Items)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 2, page.CurrentPage)
}

func TestCustomerService_UpdateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies patch", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		name := "New Name"
		patch := Patch{Name: &name}
		mockRepo.On("Update", ctx, int64(3), patch).Return(&Customer{ID: 3, Name: name}, nil).Once()

		cust, err := service.UpdateCustomer(ctx, 3, patch)

		require.NoError(t, err)
		assert.Equal(t, "New Name", cust.Name)
	})

	t.Run("Empty patch reads current state", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindByID", ctx, int64(3)).Return(&Customer{ID: 3}, nil).Once()

		cust, err := service.UpdateCustomer(ctx, 3, Patch{})

		require.NoError(t, err)
		assert.Equal(t, int64(3), cust.ID)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		addr := "x"
		mockRepo.On("Update", ctx, int64(99), Patch{Address: &addr}).Return(nil, apperrors.ErrNotFound).Once()

		_, err := service.UpdateCustomer(ctx, 99, Patch{Address: &addr})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCustomerService_DeleteCustomer(t *testing.T) {
	ctx := context.Background()

	mockRepo, _, service := setupTest()
	mockRepo.On("Delete", ctx, int64(5)).Return(nil).Once()
	mockRepo.On("Delete", ctx, int64(6)).Return(apperrors.ErrNotFound).Once()

	assert.NoError(t, service.DeleteCustomer(ctx, 5))
	assert.ErrorIs(t, service.DeleteCustomer(ctx, 6), apperrors.ErrNotFound)
}
