package customer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"loan-management/internal/event"
	"loan-management/internal/pkg/pagination"
)

type Service interface {
	CreateCustomer(ctx context.Context, params CreateParams) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context, params pagination.Params) (*pagination.Page[*Customer], error)
	UpdateCustomer(ctx context.Context, customerID int64, patch Patch) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
}

var _ Service = (*customerService)(nil)

type customerService struct {
	repo   Repository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo Repository, pub event.EventPublisher, logger *slog.Logger) Service {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NewLogEventPublisher(logger)
	}

	return &customerService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, params CreateParams) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer")

	cust := NewCustomer(params)
	if err := s.repo.Create(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	logger := s.logger.With(slog.Int64("customerID", cust.ID))
	createdEvent := event.CustomerCreatedEvent{
		Timestamp: time.Now(),
		Payload: event.CustomerEventPayload{
			CustomerID:  cust.ID,
			Name:        cust.Name,
			PhoneNumber: cust.PhoneNumber,
			Address:     cust.Address,
			CreditPoint: cust.CreditPoint,
			CreatedAt:   cust.CreatedAt,
		},
	}
	if pubErr := s.pub.PublishCustomerCreated(ctx, createdEvent); pubErr != nil {
		logger.ErrorContext(ctx, "Customer created, but failed to publish creation event", slog.Any("error", pubErr))
	}

	logger.InfoContext(ctx, "Successfully created new customer")
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.DebugContext(ctx, "Attempting to get customer by ID")

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		logger.WarnContext(ctx, "Customer lookup failed", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context, params pagination.Params) (*pagination.Page[*Customer], error) {
	s.logger.DebugContext(ctx, "Listing customers", slog.Int("page", params.Page), slog.Int("perPage", params.PerPage))

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return &pagination.Page[*Customer]{
		Items:       items,
		Total:       total,
		CurrentPage: params.Page,
		PerPage:     params.PerPage,
	}, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, patch Patch) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to update customer")

	if patch.IsEmpty() {
		return s.GetCustomer(ctx, customerID)
	}

	cust, err := s.repo.Update(ctx, customerID, patch)
	if err != nil {
		logger.ErrorContext(ctx, "Repository failed to update customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer %d: %w", customerID, err)
	}

	logger.InfoContext(ctx, "Successfully updated customer")
	return cust, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to delete customer")

	if err := s.repo.Delete(ctx, customerID); err != nil {
		logger.ErrorContext(ctx, "Repository failed to delete customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	logger.InfoContext(ctx, "Customer deleted")
	return nil
}
