package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	RoutingKeyCustomerCreated = "customer.created"
	RoutingKeyLoanApproved    = "loan.approved"
	RoutingKeyLoanCompleted   = "loan.completed"
	RoutingKeyPaymentCreated  = "payment.created"
	RoutingKeyPaymentUpdated  = "payment.updated"
)

type EventPublisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error
	PublishLoanStatusChanged(ctx context.Context, event LoanStatusChangedEvent) error
	PublishPaymentRecorded(ctx context.Context, event PaymentRecordedEvent) error
}

type CustomerEventPayload struct {
	CustomerID  int64     `json:"customerId"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phoneNumber"`
	Address     string    `json:"address"`
	CreditPoint *int      `json:"creditPoint,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CustomerCreatedEvent struct {
	EventID   string               `json:"eventId"`
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type LoanStatusChangedEvent struct {
	EventID    string    `json:"eventId"`
	Timestamp  time.Time `json:"timestamp"`
	LoanID     int64     `json:"loanId"`
	CustomerID int64     `json:"customerId"`
	OldStatus  string    `json:"oldStatus"`
	NewStatus  string    `json:"newStatus"`
	ApprovedBy *string   `json:"approvedBy,omitempty"`
}

// RoutingKey is derived from the new status; only APPROVED and COMPLETED are published.
func (e LoanStatusChangedEvent) RoutingKey() string {
	switch e.NewStatus {
	case "APPROVED":
		return RoutingKeyLoanApproved
	case "COMPLETED":
		return RoutingKeyLoanCompleted
	default:
		return "loan." + e.NewStatus
	}
}

type PaymentRecordedEvent struct {
	EventID         string    `json:"eventId"`
	Timestamp       time.Time `json:"timestamp"`
	Created         bool      `json:"created"`
	PaymentID       int64     `json:"paymentId"`
	CustomerID      int64     `json:"customerId"`
	LoanID          *int64    `json:"loanId,omitempty"`
	PaidAmount      int64     `json:"paidAmount"`
	RemainingAmount int64     `json:"remainingAmount"`
	State           string    `json:"state"`
}

func (e PaymentRecordedEvent) RoutingKey() string {
	if e.Created {
		return RoutingKeyPaymentCreated
	}
	return RoutingKeyPaymentUpdated
}

func ensureEventID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
