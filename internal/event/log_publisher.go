package event

import (
	"context"
	"log/slog"
)

// LogEventPublisher records events in the application log. It is used when no
// broker is configured so services never need a nil check.
type LogEventPublisher struct {
	logger *slog.Logger
}

var _ EventPublisher = (*LogEventPublisher)(nil)

func NewLogEventPublisher(logger *slog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger.With("component", "LogEventPublisher")}
}

func (p *LogEventPublisher) PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error {
	p.logger.InfoContext(ctx, "Domain event",
		slog.String("routingKey", RoutingKeyCustomerCreated),
		slog.Int64("customerId", event.Payload.CustomerID))
	return nil
}

func (p *LogEventPublisher) PublishLoanStatusChanged(ctx context.Context, event LoanStatusChangedEvent) error {
	p.logger.InfoContext(ctx, "Domain event",
		slog.String("routingKey", event.RoutingKey()),
		slog.Int64("loanId", event.LoanID),
		slog.String("oldStatus", event.OldStatus),
		slog.String("newStatus", event.NewStatus))
	return nil
}

func (p *LogEventPublisher) PublishPaymentRecorded(ctx context.Context, event PaymentRecordedEvent) error {
	p.logger.InfoContext(ctx, "Domain event",
		slog.String("routingKey", event.RoutingKey()),
		slog.Int64("paymentId", event.PaymentID),
		slog.Int64("remainingAmount", event.RemainingAmount),
		slog.String("state", event.State))
	return nil
}
