package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loan-management/internal/domain/loan"
	"loan-management/internal/infrastructure/monitoring"
)

type LoanCounter interface {
	CountByStatus(ctx context.Context) (map[loan.Status]int64, error)
}

type OutstandingSummer interface {
	TotalOutstanding(ctx context.Context) (int64, error)
}

// PortfolioSnapshotJob exports the number of loans per status and the total
// unpaid payment balance as gauges.
type PortfolioSnapshotJob struct {
	loans    LoanCounter
	payments OutstandingSummer
	logger   *slog.Logger
}

func NewPortfolioSnapshotJob(loans LoanCounter, payments OutstandingSummer, logger *slog.Logger) *PortfolioSnapshotJob {
	if loans == nil || payments == nil || logger == nil {
		panic("PortfolioSnapshotJob dependencies cannot be nil")
	}
	return &PortfolioSnapshotJob{
		loans:    loans,
		payments: payments,
		logger:   logger.With("job", "PortfolioSnapshot"),
	}
}

func (j *PortfolioSnapshotJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting portfolio snapshot job.")

	counts, err := j.loans.CountByStatus(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to count loans by status, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to count loans: %w", err)
	}

	outstanding, err := j.payments.TotalOutstanding(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to sum outstanding balances, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to sum outstanding balances: %w", err)
	}

	byStatus := make(map[string]int64, len(counts))
	var total int64
	for status, n := range counts {
		label := string(status)
		if label == "" {
			label = "UNSET"
		}
		byStatus[label] += n
		total += n
	}
	monitoring.SetPortfolioSnapshot(byStatus, outstanding)

	j.logger.InfoContext(ctx, "Portfolio snapshot job finished.",
		slog.Int64("loans", total),
		slog.Int64("outstanding", outstanding),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}
