package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
)

// RetireLoansJob flips loans whose end date has passed to RETIRED. The engine
// itself filters active loans by end date, so this is bookkeeping for the
// read-side views, not a correctness requirement.
type RetireLoansJob struct {
	loanRepo loan.Repository
	logger   *slog.Logger
}

func NewRetireLoansJob(loanRepo loan.Repository, logger *slog.Logger) *RetireLoansJob {
	if loanRepo == nil || logger == nil {
		panic("RetireLoansJob dependencies cannot be nil")
	}
	return &RetireLoansJob{
		loanRepo: loanRepo,
		logger:   logger.With("job", "RetireLoans"),
	}
}

func (j *RetireLoansJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting loan retirement job.")

	retired, err := j.loanRepo.RetireExpired(ctx, startTime)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to retire expired loans, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to retire expired loans: %w", err)
	}

	monitoring.RecordLoansRetired(int(retired))
	j.logger.InfoContext(ctx, "Loan retirement job finished.",
		slog.Int64("loans_retired", retired),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}
